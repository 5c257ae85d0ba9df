package grading

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"aula/database"
	courseModels "aula/models/course"
	"aula/services/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

type fixture struct {
	course        courseModels.Course
	module        courseModels.Module
	nextModule    courseModels.Module
	questionnaire courseModels.Questionnaire
	mc1           courseModels.Question // option[0] correct
	mc2           courseModels.Question // option[1] correct
	open          courseModels.Question // reference "mitochondria"
}

func buildFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	var f fixture

	f.course = courseModels.Course{Name: "Cell Biology"}
	require.NoError(t, db.Create(&f.course).Error)

	f.module = courseModels.Module{CourseID: f.course.ID, Title: "The Cell", OrderIndex: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.module).Error)
	f.nextModule = courseModels.Module{CourseID: f.course.ID, Title: "Genetics", OrderIndex: 2, IsPublished: true}
	require.NoError(t, db.Create(&f.nextModule).Error)

	content := courseModels.Content{ModuleID: f.module.ID, Title: "Organelles"}
	require.NoError(t, db.Create(&content).Error)

	f.questionnaire = courseModels.Questionnaire{ContentID: content.ID}
	require.NoError(t, db.Create(&f.questionnaire).Error)

	f.mc1 = courseModels.Question{QuestionnaireID: f.questionnaire.ID, Text: "Powerhouse of the cell?", Kind: courseModels.KindMultipleChoice, OrderIndex: 1}
	require.NoError(t, db.Create(&f.mc1).Error)
	require.NoError(t, db.Create(&courseModels.Option{QuestionID: f.mc1.ID, Text: "Mitochondria", IsCorrect: true}).Error)
	require.NoError(t, db.Create(&courseModels.Option{QuestionID: f.mc1.ID, Text: "Ribosome"}).Error)

	f.mc2 = courseModels.Question{QuestionnaireID: f.questionnaire.ID, Text: "Protein factory?", Kind: courseModels.KindMultipleChoice, OrderIndex: 2}
	require.NoError(t, db.Create(&f.mc2).Error)
	require.NoError(t, db.Create(&courseModels.Option{QuestionID: f.mc2.ID, Text: "Nucleus"}).Error)
	require.NoError(t, db.Create(&courseModels.Option{QuestionID: f.mc2.ID, Text: "Ribosome", IsCorrect: true}).Error)

	f.open = courseModels.Question{QuestionnaireID: f.questionnaire.ID, Text: "Name the organelle that produces ATP.", Kind: courseModels.KindOpenText, OrderIndex: 3, ReferenceAnswer: "mitochondria"}
	require.NoError(t, db.Create(&f.open).Error)

	return f
}

func correctOption(t *testing.T, db *gorm.DB, questionID uint) courseModels.Option {
	t.Helper()
	var opt courseModels.Option
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&opt).Error)
	return opt
}

func wrongOption(t *testing.T, db *gorm.DB, questionID uint) courseModels.Option {
	t.Helper()
	var opt courseModels.Option
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, false).First(&opt).Error)
	return opt
}

func TestGradeAllCorrect(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	answers := map[uint]string{
		f.mc1.ID:  strconv.Itoa(int(correctOption(t, db, f.mc1.ID).ID)),
		f.mc2.ID:  strconv.Itoa(int(correctOption(t, db, f.mc2.ID).ID)),
		f.open.ID: "Mitochondria",
	}

	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)
	assert.Equal(t, 100.0, attempt.Score)
	assert.True(t, attempt.Passed)

	var answerRows []courseModels.Answer
	require.NoError(t, db.Where("attempt_id = ?", attempt.ID).Find(&answerRows).Error)
	assert.Len(t, answerRows, 3)

	// Passing the only questionnaire of the module completes it and unlocks
	// the next one.
	var mp courseModels.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", 7, f.module.ID).First(&mp).Error)
	assert.Equal(t, courseModels.ProgressCompleted, mp.State)
	assert.Equal(t, 100.0, mp.Progress)

	var next courseModels.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", 7, f.nextModule.ID).First(&next).Error)
	assert.Equal(t, courseModels.ProgressPending, next.State)
}

func TestGradeTwoOfThreePasses(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	answers := map[uint]string{
		f.mc1.ID:  strconv.Itoa(int(correctOption(t, db, f.mc1.ID).ID)),
		f.mc2.ID:  strconv.Itoa(int(wrongOption(t, db, f.mc2.ID).ID)),
		f.open.ID: "mitochondria",
	}

	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, attempt.Score, 0.01)
	assert.True(t, attempt.Passed)
}

func TestGradeOneOfThreeFails(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	answers := map[uint]string{
		f.mc1.ID:  strconv.Itoa(int(correctOption(t, db, f.mc1.ID).ID)),
		f.mc2.ID:  strconv.Itoa(int(wrongOption(t, db, f.mc2.ID).ID)),
		f.open.ID: "golgi apparatus",
	}

	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, attempt.Score, 0.01)
	assert.False(t, attempt.Passed)

	// Failed attempts do not touch progress.
	var count int64
	db.Model(&courseModels.ModuleProgress{}).Where("user_id = ?", 7).Count(&count)
	assert.Zero(t, count)
}

func TestGradeSecondSubmissionRejected(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	answers := map[uint]string{
		f.mc1.ID: strconv.Itoa(int(correctOption(t, db, f.mc1.ID).ID)),
	}

	first, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)

	second, err := Grade(db, f.questionnaire.ID, 7, answers)
	assert.ErrorIs(t, err, ErrAlreadyGraded)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&courseModels.Attempt{}).Where("user_id = ? AND questionnaire_id = ?", 7, f.questionnaire.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGradeEmptyQuestionnaire(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	empty := courseModels.Questionnaire{ContentID: f.questionnaire.ContentID}
	require.NoError(t, db.Create(&empty).Error)

	_, err := Grade(db, empty.ID, 7, map[uint]string{1: "x"})
	assert.ErrorIs(t, err, ErrNoQuestions)

	var count int64
	db.Model(&courseModels.Attempt{}).Count(&count)
	assert.Zero(t, count)
}

func TestGradeUnknownQuestionnaire(t *testing.T) {
	db := testDB(t)
	buildFixture(t, db)

	_, err := Grade(db, 99999, 7, map[uint]string{1: "x"})
	assert.ErrorIs(t, err, ErrQuestionnaireNotFound)
}

func TestGradeUnresolvableOptionCountsIncorrect(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	answers := map[uint]string{
		f.mc1.ID:  "99999", // no such option
		f.mc2.ID:  "not-a-number",
		f.open.ID: "mitochondria",
	}

	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, attempt.Score, 0.01)

	var rows []courseModels.Answer
	require.NoError(t, db.Where("attempt_id = ? AND question_id IN ?", attempt.ID, []uint{f.mc1.ID, f.mc2.ID}).Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Nil(t, r.OptionID)
		assert.False(t, r.IsCorrect)
	}
}

func TestGradeOptionOfAnotherQuestionDoesNotCount(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	// Submitting mc2's correct option against mc1 resolves to nothing.
	answers := map[uint]string{
		f.mc1.ID: strconv.Itoa(int(correctOption(t, db, f.mc2.ID).ID)),
	}

	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)

	var row courseModels.Answer
	require.NoError(t, db.Where("attempt_id = ? AND question_id = ?", attempt.ID, f.mc1.ID).First(&row).Error)
	assert.Nil(t, row.OptionID)
	assert.False(t, row.IsCorrect)
}

func TestGradeOpenTextWithoutReferenceIsIncorrect(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	noRef := courseModels.Question{QuestionnaireID: f.questionnaire.ID, Text: "Free response", Kind: courseModels.KindOpenText, OrderIndex: 4}
	require.NoError(t, db.Create(&noRef).Error)

	attempt, err := Grade(db, f.questionnaire.ID, 7, map[uint]string{noRef.ID: "anything at all"})
	require.NoError(t, err)

	var row courseModels.Answer
	require.NoError(t, db.Where("attempt_id = ? AND question_id = ?", attempt.ID, noRef.ID).First(&row).Error)
	assert.False(t, row.IsCorrect)
}

func TestGradeUnansweredQuestionsCountInDenominator(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	// Only one of three questions answered.
	answers := map[uint]string{
		f.mc1.ID: strconv.Itoa(int(correctOption(t, db, f.mc1.ID).ID)),
	}

	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, attempt.Score, 0.01)

	var rows []courseModels.Answer
	require.NoError(t, db.Where("attempt_id = ?", attempt.ID).Find(&rows).Error)
	assert.Len(t, rows, 3)
}

func TestGradeCompletesStartedSimulation(t *testing.T) {
	db := testDB(t)
	f := buildFixture(t, db)

	sim := courseModels.Simulation{ModuleID: f.module.ID, Name: "Lab Run"}
	require.NoError(t, db.Create(&sim).Error)
	simID := sim.ID
	require.NoError(t, db.Model(&courseModels.Questionnaire{}).Where("id = ?", f.questionnaire.ID).
		Update("simulation_id", simID).Error)

	_, err := progress.StartSimulation(db, 7, sim.ID)
	require.NoError(t, err)

	answers := map[uint]string{
		f.mc1.ID:  strconv.Itoa(int(correctOption(t, db, f.mc1.ID).ID)),
		f.mc2.ID:  strconv.Itoa(int(correctOption(t, db, f.mc2.ID).ID)),
		f.open.ID: "mitochondria",
	}
	attempt, err := Grade(db, f.questionnaire.ID, 7, answers)
	require.NoError(t, err)
	require.True(t, attempt.Passed)

	var sp courseModels.SimulationProgress
	require.NoError(t, db.Where("user_id = ? AND simulation_id = ?", 7, sim.ID).First(&sp).Error)
	assert.Equal(t, courseModels.SimulationCompleted, sp.State)
	require.NotNil(t, sp.EndTime)
	assert.WithinDuration(t, time.Now(), *sp.EndTime, time.Minute)
}
