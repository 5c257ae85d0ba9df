package progress

import (
	"fmt"
	"testing"
	"time"

	"aula/database"
	courseModels "aula/models/course"

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

func seedModules(t *testing.T, db *gorm.DB, count int) (courseModels.Course, []courseModels.Module) {
	t.Helper()
	course := courseModels.Course{Name: "Chemistry"}
	require.NoError(t, db.Create(&course).Error)

	modules := make([]courseModels.Module, count)
	for i := 0; i < count; i++ {
		modules[i] = courseModels.Module{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Module %d", i+1),
			OrderIndex:  i + 1,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&modules[i]).Error)
	}
	return course, modules
}

func TestSetProgressDerivesState(t *testing.T) {
	var mp courseModels.ModuleProgress

	mp.SetProgress(0)
	assert.Equal(t, courseModels.ProgressPending, mp.State)

	mp.SetProgress(1)
	assert.Equal(t, courseModels.ProgressInProgress, mp.State)

	mp.SetProgress(99)
	assert.Equal(t, courseModels.ProgressInProgress, mp.State)

	mp.SetProgress(100)
	assert.Equal(t, courseModels.ProgressCompleted, mp.State)
}

func TestSetProgressClampsRange(t *testing.T) {
	var mp courseModels.ModuleProgress

	mp.SetProgress(150)
	assert.Equal(t, 100.0, mp.Progress)
	assert.Equal(t, courseModels.ProgressCompleted, mp.State)

	var mp2 courseModels.ModuleProgress
	mp2.Progress = 40
	mp2.State = courseModels.ProgressInProgress
	mp2.SetProgress(-5)
	assert.Equal(t, 40.0, mp2.Progress)
}

func TestSetProgressNeverMovesBackwards(t *testing.T) {
	var mp courseModels.ModuleProgress
	mp.SetProgress(60)
	mp.SetProgress(30)
	assert.Equal(t, 60.0, mp.Progress)
	assert.Equal(t, courseModels.ProgressInProgress, mp.State)
}

func TestSetProgressCompletedIsTerminal(t *testing.T) {
	var mp courseModels.ModuleProgress
	mp.SetProgress(100)
	mp.SetProgress(50)
	assert.Equal(t, 100.0, mp.Progress)
	assert.Equal(t, courseModels.ProgressCompleted, mp.State)
}

func TestGetOrCreateModuleProgressIdempotent(t *testing.T) {
	db := testDB(t)
	_, modules := seedModules(t, db, 1)

	first, err := GetOrCreateModuleProgress(db, 7, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.ProgressPending, first.State)

	second, err := GetOrCreateModuleProgress(db, 7, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&courseModels.ModuleProgress{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUnlockNextCreatesFollowingRow(t *testing.T) {
	db := testDB(t)
	_, modules := seedModules(t, db, 3)

	require.NoError(t, UnlockNext(db, &modules[0], 7))

	var mp courseModels.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", 7, modules[1].ID).First(&mp).Error)
	assert.Equal(t, courseModels.ProgressPending, mp.State)

	// No row for the module after next.
	err := db.Where("user_id = ? AND module_id = ?", 7, modules[2].ID).First(&mp).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUnlockNextOnLastModuleIsNoop(t *testing.T) {
	db := testDB(t)
	_, modules := seedModules(t, db, 2)

	require.NoError(t, UnlockNext(db, &modules[1], 7))

	var count int64
	db.Model(&courseModels.ModuleProgress{}).Count(&count)
	assert.Zero(t, count)
}

func TestModuleVisibilityWalk(t *testing.T) {
	db := testDB(t)
	course, modules := seedModules(t, db, 3)

	// Nothing done yet: only the first module is unlocked.
	statuses, err := ModuleVisibility(db, 7, course.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Unlocked)
	assert.False(t, statuses[1].Unlocked)
	assert.False(t, statuses[2].Unlocked)

	// Completing the first unlocks exactly the second.
	_, err = UpdateModuleProgress(db, 7, modules[0].ID, 100)
	require.NoError(t, err)

	statuses, err = ModuleVisibility(db, 7, course.ID)
	require.NoError(t, err)
	assert.True(t, statuses[0].Unlocked)
	assert.True(t, statuses[1].Unlocked)
	assert.False(t, statuses[2].Unlocked)
	assert.Equal(t, courseModels.ProgressCompleted, statuses[0].State)
}

func TestModuleVisibilityGapLocksEverythingAfter(t *testing.T) {
	db := testDB(t)
	course, modules := seedModules(t, db, 3)

	// Third module completed but second untouched: the gap keeps both the
	// second and third locked in the walk.
	_, err := UpdateModuleProgress(db, 7, modules[0].ID, 100)
	require.NoError(t, err)
	_, err = UpdateModuleProgress(db, 7, modules[2].ID, 100)
	require.NoError(t, err)

	statuses, err := ModuleVisibility(db, 7, course.ID)
	require.NoError(t, err)
	assert.True(t, statuses[0].Unlocked)
	assert.True(t, statuses[1].Unlocked)
	assert.False(t, statuses[2].Unlocked)
}

func TestOnAttemptGradedFailedAttemptIsNoop(t *testing.T) {
	db := testDB(t)
	attempt := courseModels.Attempt{UserID: 7, QuestionnaireID: 1, Score: 40, Passed: false}

	require.NoError(t, OnAttemptGraded(db, &attempt))

	var count int64
	db.Model(&courseModels.ModuleProgress{}).Count(&count)
	assert.Zero(t, count)
}

func TestOnAttemptGradedBrokenCatalogDegrades(t *testing.T) {
	db := testDB(t)

	// Questionnaire gone entirely.
	attempt := courseModels.Attempt{UserID: 7, QuestionnaireID: 424242, Score: 100, Passed: true}
	require.NoError(t, db.Create(&attempt).Error)
	require.NoError(t, OnAttemptGraded(db, &attempt))

	// Questionnaire present but its content chain broken.
	orphan := courseModels.Questionnaire{ContentID: 424242}
	require.NoError(t, db.Create(&orphan).Error)
	attempt2 := courseModels.Attempt{UserID: 8, QuestionnaireID: orphan.ID, Score: 100, Passed: true}
	require.NoError(t, db.Create(&attempt2).Error)
	require.NoError(t, OnAttemptGraded(db, &attempt2))

	var count int64
	db.Model(&courseModels.ModuleProgress{}).Count(&count)
	assert.Zero(t, count)
}

func TestOnAttemptGradedIdempotent(t *testing.T) {
	db := testDB(t)
	_, modules := seedModules(t, db, 2)

	content := courseModels.Content{ModuleID: modules[0].ID, Title: "Reading"}
	require.NoError(t, db.Create(&content).Error)
	questionnaire := courseModels.Questionnaire{ContentID: content.ID}
	require.NoError(t, db.Create(&questionnaire).Error)

	attempt := courseModels.Attempt{UserID: 7, QuestionnaireID: questionnaire.ID, Score: 80, Passed: true}
	require.NoError(t, db.Create(&attempt).Error)

	require.NoError(t, OnAttemptGraded(db, &attempt))
	require.NoError(t, OnAttemptGraded(db, &attempt))

	var rows []courseModels.ModuleProgress
	require.NoError(t, db.Where("user_id = ?", 7).Find(&rows).Error)
	assert.Len(t, rows, 2) // completed first module plus unlocked second
}

func TestStartSimulationIsIdempotent(t *testing.T) {
	db := testDB(t)

	first, err := StartSimulation(db, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, courseModels.SimulationStarted, first.State)

	second, err := StartSimulation(db, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.StartTime.Unix(), second.StartTime.Unix())
}

func TestCompleteSimulationSetsEndTimeOnce(t *testing.T) {
	db := testDB(t)

	sp, err := StartSimulation(db, 7, 3)
	require.NoError(t, err)

	require.NoError(t, completeSimulation(db, 7, 3))
	require.NoError(t, db.Where("user_id = ? AND simulation_id = ?", 7, 3).First(sp).Error)
	require.NotNil(t, sp.EndTime)
	firstEnd := *sp.EndTime

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, completeSimulation(db, 7, 3))
	require.NoError(t, db.Where("user_id = ? AND simulation_id = ?", 7, 3).First(sp).Error)
	assert.Equal(t, firstEnd.Unix(), sp.EndTime.Unix())
}

func TestRestartSimulationClearsEndTime(t *testing.T) {
	db := testDB(t)

	_, err := StartSimulation(db, 7, 3)
	require.NoError(t, err)
	require.NoError(t, completeSimulation(db, 7, 3))

	sp, err := RestartSimulation(db, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, courseModels.SimulationStarted, sp.State)
	assert.Nil(t, sp.EndTime)
}
