package database

import (
	"fmt"
	"testing"

	courseModels "aula/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func TestAttemptUniquePerStudentAndQuestionnaire(t *testing.T) {
	db := migratedDB(t)

	require.NoError(t, db.Create(&courseModels.Attempt{UserID: 7, QuestionnaireID: 3, Score: 80, Passed: true}).Error)

	err := db.Create(&courseModels.Attempt{UserID: 7, QuestionnaireID: 3, Score: 90, Passed: true}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Different questionnaire or different student is fine.
	assert.NoError(t, db.Create(&courseModels.Attempt{UserID: 7, QuestionnaireID: 4}).Error)
	assert.NoError(t, db.Create(&courseModels.Attempt{UserID: 8, QuestionnaireID: 3}).Error)
}

func TestEnrollmentUniquePerStudentAndCourse(t *testing.T) {
	db := migratedDB(t)

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 7, CourseID: 1}).Error)

	err := db.Create(&courseModels.Enrollment{UserID: 7, CourseID: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	assert.NoError(t, db.Create(&courseModels.Enrollment{UserID: 7, CourseID: 2}).Error)
}

func TestModuleProgressUniquePerStudentAndModule(t *testing.T) {
	db := migratedDB(t)

	require.NoError(t, db.Create(&courseModels.ModuleProgress{UserID: 7, ModuleID: 1}).Error)

	err := db.Create(&courseModels.ModuleProgress{UserID: 7, ModuleID: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAnswerUniquePerAttemptAndQuestion(t *testing.T) {
	db := migratedDB(t)

	require.NoError(t, db.Create(&courseModels.Answer{AttemptID: 1, QuestionID: 1}).Error)

	err := db.Create(&courseModels.Answer{AttemptID: 1, QuestionID: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	assert.NoError(t, db.Create(&courseModels.Answer{AttemptID: 1, QuestionID: 2}).Error)
}
