// Package reports computes read-only performance projections over the
// attempt history. Nothing in here mutates course or progress state.
package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"aula/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows a report. All set fields must match (conjunction); nil
// fields impose no constraint.
type Filter struct {
	CourseID  *uint
	TeacherID *uint
	From      *time.Time
	To        *time.Time
}

// CourseAverage is the aggregated row per course. Courses without matching
// attempts are omitted, never zero-filled.
type CourseAverage struct {
	CourseID     uint    `json:"course_id"`
	CourseName   string  `json:"course_name"`
	AttemptCount int64   `json:"attempt_count"`
	AverageScore float64 `json:"average_score"`
}

// AttemptRow is one attempt in the detailed export.
type AttemptRow struct {
	CourseName  string    `json:"course_name"`
	StudentName string    `json:"student_name"`
	Score       float64   `json:"score"`
	Passed      bool      `json:"passed"`
	Date        time.Time `json:"date"`
}

func attemptQuery(db *gorm.DB, f Filter) *gorm.DB {
	q := db.Table("attempts").
		Joins("JOIN questionnaires ON questionnaires.id = attempts.questionnaire_id").
		Joins("JOIN contents ON contents.id = questionnaires.content_id").
		Joins("JOIN modules ON modules.id = contents.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("attempts.deleted_at IS NULL")

	if f.CourseID != nil {
		q = q.Where("courses.id = ?", *f.CourseID)
	}
	if f.TeacherID != nil {
		q = q.Joins("JOIN course_teachers ON course_teachers.course_id = courses.id").
			Where("course_teachers.user_id = ?", *f.TeacherID)
	}
	if f.From != nil {
		q = q.Where("attempts.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("attempts.created_at <= ?", *f.To)
	}
	return q
}

// AverageScores returns the mean attempt score per course within the filter,
// ordered by course name.
func AverageScores(db *gorm.DB, f Filter) ([]CourseAverage, error) {
	var out []CourseAverage
	err := attemptQuery(db, f).
		Select("courses.id AS course_id, courses.name AS course_name, COUNT(attempts.id) AS attempt_count, AVG(attempts.score) AS average_score").
		Group("courses.id, courses.name").
		Order("courses.name asc").
		Scan(&out).Error
	return out, err
}

// AttemptRows returns the individual attempts within the filter, newest
// first, for the CSV export and the teacher dashboard.
func AttemptRows(db *gorm.DB, f Filter) ([]AttemptRow, error) {
	var out []AttemptRow
	err := attemptQuery(db, f).
		Joins("JOIN users ON users.id = attempts.user_id").
		Select("courses.name AS course_name, users.name AS student_name, attempts.score AS score, attempts.passed AS passed, attempts.created_at AS date").
		Order("attempts.created_at desc").
		Scan(&out).Error
	return out, err
}

// WriteCSV renders rows as the plain CSV the teacher dashboard downloads.
func WriteCSV(w io.Writer, rows []AttemptRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"course", "student", "score", "passed", "date"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.CourseName,
			r.StudentName,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			strconv.FormatBool(r.Passed),
			r.Date.Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateSnapshot renders the unfiltered attempt export and stores it as a
// ReportSnapshot for later download. Used by the nightly job and the
// on-demand admin endpoint.
func GenerateSnapshot(db *gorm.DB) (*models.ReportSnapshot, error) {
	rows, err := AttemptRows(db, Filter{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}

	now := time.Now()
	snap := models.ReportSnapshot{
		Reference:   uuid.NewString(),
		Name:        fmt.Sprintf("performance-%s", now.Format("2006-01-02")),
		GeneratedAt: now,
		Content:     buf.String(),
	}
	if err := db.Create(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}
