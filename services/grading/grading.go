// Package grading scores a student's submission to a questionnaire and runs
// the progress cascade in the same transaction.
package grading

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	courseModels "aula/models/course"
	"aula/services/progress"
	"aula/services/similarity"

	"gorm.io/gorm"
)

// PassScore is the minimum score for an attempt to pass.
const PassScore = 60.0

var (
	// ErrAlreadyGraded means an attempt already exists for this student and
	// questionnaire. The caller should redirect to the existing result.
	ErrAlreadyGraded = errors.New("questionnaire already answered by this student")
	// ErrNoQuestions means the questionnaire has no questions; no attempt is
	// created.
	ErrNoQuestions = errors.New("questionnaire has no questions")
	// ErrQuestionnaireNotFound means the questionnaire does not exist.
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
)

// Grade evaluates answers (question ID -> raw submitted value) for one
// student and persists the attempt, its answers and the resulting progress
// updates atomically. A multiple-choice value that does not resolve to an
// option of its question is recorded with a null option and counts as
// incorrect without aborting the rest of the submission. Open-text answers
// count as correct only when a non-empty reference answer exists and the
// submitted text is similar enough to it.
func Grade(db *gorm.DB, questionnaireID, studentID uint, answers map[uint]string) (*courseModels.Attempt, error) {
	var questionnaire courseModels.Questionnaire
	if err := db.Where("id = ? AND is_deleted = ?", questionnaireID, false).First(&questionnaire).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, err
	}

	// Early duplicate check for a friendly error; the unique index on
	// attempts is what actually fences concurrent submissions.
	var existing courseModels.Attempt
	err := db.Where("user_id = ? AND questionnaire_id = ?", studentID, questionnaireID).First(&existing).Error
	if err == nil {
		return &existing, ErrAlreadyGraded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var questions []courseModels.Question
	if err := db.Where("questionnaire_id = ? AND is_deleted = ?", questionnaireID, false).
		Order("order_index asc").Preload("Options").Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	raw, _ := json.Marshal(answers)

	attempt := courseModels.Attempt{
		UserID:          studentID,
		QuestionnaireID: questionnaireID,
		RawAnswers:      raw,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		// Attempt row first: the second of two racing submissions fails
		// right here, before any answer or progress write.
		if err := tx.Create(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyGraded
			}
			return err
		}

		correct := 0
		for _, q := range questions {
			answer := courseModels.Answer{
				AttemptID:  attempt.ID,
				QuestionID: q.ID,
			}

			switch q.Kind {
			case courseModels.KindOpenText:
				answer.Text = strings.TrimSpace(answers[q.ID])
				answer.IsCorrect = q.ReferenceAnswer != "" &&
					similarity.IsSimilar(q.ReferenceAnswer, answer.Text)
			default:
				if opt := resolveOption(&q, answers[q.ID]); opt != nil {
					id := opt.ID
					answer.OptionID = &id
					answer.IsCorrect = opt.IsCorrect
				}
			}

			if answer.IsCorrect {
				correct++
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}

		// Every question counts in the denominator, open ones included.
		attempt.Score = float64(correct) / float64(len(questions)) * 100
		attempt.Passed = attempt.Score >= PassScore
		if err := tx.Model(&attempt).Updates(map[string]interface{}{
			"score":  attempt.Score,
			"passed": attempt.Passed,
		}).Error; err != nil {
			return err
		}

		// Synchronous cascade in the same transaction. Catalog integrity
		// problems degrade to logged no-ops inside; only real storage
		// failures roll the whole submission back.
		return progress.OnAttemptGraded(tx, &attempt)
	})
	if txErr != nil {
		if errors.Is(txErr, ErrAlreadyGraded) {
			if err := db.Where("user_id = ? AND questionnaire_id = ?", studentID, questionnaireID).First(&existing).Error; err == nil {
				return &existing, ErrAlreadyGraded
			}
		}
		return nil, txErr
	}

	return &attempt, nil
}

// resolveOption parses value as an option ID and returns the matching option
// of q, or nil when the value is empty, malformed or belongs elsewhere.
func resolveOption(q *courseModels.Question, value string) *courseModels.Option {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return nil
	}
	for i := range q.Options {
		if q.Options[i].ID == uint(id) && !q.Options[i].IsDeleted {
			return &q.Options[i]
		}
	}
	return nil
}
