package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is a student's single graded submission to a questionnaire.
// The unique index on (user, questionnaire) is the enforcement point for the
// single-attempt rule; a second writer fails at persist time.
// Attempts are created once and never updated after grading.
type Attempt struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index:idx_attempt_user_questionnaire,unique;not null"`
	QuestionnaireID uint           `json:"questionnaire_id" gorm:"index:idx_attempt_user_questionnaire,unique;not null"`
	Score           float64        `json:"score" gorm:"default:0"`
	Passed          bool           `json:"passed" gorm:"default:false"`
	RawAnswers      datatypes.JSON `json:"raw_answers"` // submitted payload, kept for audit
}

// Answer records what the student answered on one question of an attempt.
// OptionID stays null when the submitted choice did not resolve to an option
// of the question; such answers count as incorrect.
type Answer struct {
	gorm.Model
	AttemptID  uint   `json:"attempt_id" gorm:"index:idx_answer_attempt_question,unique;not null"`
	QuestionID uint   `json:"question_id" gorm:"index:idx_answer_attempt_question,unique;not null"`
	OptionID   *uint  `json:"option_id"`
	Text       string `json:"text" gorm:"type:text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}
