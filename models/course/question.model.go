package course

import "gorm.io/gorm"

const (
	KindMultipleChoice = "multiple_choice"
	KindOpenText       = "open_text"
)

// Question belongs to a questionnaire. ReferenceAnswer is only meaningful
// for open-text questions, where it feeds the similarity check.
type Question struct {
	gorm.Model
	QuestionnaireID uint   `json:"questionnaire_id" gorm:"index;not null"`
	Text            string `json:"text" gorm:"type:text;not null"`
	Kind            string `json:"kind" gorm:"default:'multiple_choice'"`
	OrderIndex      int    `json:"order_index" gorm:"default:1"`
	ReferenceAnswer string `json:"reference_answer" gorm:"type:text"`
	IsDeleted       bool   `json:"-" gorm:"default:false"`

	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// Option is one choice of a multiple-choice question.
type Option struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
