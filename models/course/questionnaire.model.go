package course

import "gorm.io/gorm"

// Questionnaire is the block of questions a student answers. It belongs to a
// content and may additionally be launched from a simulation or an exam, at
// most one of the two.
type Questionnaire struct {
	gorm.Model
	ContentID    uint   `json:"content_id" gorm:"index;not null"`
	SimulationID *uint  `json:"simulation_id" gorm:"uniqueIndex"`
	ExamID       *uint  `json:"exam_id" gorm:"uniqueIndex"`
	Instructions string `json:"instructions" gorm:"type:text"`
	IsDeleted    bool   `json:"-" gorm:"default:false"`
}
