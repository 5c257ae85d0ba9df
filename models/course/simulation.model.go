package course

import "gorm.io/gorm"

// Simulation is the practice scenario attached 1:1 to a module.
type Simulation struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"uniqueIndex;not null"`
	Name        string `json:"name"`
	Description string `json:"description" gorm:"type:text"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

// Exam is an alternate launch context for a questionnaire.
type Exam struct {
	gorm.Model
	ContentID uint   `json:"content_id" gorm:"index;not null"`
	Title     string `json:"title"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
