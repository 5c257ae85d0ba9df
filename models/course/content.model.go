package course

import "gorm.io/gorm"

// Content is a piece of material inside a module. FileURL optionally points
// at an uploaded asset; storage itself lives outside this service.
type Content struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	FileURL     string `json:"file_url"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
