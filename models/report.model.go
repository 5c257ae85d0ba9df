package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportSnapshot is a generated performance report kept for later download.
// Content holds the rendered CSV exactly as it was exported.
type ReportSnapshot struct {
	gorm.Model
	Reference   string    `json:"reference" gorm:"unique;not null"`
	Name        string    `json:"name"`
	GeneratedAt time.Time `json:"generated_at"`
	Content     string    `json:"content" gorm:"type:text"`
}
