package models

import "gorm.io/gorm"

// SupportTicket is a student-raised issue, handled outside the course flow.
type SupportTicket struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"default:'OPEN'"` // OPEN, IN_PROGRESS, CLOSED
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
