package course

import "gorm.io/gorm"

// Enrollment registers a student in a course. One row per (student, course).
type Enrollment struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	CourseID  uint `json:"course_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	IsDeleted bool `json:"-" gorm:"default:false"`
}
