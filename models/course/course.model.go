package course

import "gorm.io/gorm"

// Course groups ordered modules. Teachers assigned through CourseTeacher own
// its content.
type Course struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description" gorm:"type:text"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

// CourseTeacher links a teacher to a course they run.
type CourseTeacher struct {
	gorm.Model
	CourseID uint `json:"course_id" gorm:"index:idx_course_teacher,unique;not null"`
	UserID   uint `json:"user_id" gorm:"index:idx_course_teacher,unique;not null"`
}
