package models

import "gorm.io/gorm"

// Enrollment links a student to a course. The composite unique index is the
// source of truth for enroll idempotency: a duplicate enroll attempt fails
// the insert instead of racing a prior read.
type Enrollment struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"uniqueIndex:idx_enrollment_student_course;not null"`
	CourseID  uint   `json:"course_id" gorm:"uniqueIndex:idx_enrollment_student_course;not null"`
	Status    string `json:"status" gorm:"default:'ENROLLED'"`
}
