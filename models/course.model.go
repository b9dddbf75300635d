package models

import "gorm.io/gorm"

// Course represents a learning course authored by an instructor
type Course struct {
	gorm.Model
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description"`
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	// EnrolledCount mirrors the number of Enrollment rows for this course.
	// It is maintained by an atomic increment tied to enrollment insert,
	// never recomputed by scan on the request path.
	EnrolledCount int64 `json:"enrolled_count" gorm:"default:0"`
}
