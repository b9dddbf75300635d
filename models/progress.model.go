package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizScore is one graded quiz attempt. Every attempt is kept, pass or fail;
// the latest entry by CreatedAt is the lecture's current score.
type QuizScore struct {
	LectureID uint      `json:"lecture_id"`
	Percent   int       `json:"percent"`
	CreatedAt time.Time `json:"created_at"`
}

// Progress is the single per-student-per-course record of completed lectures
// and quiz score history. The row is upserted on the first completion or
// attempt event, never provisioned at enrollment time.
type Progress struct {
	gorm.Model
	StudentID uint `json:"student_id" gorm:"uniqueIndex:idx_progress_student_course;not null"`
	CourseID  uint `json:"course_id" gorm:"uniqueIndex:idx_progress_student_course;not null"`

	// CompletedLectureIDs has set semantics: membership only, no duplicates.
	CompletedLectureIDs datatypes.JSONSlice[uint]      `json:"completed_lecture_ids"`
	Scores              datatypes.JSONSlice[QuizScore] `json:"scores"`
}
