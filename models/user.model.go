package models

import "gorm.io/gorm"

// User roles. A user's role is fixed at registration; there is no
// role-change operation.
const (
	RoleInstructor = "INSTRUCTOR"
	RoleStudent    = "STUDENT"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"default:''"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:'STUDENT'"` // INSTRUCTOR, STUDENT
}
