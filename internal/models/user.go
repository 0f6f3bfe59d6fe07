package models

import "time"

// User is an account holder. Users are created at registration, their
// password changes on reset, and they are never deleted by the app.
type User struct {
	Base
	Username            string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	IsAdmin             bool       `gorm:"default:false" json:"is_admin"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Expenses            []Expense  `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}
