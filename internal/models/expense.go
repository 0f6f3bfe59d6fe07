package models

import "time"

// Expense is a single spending record owned by exactly one user.
// Amount is stored in minor units (cents).
type Expense struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Category    Category  `gorm:"size:32;not null;index" json:"category"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Description string    `gorm:"size:500" json:"description"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
