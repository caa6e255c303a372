package model

import "time"

// Doctor is the bookable entity. Booking resolves doctors either by ID or by
// the exact (first_name, last_name) pair, so that pair is kept unique.
type Doctor struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"size:100;not null;uniqueIndex:idx_doctor_name"`
	LastName  string    `json:"last_name" gorm:"size:100;not null;uniqueIndex:idx_doctor_name"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
