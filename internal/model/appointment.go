package model

import "time"

// Appointment is a booked visit. The slot (doctor_id, appt_date, appt_time)
// admits at most three appointments; that invariant lives in the booking
// service, the composite index here only serves the slot lookups.
type Appointment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	PatientFirstName string    `json:"patient_first_name" gorm:"size:100;not null"`
	PatientLastName  string    `json:"patient_last_name" gorm:"size:100;not null"`
	DoctorID         uint      `json:"doctor_id" gorm:"not null;index:idx_slot"`
	Date             time.Time `json:"appt_date" gorm:"column:appt_date;type:date;not null;index:idx_slot"`
	Time             string    `json:"appt_time" gorm:"column:appt_time;type:time;size:8;not null;index:idx_slot"`
	Kind             string    `json:"kind" gorm:"size:100"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
