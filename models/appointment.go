package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses.
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment is a booked service slot. A (date, time slot) pair can hold at
// most one non-cancelled appointment; the repository enforces this at booking
// time.
type Appointment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerName  string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string    `gorm:"type:varchar(255);not null" json:"customer_email"`
	Phone         string    `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Service       string    `gorm:"type:varchar(255);not null" json:"service"`
	Date          time.Time `gorm:"type:date;not null;index" json:"date"`
	TimeSlot      string    `gorm:"type:varchar(20);not null" json:"time_slot"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateAppointmentRequest is the booking payload.
type CreateAppointmentRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	Phone         string `json:"phone"`
	Service       string `json:"service" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	TimeSlot      string `json:"time_slot" binding:"required"`
	Notes         string `json:"notes"`
}

// UpdateAppointmentStatusRequest is the admin payload for moving a booking.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}
