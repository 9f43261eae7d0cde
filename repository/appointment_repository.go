package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/models"
)

// AppointmentRepository defines the interface for booking data access.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Appointment, int64, error)
	CountAtSlot(ctx context.Context, date time.Time, timeSlot string) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// GormAppointmentRepository implements AppointmentRepository using GORM.
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository.
func NewGormAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *GormAppointmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time_slot DESC").
		Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) FindAll(ctx context.Context, page, limit int) ([]models.Appointment, int64, error) {
	var appts []models.Appointment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("date DESC, time_slot DESC").
		Find(&appts).Error; err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

// CountAtSlot counts non-cancelled bookings occupying a slot.
func (r *GormAppointmentRepository) CountAtSlot(ctx context.Context, date time.Time, timeSlot string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date = ? AND time_slot = ? AND status <> ?", date, timeSlot, models.AppointmentStatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *GormAppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
