package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/repository"
)

// AppointmentService books and manages service appointments.
type AppointmentService struct {
	repo   repository.AppointmentRepository
	logger *zap.Logger
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(repo repository.AppointmentRepository, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, logger: logger}
}

// Book creates an appointment. A slot already holding a non-cancelled
// booking is rejected with 409.
func (s *AppointmentService) Book(ctx context.Context, userID string, req *models.CreateAppointmentRequest) (*models.Appointment, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Date must be YYYY-MM-DD"}
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, &ServiceError{StatusCode: 400, Message: "Date must not be in the past"}
	}

	taken, err := s.repo.CountAtSlot(ctx, date, req.TimeSlot)
	if err != nil {
		s.logger.Error("Slot check failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to book appointment"}
	}
	if taken > 0 {
		return nil, &ServiceError{StatusCode: 409, Message: "Time slot is already booked"}
	}

	appt := &models.Appointment{
		UserID:        userUUID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Phone:         req.Phone,
		Service:       req.Service,
		Date:          date,
		TimeSlot:      req.TimeSlot,
		Notes:         req.Notes,
		Status:        models.AppointmentStatusPending,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		s.logger.Error("Failed to create appointment", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to book appointment"}
	}

	s.logger.Info("Appointment booked",
		zap.String("service", appt.Service),
		zap.String("date", req.Date),
		zap.String("slot", appt.TimeSlot),
	)
	return appt, nil
}

// ListForUser returns a user's own bookings.
func (s *AppointmentService) ListForUser(ctx context.Context, userID string) ([]models.Appointment, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}
	appts, err := s.repo.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch appointments"}
	}
	return appts, nil
}

// ListAll returns paginated bookings (admin).
func (s *AppointmentService) ListAll(ctx context.Context, page, limit int) ([]models.Appointment, int64, *ServiceError) {
	appts, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch appointments"}
	}
	return appts, total, nil
}

// UpdateStatus moves a booking along its lifecycle (admin).
func (s *AppointmentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if err.Error() == "record not found" {
			return &ServiceError{StatusCode: 404, Message: "Appointment not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to update appointment"}
	}
	return nil
}
