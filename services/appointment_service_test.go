package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/services"
)

// --- Mock appointment repository ---

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*models.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*models.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	if a, ok := m.appointments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppointmentRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var result []models.Appointment
	for _, a := range m.appointments {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) FindAll(_ context.Context, _, _ int) ([]models.Appointment, int64, error) {
	var result []models.Appointment
	for _, a := range m.appointments {
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAppointmentRepo) CountAtSlot(_ context.Context, date time.Time, timeSlot string) (int64, error) {
	var count int64
	for _, a := range m.appointments {
		if a.Date.Equal(date) && a.TimeSlot == timeSlot && a.Status != models.AppointmentStatusCancelled {
			count++
		}
	}
	return count, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.appointments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

// --- Helpers ---

func newTestAppointmentService(repo *mockAppointmentRepo) *services.AppointmentService {
	logger, _ := zap.NewDevelopment()
	return services.NewAppointmentService(repo, logger)
}

func bookingRequest(date, slot string) *models.CreateAppointmentRequest {
	return &models.CreateAppointmentRequest{
		CustomerName:  "Grace Hopper",
		CustomerEmail: "grace@example.com",
		Service:       "consultation",
		Date:          date,
		TimeSlot:      slot,
	}
}

// --- Tests ---

func TestService_Book_Success(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := newTestAppointmentService(repo)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	appt, svcErr := svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "10:00"))
	assert.Nil(t, svcErr)
	assert.Equal(t, models.AppointmentStatusPending, appt.Status)
	assert.Equal(t, "10:00", appt.TimeSlot)
	assert.Len(t, repo.appointments, 1)
}

func TestService_Book_SlotConflict(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := newTestAppointmentService(repo)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, svcErr := svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "10:00"))
	assert.Nil(t, svcErr)

	_, svcErr = svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "10:00"))
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)

	// A different slot on the same day is fine.
	_, svcErr = svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "11:00"))
	assert.Nil(t, svcErr)
}

func TestService_Book_CancelledSlotReopens(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := newTestAppointmentService(repo)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	first, svcErr := svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "10:00"))
	assert.Nil(t, svcErr)

	assert.Nil(t, svc.UpdateStatus(context.Background(), first.ID, models.AppointmentStatusCancelled))

	_, svcErr = svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "10:00"))
	assert.Nil(t, svcErr)
}

func TestService_Book_RejectsBadDates(t *testing.T) {
	svc := newTestAppointmentService(newMockAppointmentRepo())

	_, svcErr := svc.Book(context.Background(), uuid.New().String(), bookingRequest("01/02/2026", "10:00"))
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, svcErr = svc.Book(context.Background(), uuid.New().String(), bookingRequest(yesterday, "10:00"))
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_ListForUser_OnlyOwn(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := newTestAppointmentService(repo)

	mine := uuid.New().String()
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, _ = svc.Book(context.Background(), mine, bookingRequest(tomorrow, "10:00"))
	_, _ = svc.Book(context.Background(), uuid.New().String(), bookingRequest(tomorrow, "11:00"))

	appts, svcErr := svc.ListForUser(context.Background(), mine)
	assert.Nil(t, svcErr)
	assert.Len(t, appts, 1)
}
