package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"
)

// AppointmentController exposes service bookings.
type AppointmentController struct {
	appointments *services.AppointmentService
}

// NewAppointmentController creates a new AppointmentController.
func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// Book handles POST /appointments.
func (ctrl *AppointmentController) Book(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	appt, svcErr := ctrl.appointments.Book(c.Request.Context(), userID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListMine handles GET /appointments.
func (ctrl *AppointmentController) ListMine(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	appts, svcErr := ctrl.appointments.ListForUser(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// ListAll handles GET /admin/appointments.
func (ctrl *AppointmentController) ListAll(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	appts, total, svcErr := ctrl.appointments.ListAll(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"appointments": appts,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// UpdateStatus handles PATCH /admin/appointments/:id/status.
func (ctrl *AppointmentController) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	var req models.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if svcErr := ctrl.appointments.UpdateStatus(c.Request.Context(), id, req.Status); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated"})
}
