package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/services"
)

// PaymentController receives Stripe webhooks and settles payment state.
// Updates key on the payment intent id, and succeeded/failed are terminal, so
// replayed or out-of-order events are no-ops.
type PaymentController struct {
	stripe   *services.StripeService
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	logger   *zap.Logger
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(
	stripe *services.StripeService,
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	logger *zap.Logger,
) *PaymentController {
	return &PaymentController{stripe: stripe, payments: payments, orders: orders, logger: logger}
}

// StripeWebhook handles POST /webhooks/stripe.
func (ctrl *PaymentController) StripeWebhook(c *gin.Context) {
	event, err := ctrl.stripe.ParseWebhook(c.Request)
	if err != nil {
		ctrl.logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		ctrl.handleIntentEvent(c, event, true)
	case "payment_intent.payment_failed":
		ctrl.handleIntentEvent(c, event, false)
	default:
		// Acknowledge everything else so Stripe stops retrying.
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (ctrl *PaymentController) handleIntentEvent(c *gin.Context, event stripe.Event, succeeded bool) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		ctrl.logger.Error("Failed to decode payment intent event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
		return
	}

	ctx := c.Request.Context()
	payment, err := ctrl.payments.FindByIntentID(ctx, intent.ID)
	if err != nil {
		// Intent we never issued, or the row is gone. Ack so Stripe does not
		// retry forever.
		ctrl.logger.Warn("Webhook for unknown payment intent",
			zap.String("intent_id", intent.ID), zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if payment.Status == models.PaymentIntentSucceeded || payment.Status == models.PaymentIntentFailed {
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "Already processed"})
		return
	}

	// Order first, payment last: the payment row only turns terminal once the
	// order reflects the outcome, so a retry after a partial failure
	// reprocesses the event instead of hitting the terminal-status return.
	orderUpdates := map[string]interface{}{}
	if succeeded {
		orderUpdates["payment_status"] = models.PaymentStatusPaid
		if order, err := ctrl.orders.FindByID(ctx, payment.OrderID); err == nil &&
			order.Status == models.OrderStatusPending {
			orderUpdates["status"] = models.OrderStatusProcessing
		}
	} else {
		orderUpdates["payment_status"] = models.PaymentStatusFailed
	}
	if err := ctrl.orders.UpdateStatus(ctx, payment.OrderID, orderUpdates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Order row is gone; settle the payment anyway so Stripe stops.
			ctrl.logger.Warn("Webhook for missing order",
				zap.String("order_id", payment.OrderID.String()),
				zap.String("intent_id", intent.ID))
		} else {
			ctrl.logger.Error("Failed to update order payment state",
				zap.String("order_id", payment.OrderID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
			return
		}
	}

	now := time.Now()
	payload := string(event.Data.Raw)
	updates := map[string]interface{}{"stripe_event_payload": &payload}
	if succeeded {
		updates["status"] = models.PaymentIntentSucceeded
		updates["succeeded_at"] = &now
	} else {
		updates["status"] = models.PaymentIntentFailed
		updates["failed_at"] = &now
	}
	if err := ctrl.payments.UpdateStatus(ctx, intent.ID, updates); err != nil {
		ctrl.logger.Error("Failed to update payment",
			zap.String("intent_id", intent.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	ctrl.logger.Info("Payment intent settled",
		zap.String("intent_id", intent.ID),
		zap.String("order_id", payment.OrderID.String()),
		zap.Bool("succeeded", succeeded),
	)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
