package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulaplan/aula-sync-api/internal/models"
	"github.com/aulaplan/aula-sync-api/internal/service"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/response"
)

type paymentService interface {
	Verify(ctx context.Context, req models.VerifyPaymentRequest) (*service.VerifyPaymentResult, error)
}

// PaymentHandler wires the payment verification endpoint.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc paymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Verify godoc
// @Summary Verify a PayPal order
// @Description Confirm an order is completed and record the purchase
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.VerifyPaymentRequest true "Order reference"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /verify-payment [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	result, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}
