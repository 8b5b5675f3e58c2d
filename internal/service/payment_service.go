package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulaplan/aula-sync-api/internal/models"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/paypal"
)

type paypalClient interface {
	AccessToken(ctx context.Context) (string, error)
	GetOrder(ctx context.Context, accessToken, orderID string) (*paypal.Order, error)
}

type paymentStore interface {
	RecordVerified(ctx context.Context, pago *models.Pago) (bool, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Pago, error)
}

// VerifyPaymentResult is the payload returned to the client after a
// successful verification.
type VerifyPaymentResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	AlreadyVerified bool   `json:"already_verified,omitempty"`
}

// PaymentService verifies PayPal orders and records completed ones.
type PaymentService struct {
	client    paypalClient
	store     paymentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(client paypalClient, store paymentStore, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{client: client, store: store, validator: validate, logger: logger}
}

// Verify exchanges credentials for a token, looks the order up and records
// it when completed. Replaying a completed order id reports success again
// without writing a second row.
func (s *PaymentService) Verify(ctx context.Context, req models.VerifyPaymentRequest) (*VerifyPaymentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	// An order already on file was verified before; skip the provider
	// round-trip and answer from our own record.
	if known, err := s.store.FindByOrderID(ctx, req.OrderID); err == nil && known != nil {
		s.logger.Info("pago ya verificado",
			zap.String("order_id", req.OrderID),
			zap.Int64("profesor_id", known.ProfesorID))
		return &VerifyPaymentResult{
			Success:         true,
			Message:         "Pago verificado correctamente.",
			AlreadyVerified: true,
		}, nil
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}

	token, err := s.client.AccessToken(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPaymentProvider.Code, appErrors.ErrPaymentProvider.Status, appErrors.ErrPaymentProvider.Message)
	}

	order, err := s.client.GetOrder(ctx, token, req.OrderID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPaymentProvider.Code, appErrors.ErrPaymentProvider.Status, appErrors.ErrPaymentProvider.Message)
	}

	if order.Status != paypal.OrderStatusCompleted {
		return nil, appErrors.ErrPaymentIncomplete
	}

	fecha := time.Now().UTC().Format(time.RFC3339)
	inserted, err := s.store.RecordVerified(ctx, &models.Pago{
		ProfesorID:          req.ProfesorID,
		OrderID:             req.OrderID,
		CantidadAsignaturas: req.CantidadAsignaturas,
		Estado:              order.Status,
		Fecha:               &fecha,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}

	s.logger.Info("pago verificado",
		zap.String("order_id", req.OrderID),
		zap.Int64("profesor_id", req.ProfesorID),
		zap.Int("cantidad_asignaturas", req.CantidadAsignaturas),
		zap.Bool("replay", !inserted))

	return &VerifyPaymentResult{
		Success:         true,
		Message:         "Pago verificado correctamente.",
		AlreadyVerified: !inserted,
	}, nil
}
