package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulaplan/aula-sync-api/internal/models"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Usuario, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	RecoverPassword(ctx context.Context, req models.RecoverPasswordRequest) error
	CheckUser(ctx context.Context, req models.CheckUserRequest) (bool, error)
}

type userUploader interface {
	Upload(ctx context.Context, tabla string, rows []map[string]interface{}) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	sync    userUploader
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, sync userUploader) *AuthHandler {
	return &AuthHandler{service: svc, sync: sync}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with security questions for recovery
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid register payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The app asserts on 200 for a created profile, not 201.
	response.JSON(c, http.StatusOK, user)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// RecoverPassword godoc
// @Summary Recover password
// @Description Reset the credential after matching phone and security answers
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RecoverPasswordRequest true "Recovery payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /recover-password [post]
func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req models.RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recover payload"))
		return
	}

	if err := h.service.RecoverPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Contraseña actualizada correctamente."})
}

// CheckUser godoc
// @Summary Check whether a phone number is registered
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.CheckUserRequest true "Check payload"
// @Success 200 {object} response.Envelope
// @Router /check-user [post]
func (h *AuthHandler) CheckUser(c *gin.Context) {
	var req models.CheckUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check payload"))
		return
	}

	exists, err := h.service.CheckUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"exists": exists})
}

// UsersSync stores user rows exactly as the device submits them, including
// contrasena. Accounts created this way cannot log in through /login, which
// bcrypt-compares; only /register and /recover-password write hashes.
//
// @Summary Upload user profile rows
// @Description Device-side replica of the usuarios table
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body []map[string]interface{} true "Rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /usuarios-sync [post]
func (h *AuthHandler) UsersSync(c *gin.Context) {
	var rows []map[string]interface{}
	if err := c.ShouldBindJSON(&rows); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}

	if err := h.sync.Upload(c.Request.Context(), "usuarios", rows); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Sincronización completada para usuarios."})
}
