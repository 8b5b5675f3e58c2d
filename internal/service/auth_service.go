package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aulaplan/aula-sync-api/internal/models"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
)

type authUserRepository interface {
	FindByCorreo(ctx context.Context, correo string) (*models.Usuario, error)
	FindByTelefono(ctx context.Context, telefono string) (*models.Usuario, error)
	ExistsByCorreo(ctx context.Context, correo string) (bool, error)
	ExistsByTelefono(ctx context.Context, telefono string) (bool, error)
	Create(ctx context.Context, user *models.Usuario) error
	UpdateContrasenaByTelefono(ctx context.Context, telefono, contrasena string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService provides registration, login, recovery and existence checks.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Register creates a new user. The credential is stored bcrypt-hashed; the
// legacy backend kept it in clear text, which is not reproduced here.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Usuario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	exists, err := s.repo.ExistsByCorreo(ctx, req.Correo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.Usuario{
		Nombre:              req.Nombre,
		Apellido:            optional(req.Apellido),
		Correo:              req.Correo,
		Telefono:            optional(req.Telefono),
		Rol:                 optional(req.Rol),
		Contrasena:          string(hash),
		PreguntaSeguridad1:  optional(req.PreguntaSeguridad1),
		RespuestaSeguridad1: optional(req.RespuestaSeguridad1),
		PreguntaSeguridad2:  optional(req.PreguntaSeguridad2),
		RespuestaSeguridad2: optional(req.RespuestaSeguridad2),
		PreguntaSeguridad3:  optional(req.PreguntaSeguridad3),
		RespuestaSeguridad3: optional(req.RespuestaSeguridad3),
		EscuelaID:           req.EscuelaID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}

	s.logger.Info("usuario registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login authenticates by email and password and issues an access token.
// Any mismatch yields the same generic unauthorized response.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByCorreo(ctx, req.Correo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Contrasena), []byte(req.Contrasena)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		Usuario:     user,
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
	}, nil
}

// RecoverPassword overwrites the credential after an exact match on the
// phone number and the three pre-registered security answers.
func (s *AuthService) RecoverPassword(ctx context.Context, req models.RecoverPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recover payload")
	}

	user, err := s.repo.FindByTelefono(ctx, req.Telefono)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrRecoveryMismatch
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if !answersMatch(user.RespuestaSeguridad1, req.RespuestaSeguridad1) ||
		!answersMatch(user.RespuestaSeguridad2, req.RespuestaSeguridad2) ||
		!answersMatch(user.RespuestaSeguridad3, req.RespuestaSeguridad3) {
		return appErrors.ErrRecoveryMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NuevaContrasena), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdateContrasenaByTelefono(ctx, req.Telefono, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}

	s.logger.Info("contrasena recovered", zap.Int64("user_id", user.ID))
	return nil
}

// CheckUser reports whether a phone number is registered.
func (s *AuthService) CheckUser(ctx context.Context, req models.CheckUserRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check payload")
	}
	exists, err := s.repo.ExistsByTelefono(ctx, req.Telefono)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check phone")
	}
	return exists, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.Usuario) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Correo: user.Correo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	if user.Rol != nil {
		claims.Rol = *user.Rol
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func answersMatch(stored *string, submitted string) bool {
	return stored != nil && *stored == submitted
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
