package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hedge-analytics/internal/config"
	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/pkg/crypto"
	"github.com/hedge-analytics/pkg/idgen"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailMismatch      = errors.New("email does not match")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrWrongPassword      = errors.New("incorrect current password")
)

// UserStore is the user persistence surface AuthService depends on,
// satisfied by *repository.UserRepository
type UserStore interface {
	Create(user *models.User) error
	GetByID(userID string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetActiveByUsername(username string) (*models.User, error)
	GetActiveByEmail(email string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	UpdateLastLogin(userID string, at time.Time) error
	UpdatePasswordByUsername(username, passwordHash string) error
	UpdatePasswordByUserID(userID, passwordHash string) error
	Deactivate(userID string) error
	Delete(userID string) error
}

// SettingsStore covers the settings writes AuthService performs at
// signup, satisfied by *repository.SettingsRepository
type SettingsStore interface {
	Create(settings *models.UserSettings) error
}

// ResetCodeStore covers the reset-code persistence AuthService needs,
// satisfied by *repository.ResetCodeRepository
type ResetCodeStore interface {
	Create(code *models.ResetCode) error
	GetUnused(username, resetCode string) (*models.ResetCode, error)
	MarkUsed(codeID string) error
}

// ResetCodeTTL is how long a password-reset code stays valid
const ResetCodeTTL = time.Hour

// AuthService handles registration, login and the password-reset flow
type AuthService struct {
	userRepo      UserStore
	settingsRepo  SettingsStore
	resetCodeRepo ResetCodeStore
	jwtConfig     config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserStore,
	settingsRepo SettingsStore,
	resetCodeRepo ResetCodeStore,
	jwtConfig config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		resetCodeRepo: resetCodeRepo,
		jwtConfig:     jwtConfig,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetRequest asks for a password-reset code
type ResetRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest replaces the password of a logged-in user
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

// ResetConfirmRequest redeems a reset code for a new password
type ResetConfirmRequest struct {
	Username    string `json:"username" binding:"required"`
	ResetCode   string `json:"reset_code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register registers a new user and creates its default settings row
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	exists, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	exists, err = s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	userID, err := idgen.NewUserID()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:           userID,
		Username:         req.Username,
		Email:            req.Email,
		PasswordHash:     passwordHash,
		IsActive:         true,
		SubscriptionTier: models.TierFree,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Every account starts with a settings row holding the defaults
	settingID, err := idgen.NewSettingID()
	if err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Create(models.NewDefaultSettings(settingID, userID)); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates an active user and returns a JWT token. The
// username field also accepts the account email.
func (s *AuthService) Login(req *LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetActiveByUsername(req.Username)
	if errors.Is(err, repository.ErrUserNotFound) && strings.Contains(req.Username, "@") {
		user, err = s.userRepo.GetActiveByEmail(req.Username)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.UserID, time.Now().UTC()); err != nil {
		return nil, err
	}

	return s.generateToken(user)
}

// RequestPasswordReset issues a 6-digit reset code for a username whose
// email matches. The code is returned to the caller for delivery.
func (s *AuthService) RequestPasswordReset(req *ResetRequest) (string, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		return "", err
	}
	if user.Email != req.Email {
		return "", ErrEmailMismatch
	}

	resetCode, err := idgen.NewResetCode()
	if err != nil {
		return "", err
	}
	codeID, err := idgen.NewCodeID()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	code := &models.ResetCode{
		CodeID:    codeID,
		Username:  req.Username,
		ResetCode: resetCode,
		CreatedAt: now,
		ExpiresAt: now.Add(ResetCodeTTL),
		IsUsed:    false,
	}

	if err := s.resetCodeRepo.Create(code); err != nil {
		return "", err
	}

	return resetCode, nil
}

// ConfirmPasswordReset consumes a valid reset code and replaces the
// user's password hash
func (s *AuthService) ConfirmPasswordReset(req *ResetConfirmRequest) error {
	code, err := s.resetCodeRepo.GetUnused(req.Username, req.ResetCode)
	if err != nil {
		if errors.Is(err, repository.ErrResetCodeNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if code.IsExpired(time.Now().UTC()) {
		return ErrInvalidResetCode
	}

	if err := s.resetCodeRepo.MarkUsed(code.CodeID); err != nil {
		return err
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordByUsername(req.Username, passwordHash)
}

// ChangePassword verifies the current password and stores a hash of
// the new one
func (s *AuthService) ChangePassword(userID string, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(req.OldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordByUserID(userID, passwordHash)
}

// RefreshToken refreshes a JWT token
func (s *AuthService) RefreshToken(tokenString string) (*TokenResponse, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.generateToken(user)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// DeactivateAccount soft-disables an account. The user drops out of
// user_activity_stats and can no longer log in; its rows remain.
func (s *AuthService) DeactivateAccount(userID string) error {
	return s.userRepo.Deactivate(userID)
}

// DeleteAccount removes the user row. Settings and analysis history go
// with it through the cascade; reset codes for the username linger
// until the cleanup routine reaps them.
func (s *AuthService) DeleteAccount(userID string) error {
	return s.userRepo.Delete(userID)
}

// generateToken generates a JWT token for a user
func (s *AuthService) generateToken(user *models.User) (*TokenResponse, error) {
	expiresIn := time.Duration(s.jwtConfig.ExpireHours) * time.Hour

	claims := &JWTClaims{
		UserID:   user.UserID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "hedge-analytics",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtConfig.ExpireHours * 3600,
	}, nil
}
