package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hedge-analytics/internal/config"
	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore is an in-memory UserStore keyed by user ID
type fakeUserStore struct {
	users     map[string]*models.User
	lastLogin map[string]time.Time
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		users:     make(map[string]*models.User),
		lastLogin: make(map[string]time.Time),
	}
	for _, u := range users {
		s.users[u.UserID] = u
	}
	return s
}

func (s *fakeUserStore) Create(user *models.User) error {
	s.users[user.UserID] = user
	return nil
}

func (s *fakeUserStore) GetByID(userID string) (*models.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetActiveByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username && u.IsActive {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetActiveByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByUsername(username string) (bool, error) {
	_, err := s.GetByUsername(username)
	return err == nil, nil
}

func (s *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) UpdateLastLogin(userID string, at time.Time) error {
	s.lastLogin[userID] = at
	return nil
}

func (s *fakeUserStore) UpdatePasswordByUsername(username, passwordHash string) error {
	u, err := s.GetByUsername(username)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) UpdatePasswordByUserID(userID, passwordHash string) error {
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) Deactivate(userID string) error {
	if u, ok := s.users[userID]; ok {
		u.IsActive = false
	}
	return nil
}

func (s *fakeUserStore) Delete(userID string) error {
	delete(s.users, userID)
	return nil
}

// fakeSettingsStore records settings rows created at signup
type fakeSettingsStore struct {
	created []*models.UserSettings
}

func (s *fakeSettingsStore) Create(settings *models.UserSettings) error {
	s.created = append(s.created, settings)
	return nil
}

func seedUser(t *testing.T, userID, username, email, password string) *models.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		UserID:       userID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func newTestAuthService(secret string) *AuthService {
	return NewAuthService(nil, nil, nil, config.JWTConfig{
		Secret:      secret,
		ExpireHours: 1,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestAuthService("test-secret")
	user := &models.User{
		UserID:   "user_0123456789abcdef01234567",
		Username: "alice",
	}

	token, err := s.generateToken(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, 3600, token.ExpiresIn)

	claims, err := s.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, "hedge-analytics", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestAuthService("secret-a")
	verifier := newTestAuthService("secret-b")

	token, err := issuer.generateToken(&models.User{UserID: "user_x", Username: "bob"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	s := newTestAuthService("test-secret")

	claims := &JWTClaims{
		UserID:   "user_x",
		Username: "bob",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "hedge-analytics",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	s := newTestAuthService("test-secret")

	_, err := s.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestLoginWithUsername(t *testing.T) {
	users := newFakeUserStore(seedUser(t, "user_1", "alice", "alice@example.com", "pass-word"))
	s := NewAuthService(users, nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	token, err := s.Login(&LoginRequest{Username: "alice", Password: "pass-word"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Contains(t, users.lastLogin, "user_1")
}

func TestLoginWithEmail(t *testing.T) {
	users := newFakeUserStore(seedUser(t, "user_1", "alice", "alice@example.com", "pass-word"))
	s := NewAuthService(users, nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	token, err := s.Login(&LoginRequest{Username: "alice@example.com", Password: "pass-word"})
	require.NoError(t, err)

	claims, err := s.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := newFakeUserStore(seedUser(t, "user_1", "alice", "alice@example.com", "pass-word"))
	s := NewAuthService(users, nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	_, err := s.Login(&LoginRequest{Username: "nobody@example.com", Password: "pass-word"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	user := seedUser(t, "user_1", "alice", "alice@example.com", "pass-word")
	user.IsActive = false
	s := NewAuthService(newFakeUserStore(user), nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	_, err := s.Login(&LoginRequest{Username: "alice", Password: "pass-word"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(&LoginRequest{Username: "alice@example.com", Password: "pass-word"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserStore(seedUser(t, "user_1", "alice", "alice@example.com", "old-pass"))
	s := NewAuthService(users, nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	err := s.ChangePassword("user_1", &ChangePasswordRequest{
		OldPassword: "old-pass",
		NewPassword: "new-pass",
	})
	require.NoError(t, err)

	assert.True(t, crypto.CheckPassword("new-pass", users.users["user_1"].PasswordHash))
	assert.False(t, crypto.CheckPassword("old-pass", users.users["user_1"].PasswordHash))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	users := newFakeUserStore(seedUser(t, "user_1", "alice", "alice@example.com", "old-pass"))
	s := NewAuthService(users, nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	err := s.ChangePassword("user_1", &ChangePasswordRequest{
		OldPassword: "wrong-pass",
		NewPassword: "new-pass",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	// Stored hash stays untouched
	assert.True(t, crypto.CheckPassword("old-pass", users.users["user_1"].PasswordHash))
}

func TestChangePasswordUnknownUser(t *testing.T) {
	s := NewAuthService(newFakeUserStore(), nil, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	err := s.ChangePassword("user_missing", &ChangePasswordRequest{
		OldPassword: "old-pass",
		NewPassword: "new-pass",
	})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRegisterCreatesDefaultSettings(t *testing.T) {
	users := newFakeUserStore()
	settings := &fakeSettingsStore{}
	s := NewAuthService(users, settings, nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})

	user, err := s.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pass-word",
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	require.Len(t, settings.created, 1)
	assert.Equal(t, user.UserID, settings.created[0].UserID)
	assert.Equal(t, models.DefaultInventory, settings.created[0].DefaultInventory)

	_, err = s.Register(&RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "pass-word",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
