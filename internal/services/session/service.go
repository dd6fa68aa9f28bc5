// Package session manages identity lifecycle: registration with
// first-time provisioning, credential login, and sign-out.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// ErrInvalidCredentials is the single generic failure for an unknown
// email or a wrong password; callers must not be able to tell which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountExists is returned when registering an email that already
// has an account.
var ErrAccountExists = errors.New("an account with this email already exists")

// watcherBuffer is the per-watcher event channel depth.
const watcherBuffer = 8

// Compile-time interface check
var _ interfaces.SessionService = (*Service)(nil)

// Service implements SessionService.
type Service struct {
	storage    interfaces.StorageManager
	logger     *common.Logger
	adminEmail string

	mu       sync.Mutex
	nextID   int
	watchers map[int]chan models.SessionEvent
}

// NewService creates a new session service. adminEmail, when non-empty,
// grants the admin role to the matching registration.
func NewService(storage interfaces.StorageManager, logger *common.Logger, adminEmail string) *Service {
	return &Service{
		storage:    storage,
		logger:     logger,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		watchers:   make(map[int]chan models.SessionEvent),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword hashes with bcrypt, truncating to 72 bytes first since
// bcrypt ignores everything beyond that anyway.
func hashPassword(password string) (string, error) {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates the account, then provisions exactly one profile and
// one seeded wallet for it. Provisioning failures after the account
// write are logged, not rolled back: the wallet read path treats a
// missing record as empty, and the next operation can heal it.
func (s *Service) Register(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	accounts := s.storage.AccountStore()
	if _, err := accounts.GetAccountByEmail(ctx, email); err == nil {
		return nil, ErrAccountExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	role := "user"
	if s.adminEmail != "" && email == s.adminEmail {
		role = common.RoleAdmin
	}

	account := &models.Account{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	if err := accounts.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// First-time provisioning: one profile, one seeded wallet.
	profile := models.NewUserProfile(account.UserID, email, now)
	if err := s.storage.ProfileStore().SaveProfile(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("user_id", account.UserID).Msg("Profile provisioning failed")
	}
	walletRecord := models.NewWalletRecord(account.UserID)
	if err := s.storage.WalletStore().SaveWallet(ctx, walletRecord); err != nil {
		s.logger.Error().Err(err).Str("user_id", account.UserID).Msg("Wallet provisioning failed")
	}

	s.logger.Info().
		Str("user_id", account.UserID).
		Str("email", email).
		Str("role", role).
		Msg("Account registered")

	s.publish(models.SessionEvent{UserID: account.UserID, Email: email, SignedIn: true})
	return account, nil
}

// Login verifies credentials. An unknown email and a wrong password
// both fold into ErrInvalidCredentials; storage failures pass through.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)

	account, err := s.storage.AccountStore().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Debug().Str("email", email).Msg("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), passwordBytes); err != nil {
		s.logger.Debug().Str("email", email).Msg("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", account.UserID).Msg("Login succeeded")
	s.publish(models.SessionEvent{UserID: account.UserID, Email: account.Email, SignedIn: true})
	return account, nil
}

// Logout publishes the signed-out event; live consumers (wallet
// subscriptions, stream connections) tear down on it.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	account, err := s.storage.AccountStore().GetAccount(ctx, userID)
	email := ""
	if err == nil {
		email = account.Email
	}

	s.logger.Info().Str("user_id", userID).Msg("Logout")
	s.publish(models.SessionEvent{UserID: userID, Email: email, SignedIn: false})
	return nil
}

// Watch returns the identity-change stream with a cancel func. Events
// published after cancel are not delivered; the channel is closed.
func (s *Service) Watch() (<-chan models.SessionEvent, func()) {
	ch := make(chan models.SessionEvent, watcherBuffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish fans an event out to all watchers; slow watchers lose it.
func (s *Service) publish(event models.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.watchers {
		select {
		case ch <- event:
		default:
			s.logger.Warn().Str("user_id", event.UserID).Msg("Session watcher buffer full, dropping event")
		}
	}
}
