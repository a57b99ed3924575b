// Package credentials registers and authenticates users.
//
// Users live in the "users" collection of a kv.Store. Passwords are never
// stored: each user gets a random salt and a PBKDF2-SHA512 hash, and only
// the public view of a user ever leaves this package.
//
// Identifier policy: surrounding whitespace is trimmed, then identifiers
// compare exactly and case-sensitively ("Alice" and "alice" are two users).
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
)

// Manager owns the users collection.
type Manager struct {
	users  *kv.Value[[]core.User]
	hasher PasswordHasher
	ids    IDGenerator
	now    func() time.Time
	logger *slog.Logger

	// mu serializes the read-modify-write of the users collection.
	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithHasher replaces the default PBKDF2 hasher.
func WithHasher(h PasswordHasher) Option {
	return func(m *Manager) { m.hasher = h }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) { m.ids = g }
}

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager on top of store.
func NewManager(store kv.Store, opts ...Option) *Manager {
	m := &Manager{
		users:  kv.NewValue(store, core.KeyUsers, func() []core.User { return []core.User{} }),
		hasher: &PBKDF2Hasher{iterations: DefaultIterations},
		ids:    NewUUIDGenerator(),
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NormalizeIdentifier applies the identifier policy.
func NormalizeIdentifier(identifier string) string {
	return strings.TrimSpace(identifier)
}

// DisplayName derives the default display name: the part of the identifier
// before "@", or the whole identifier.
func DisplayName(identifier string) string {
	if local, _, ok := strings.Cut(identifier, "@"); ok && local != "" {
		return local
	}
	return identifier
}

func validate(identifier, password string) error {
	if identifier == "" {
		return core.ErrValidation.WithCause(errors.New("identifier is required"))
	}
	if password == "" {
		return core.ErrValidation.WithCause(errors.New("password is required"))
	}
	return nil
}

// Register creates a user and returns its public view.
func (m *Manager) Register(ctx context.Context, identifier, password string) (core.PublicUser, error) {
	identifier = NormalizeIdentifier(identifier)
	log := m.logger.With("identifier", identifier, "action", "register")
	log.Debug("register attempt")

	if err := validate(identifier, password); err != nil {
		log.Warn("register validation failed", "error", err)
		return core.PublicUser{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users, err := m.loadUsers(ctx)
	if err != nil {
		return core.PublicUser{}, err
	}
	if _, ok := findByIdentifier(users, identifier); ok {
		log.Warn("register failed: identifier exists")
		return core.PublicUser{}, core.ErrDuplicateIdentifier
	}

	hash, salt, err := m.hasher.Hash(password)
	if err != nil {
		log.Error("register failed: hash error", "error", err)
		return core.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := m.ids.NewID()
	if err != nil {
		log.Error("register failed: id generation error", "error", err)
		return core.PublicUser{}, fmt.Errorf("generate user id: %w", err)
	}

	user := core.User{
		ID:            id,
		Identifier:    identifier,
		PasswordHash:  hash,
		PasswordSalt:  salt,
		KDFIterations: m.hasher.Iterations(),
		DisplayName:   DisplayName(identifier),
		CreatedAt:     m.now().UTC(),
	}

	if err := m.users.Store(ctx, append(users, user)); err != nil {
		log.Error("register failed: store error", "error", err)
		return core.PublicUser{}, fmt.Errorf("save users: %w", err)
	}

	log.Info("user registered", "user_id", id)
	return user.Public(), nil
}

// Login checks password against the stored hash of identifier.
func (m *Manager) Login(ctx context.Context, identifier, password string) (core.PublicUser, error) {
	identifier = NormalizeIdentifier(identifier)
	log := m.logger.With("identifier", identifier, "action", "login")

	users, err := m.loadUsers(ctx)
	if err != nil {
		return core.PublicUser{}, err
	}

	user, ok := findByIdentifier(users, identifier)
	if !ok {
		log.Warn("login failed: unknown identifier")
		return core.PublicUser{}, core.ErrNotFound.WithCause(fmt.Errorf("user %q", identifier))
	}

	if !m.verifyUser(user, password) {
		log.Warn("login failed: invalid password")
		return core.PublicUser{}, core.ErrInvalidCredentials
	}

	log.Info("user logged in", "user_id", user.ID)
	return user.Public(), nil
}

// Verify recomputes the hash of password with salt using the configured
// hasher and compares it with hash.
func (m *Manager) Verify(password, hash, salt string) bool {
	return m.hasher.Verify(password, hash, salt)
}

// verifyUser honours the work factor recorded on the user, so raising the
// default does not lock out existing accounts.
func (m *Manager) verifyUser(user core.User, password string) bool {
	if user.KDFIterations == 0 || user.KDFIterations == m.hasher.Iterations() {
		return m.hasher.Verify(password, user.PasswordHash, user.PasswordSalt)
	}
	return VerifyWithIterations(password, user.PasswordHash, user.PasswordSalt, user.KDFIterations)
}

// FindByID returns the public view of the user with the given id.
func (m *Manager) FindByID(ctx context.Context, id string) (core.PublicUser, bool, error) {
	users, err := m.loadUsers(ctx)
	if err != nil {
		return core.PublicUser{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Public(), true, nil
		}
	}
	return core.PublicUser{}, false, nil
}

// UserExists reports whether a user with the given id is registered.
func (m *Manager) UserExists(ctx context.Context, id string) (bool, error) {
	_, ok, err := m.FindByID(ctx, id)
	return ok, err
}

// Count returns the number of registered users.
func (m *Manager) Count(ctx context.Context) (int, error) {
	users, err := m.loadUsers(ctx)
	return len(users), err
}

func (m *Manager) loadUsers(ctx context.Context) ([]core.User, error) {
	users, err := m.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func findByIdentifier(users []core.User, identifier string) (core.User, bool) {
	for _, u := range users {
		if u.Identifier == identifier {
			return u, true
		}
	}
	return core.User{}, false
}
