// ABOUTME: Password gate guarding the vehicle log on a shared machine
// ABOUTME: Stores a bcrypt hash and a logged-in flag in their own storage slots

// Package auth implements the single-user password gate.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Slot keys shared with earlier versions of the data.
const (
	SlotPassword = "vehicle_maintenance_password"
	SlotAuth     = "vehicle_maintenance_auth"
)

// DefaultPassword applies until the user sets one.
const DefaultPassword = "123456"

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

var (
	ErrWrongPassword     = errors.New("wrong password")
	ErrPasswordTooShort  = fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch  = errors.New("new password and confirmation do not match")
	ErrPasswordUnchanged = errors.New("new password must differ from the current one")
)

const loggedInValue = "true"

// Gate checks and changes the password and tracks the logged-in flag.
type Gate struct {
	backend storage.Backend
	logger  logging.Logger
	cost    int
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate's logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithCost sets the bcrypt cost; tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(g *Gate) { g.cost = cost }
}

// NewGate creates a gate over backend.
func NewGate(backend storage.Backend, opts ...Option) *Gate {
	g := &Gate{backend: backend, logger: logging.Default(), cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func isHash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// check compares password with the stored credential. It reports whether
// the stored value is plaintext and should be replaced by a hash.
func (g *Gate) check(password string) (ok, legacy bool, err error) {
	raw, err := g.backend.Get(SlotPassword)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(raw) == 0) {
		return password == DefaultPassword, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("read password: %w", err)
	}
	stored := string(raw)
	if isHash(stored) {
		err := bcrypt.CompareHashAndPassword(raw, []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, false, nil
		}
		if err != nil {
			return false, false, fmt.Errorf("compare password: %w", err)
		}
		return true, false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1, true, nil
}

func (g *Gate) store(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := g.backend.Set(SlotPassword, hash); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	return nil
}

// Login sets the logged-in flag when password is correct.
func (g *Gate) Login(password string) error {
	ok, legacy, err := g.check(password)
	if err != nil {
		return err
	}
	if !ok {
		g.logger.Warn("login failed")
		return ErrWrongPassword
	}
	if legacy {
		if err := g.store(password); err != nil {
			return err
		}
		g.logger.Info("upgraded stored password to bcrypt")
	}
	if err := g.backend.Set(SlotAuth, []byte(loggedInValue)); err != nil {
		return fmt.Errorf("save login: %w", err)
	}
	return nil
}

// Logout clears the logged-in flag.
func (g *Gate) Logout() error {
	if err := g.backend.Delete(SlotAuth); err != nil {
		return fmt.Errorf("clear login: %w", err)
	}
	return nil
}

// LoggedIn reports whether the flag is set.
func (g *Gate) LoggedIn() (bool, error) {
	raw, err := g.backend.Get(SlotAuth)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login: %w", err)
	}
	return string(raw) == loggedInValue, nil
}

// ChangePassword replaces the password after checking, in order: the current
// password, the minimum length, the confirmation and that it actually changes.
func (g *Gate) ChangePassword(current, next, confirm string) error {
	ok, _, err := g.check(current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}
	if len(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	if next == current {
		return ErrPasswordUnchanged
	}
	if err := g.store(next); err != nil {
		return err
	}
	g.logger.Info("password changed")
	return nil
}
