// Package session holds the state of one phone verification flow.
//
// A Session is created per flow and closed when the flow ends; nothing about
// a pending verification lives in package-level state.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/cristianoliveira/casewatch/internal/logging"
)

var (
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("verification session closed")
	// ErrNoPendingVerification is returned by Confirm before SendCode succeeded.
	ErrNoPendingVerification = errors.New("no pending verification")
	// ErrInvalidPhone is returned for numbers that are not 7 to 15 digits.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidCode is returned for codes that are not 4 to 8 digits.
	ErrInvalidCode = errors.New("invalid verification code")
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	codePattern  = regexp.MustCompile(`^[0-9]{4,8}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// Verifier sends and confirms one-time codes.
type Verifier interface {
	SendVerificationCode(ctx context.Context, phone string) (string, error)
	ConfirmVerificationCode(ctx context.Context, verificationID, code string) (string, error)
}

// Session tracks one verification from SendCode to Confirm.
type Session struct {
	verifier Verifier
	logger   logging.Logger

	mu             sync.Mutex
	phone          string
	verificationID string
	closed         bool
}

// New creates a session using verifier.
func New(verifier Verifier, logger logging.Logger) *Session {
	if verifier == nil {
		panic("session.New: verifier dependency cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{verifier: verifier, logger: logger}
}

// NormalizePhone strips separators and validates the digit count.
func NormalizePhone(phone string) (string, error) {
	cleaned := phoneNoise.Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return cleaned, nil
}

// SendCode requests a code for phone. Calling it again restarts the flow
// and replaces any pending verification.
func (s *Session) SendCode(ctx context.Context, phone string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	id, err := s.verifier.SendVerificationCode(ctx, normalized)
	if err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.phone = normalized
	s.verificationID = id
	s.logger.Info("verification code sent", "verification_id", id)
	return nil
}

// Confirm exchanges code for a token. The pending verification is consumed
// on success and kept on failure so the code can be re-entered.
func (s *Session) Confirm(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSessionClosed
	}
	id := s.verificationID
	s.mu.Unlock()
	if id == "" {
		return "", ErrNoPendingVerification
	}

	token, err := s.verifier.ConfirmVerificationCode(ctx, id, code)
	if err != nil {
		return "", fmt.Errorf("confirm verification code: %w", err)
	}

	s.mu.Lock()
	if s.verificationID == id {
		s.verificationID = ""
	}
	s.mu.Unlock()
	s.logger.Info("phone verified", "verification_id", id)
	return token, nil
}

// Pending reports whether a code was sent and not yet confirmed.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.verificationID != ""
}

// Phone returns the normalized number of the current flow.
func (s *Session) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

// Close discards any pending verification. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.phone = ""
	s.verificationID = ""
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}
