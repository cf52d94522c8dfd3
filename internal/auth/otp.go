package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/lineup-api/internal/logger"
)

var (
	// ErrCodeInvalid is returned when the submitted code does not match
	ErrCodeInvalid = errors.New("auth: invalid or expired code")
	// ErrTooManyAttempts is returned after the attempt cap is exhausted
	ErrTooManyAttempts = errors.New("auth: too many verification attempts")
)

// CodeStore persists pending login codes keyed by email. Codes are
// stored hashed and expire on their own.
type CodeStore interface {
	SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
	IncrAttempts(ctx context.Context, email string, ttl time.Duration) (int, error)
}

// Mailer delivers login codes to users
type Mailer interface {
	SendLoginCode(email, code string) error
}

// OTPService runs the request/verify halves of the login flow
type OTPService struct {
	codes       CodeStore
	mailer      Mailer
	ttl         time.Duration
	maxAttempts int
	log         *log.Logger
}

// NewOTPService creates an OTP service
func NewOTPService(codes CodeStore, mailer Mailer, ttl time.Duration, maxAttempts int) *OTPService {
	return &OTPService{
		codes:       codes,
		mailer:      mailer,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		log:         logger.Auth(),
	}
}

// RequestCode generates a fresh login code for the email and mails it.
// Any previous code for the email is superseded.
func (s *OTPService) RequestCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate login code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash login code: %w", err)
	}

	if err := s.codes.SaveCode(ctx, email, string(hash), s.ttl); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}

	if err := s.mailer.SendLoginCode(email, code); err != nil {
		return fmt.Errorf("failed to send login code: %w", err)
	}

	s.log.Info("login code sent", "email", email)
	return nil
}

// VerifyCode checks a submitted code against the stored hash. The code
// is single-use: a successful match deletes it. Repeated failures
// burn the code entirely once the attempt cap is hit.
func (s *OTPService) VerifyCode(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	attempts, err := s.codes.IncrAttempts(ctx, email, s.ttl)
	if err != nil {
		return fmt.Errorf("failed to track verification attempts: %w", err)
	}
	if attempts > s.maxAttempts {
		_ = s.codes.DeleteCode(ctx, email)
		s.log.Warn("verification attempts exhausted", "email", email)
		return ErrTooManyAttempts
	}

	hash, err := s.codes.GetCode(ctx, email)
	if err != nil {
		return ErrCodeInvalid
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrCodeInvalid
	}

	if err := s.codes.DeleteCode(ctx, email); err != nil {
		return fmt.Errorf("failed to consume login code: %w", err)
	}

	s.log.Info("login code verified", "email", email)
	return nil
}

// generateCode returns a 6-digit numeric code from crypto/rand
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
