package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCodeStore is an in-memory CodeStore; TTLs are ignored
type memCodeStore struct {
	codes    map[string]string
	attempts map[string]int
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{codes: make(map[string]string), attempts: make(map[string]int)}
}

func (s *memCodeStore) SaveCode(_ context.Context, email, codeHash string, _ time.Duration) error {
	s.codes[email] = codeHash
	delete(s.attempts, email)
	return nil
}

func (s *memCodeStore) GetCode(_ context.Context, email string) (string, error) {
	hash, ok := s.codes[email]
	if !ok {
		return "", ErrCodeInvalid
	}
	return hash, nil
}

func (s *memCodeStore) DeleteCode(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

func (s *memCodeStore) IncrAttempts(_ context.Context, email string, _ time.Duration) (int, error) {
	s.attempts[email]++
	return s.attempts[email], nil
}

// recordingMailer captures the last code instead of sending mail
type recordingMailer struct {
	email string
	code  string
	sent  int
}

func (m *recordingMailer) SendLoginCode(email, code string) error {
	m.email = email
	m.code = code
	m.sent++
	return nil
}

func otpFixture() (*OTPService, *memCodeStore, *recordingMailer) {
	store := newMemCodeStore()
	mailer := &recordingMailer{}
	return NewOTPService(store, mailer, 10*time.Minute, 5), store, mailer
}

func TestOTPRoundTrip(t *testing.T) {
	svc, store, mailer := otpFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "DJ@Example.com"))
	assert.Equal(t, "dj@example.com", mailer.email, "emails are normalized before use")
	require.Len(t, mailer.code, 6)
	assert.NotEqual(t, mailer.code, store.codes["dj@example.com"], "only the hash is stored")

	require.NoError(t, svc.VerifyCode(ctx, "dj@example.com", mailer.code))
}

func TestOTPCodeIsSingleUse(t *testing.T) {
	svc, _, mailer := otpFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "dj@example.com"))
	require.NoError(t, svc.VerifyCode(ctx, "dj@example.com", mailer.code))

	err := svc.VerifyCode(ctx, "dj@example.com", mailer.code)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestOTPWrongCode(t *testing.T) {
	svc, _, mailer := otpFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "dj@example.com"))

	err := svc.VerifyCode(ctx, "dj@example.com", "000000")
	if mailer.code == "000000" {
		t.Skip("generated code happens to be the guess")
	}
	assert.ErrorIs(t, err, ErrCodeInvalid)

	// The real code still works after a single miss
	require.NoError(t, svc.VerifyCode(ctx, "dj@example.com", mailer.code))
}

func TestOTPAttemptCapBurnsCode(t *testing.T) {
	svc, store, mailer := otpFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "dj@example.com"))

	for i := 0; i < 5; i++ {
		err := svc.VerifyCode(ctx, "dj@example.com", "999999")
		if mailer.code == "999999" {
			t.Skip("generated code happens to be the guess")
		}
		assert.ErrorIs(t, err, ErrCodeInvalid, "attempt %d", i+1)
	}

	err := svc.VerifyCode(ctx, "dj@example.com", mailer.code)
	assert.ErrorIs(t, err, ErrTooManyAttempts, "the cap rejects even the right code")
	assert.Empty(t, store.codes, "exhausting the cap burns the code")
}

func TestOTPNewCodeResetsAttempts(t *testing.T) {
	svc, _, mailer := otpFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "dj@example.com"))
	for i := 0; i < 4; i++ {
		_ = svc.VerifyCode(ctx, "dj@example.com", "999999")
	}

	require.NoError(t, svc.RequestCode(ctx, "dj@example.com"))
	require.NoError(t, svc.VerifyCode(ctx, "dj@example.com", mailer.code))
}

func TestOTPUnknownEmail(t *testing.T) {
	svc, _, _ := otpFixture()
	err := svc.VerifyCode(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}
