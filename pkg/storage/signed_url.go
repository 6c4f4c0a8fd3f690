package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token validation errors.
var (
	ErrTokenInvalid = errors.New("invalid download token")
	ErrTokenExpired = errors.New("download token expired")
)

// SignedURLSigner issues short-lived download tokens bound to one subject, such as "asset:<id>".
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token for subject and its expiry.
func (s *SignedURLSigner) Generate(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("subject required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	return exp + "." + s.sign(subject, exp), expiresAt, nil
}

// Verify checks that token was issued for subject and has not expired.
func (s *SignedURLSigner) Verify(token, subject string) error {
	exp, signature, ok := strings.Cut(token, ".")
	if !ok || exp == "" || signature == "" {
		return ErrTokenInvalid
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return ErrTokenInvalid
	}
	if !hmac.Equal([]byte(s.sign(subject, exp)), []byte(signature)) {
		return ErrTokenInvalid
	}
	if s.now().After(time.Unix(expUnix, 0)) {
		return ErrTokenExpired
	}
	return nil
}

func (s *SignedURLSigner) sign(subject, exp string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(subject + "|" + exp))
	return hex.EncodeToString(mac.Sum(nil))
}
