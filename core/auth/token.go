package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "winamp7"

	// Token subjects.
	SubjectOwner  = "owner"
	windowSubject = "popout:"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Claims are carried by every token the owner issues.
type Claims struct {
	Window string `json:"win,omitempty"`
	jwt.RegisteredClaims
}

// Signer issues HMAC-signed tokens for the owner session and for pop-out
// windows.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a signer. A zero ttl means tokens last 24 hours.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) sign(subject, window string) (string, error) {
	now := s.now()
	claims := Claims{
		Window: window,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse validates a token and returns its claims.
func (s *Signer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateToken issues an owner session token.
func (s *Signer) GenerateToken() (string, error) {
	return s.sign(SubjectOwner, "")
}

// VerifyOwner accepts only owner session tokens.
func (s *Signer) VerifyOwner(token string) error {
	claims, err := s.Parse(token)
	if err != nil {
		return err
	}
	if claims.Subject != SubjectOwner {
		return ErrInvalidToken
	}
	return nil
}

// SignWindow issues the token a pop-out uses to attach to its window.
func (s *Signer) SignWindow(windowID string) (string, error) {
	return s.sign(windowSubject+windowID, windowID)
}

// VerifyWindow accepts only a token signed for windowID.
func (s *Signer) VerifyWindow(token, windowID string) error {
	claims, err := s.Parse(token)
	if err != nil {
		return err
	}
	if claims.Window != windowID || claims.Subject != windowSubject+windowID {
		return ErrInvalidToken
	}
	return nil
}
