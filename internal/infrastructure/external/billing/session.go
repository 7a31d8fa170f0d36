package billing

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
)

// ErrSessionExpired is returned when the billing backend rejects the token
// or the token's exp claim has passed
var ErrSessionExpired = errors.New("session expired")

var _ port.AuthContext = (*Session)(nil)

// Session holds the operator's bearer token. The billing backend issues JWTs;
// the signature is not checked here, only the exp claim is read so an expired
// token is dropped before it is sent. Opaque tokens are passed through as is.
type Session struct {
	mu        sync.RWMutex
	token     string
	onExpired func()
	logger    *zap.Logger
	now       func() time.Time
}

// NewSession creates a session for token. onExpired may be nil.
func NewSession(token string, onExpired func(), logger *zap.Logger) *Session {
	return &Session{
		token:     token,
		onExpired: onExpired,
		logger:    logger,
		now:       time.Now,
	}
}

// Token returns the current bearer token, empty when there is none or it expired
func (s *Session) Token() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return ""
	}
	if s.expired(token) {
		s.logger.Info("Session token expired")
		s.Expire()
		return ""
	}
	return token
}

// SetToken replaces the bearer token
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Expire clears the token. The onExpired hook fires once per cleared token.
func (s *Session) Expire() {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.mu.Unlock()

	if had && s.onExpired != nil {
		s.onExpired()
	}
}

func (s *Session) expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
