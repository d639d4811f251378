package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

// Options configures a Manager.
type Options struct {
	Secret       []byte
	TTL          time.Duration
	AdminUser    string
	PasswordHash string // bcrypt
}

// Manager issues and resolves admin sessions. Live sessions are kept in
// memory and expire after the configured TTL; a restart logs everyone out.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	user     string
	hash     []byte
	sessions *cache.Cache
	now      func() time.Time
}

// NewManager validates opts and returns a ready Manager.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	if opts.TTL <= 0 {
		return nil, errors.New("session TTL must be positive")
	}
	if opts.AdminUser == "" || opts.PasswordHash == "" {
		return nil, errors.New("admin user and password hash are required")
	}
	if _, err := bcrypt.Cost([]byte(opts.PasswordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &Manager{
		secret:   opts.Secret,
		ttl:      opts.TTL,
		user:     opts.AdminUser,
		hash:     []byte(opts.PasswordHash),
		sessions: cache.New(opts.TTL, 10*time.Minute),
		now:      time.Now,
	}, nil
}

// SetClock overrides the time source used for token timestamps.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Login checks the credentials and opens a new session. The returned token
// must be sent as a bearer token on subsequent requests.
func (m *Manager) Login(user, password string) (string, *Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) == 1
	if err := bcrypt.CompareHashAndPassword(m.hash, []byte(password)); err != nil || !userOK {
		return "", nil, ErrInvalidCredentials
	}

	now := m.now()
	s := newSession(uuid.NewString(), m.user, now, now.Add(m.ttl))

	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.User,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	m.sessions.Set(s.ID, s, m.ttl)
	return token, s, nil
}

// Validate resolves a bearer token to its live session.
func (m *Manager) Validate(token string) (*Session, error) {
	id, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrInvalidToken
	}
	return v.(*Session), nil
}

// Logout ends the session behind token. Ending an unknown or already ended
// session is not an error.
func (m *Manager) Logout(token string) error {
	id, err := m.parse(token)
	if err != nil {
		return err
	}
	m.sessions.Delete(id)
	return nil
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	return m.sessions.ItemCount()
}

func (m *Manager) parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// HashPassword returns the bcrypt hash stored in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
