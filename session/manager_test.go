package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	m, err := NewManager(Options{
		Secret:       []byte("0123456789abcdef0123"),
		TTL:          time.Hour,
		AdminUser:    "admin",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsBadOptions(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	tests := []struct {
		name string
		opts Options
	}{
		{"short secret", Options{Secret: []byte("short"), TTL: time.Hour, AdminUser: "a", PasswordHash: string(hash)}},
		{"zero ttl", Options{Secret: []byte("0123456789abcdef"), AdminUser: "a", PasswordHash: string(hash)}},
		{"no user", Options{Secret: []byte("0123456789abcdef"), TTL: time.Hour, PasswordHash: string(hash)}},
		{"plain password", Options{Secret: []byte("0123456789abcdef"), TTL: time.Hour, AdminUser: "a", PasswordHash: "hunter2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestLoginValidateLogout(t *testing.T) {
	m := newTestManager(t)

	_, _, err := m.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = m.Login("root", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, s, err := m.Login("admin", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin", s.User)
	assert.Equal(t, 1, m.Active())

	got, err := m.Validate(token)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Logout(token))
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, m.Logout(token))
}

func TestValidate_RejectsForeignAndExpiredTokens(t *testing.T) {
	m := newTestManager(t)
	token, _, err := m.Login("admin", "s3cret-pass")
	require.NoError(t, err)

	_, err = m.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestManager(t)
	other.secret = []byte("another-secret-of-16+")
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionLabelsAreIsolated(t *testing.T) {
	m := newTestManager(t)
	_, a, err := m.Login("admin", "s3cret-pass")
	require.NoError(t, err)
	_, b, err := m.Login("admin", "s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	assert.True(t, a.AddLabel(KindExpense, "Tyre Replacement"))
	assert.False(t, a.AddLabel(KindExpense, "  tyre replacement "))
	assert.False(t, a.AddLabel(KindExpense, "insurance"))

	assert.Equal(t, []string{"Tyre Replacement"}, a.Suggest(KindExpense, "tyre"))
	assert.Empty(t, b.Suggest(KindExpense, "tyre"))
	assert.Empty(t, a.Suggest(KindDocument, "tyre"))

	assert.True(t, b.AddLabel(KindDocument, "Service History"))
	assert.Contains(t, b.Labels(KindDocument), "Service History")
	assert.NotContains(t, a.Labels(KindDocument), "Service History")
}

func TestSessionLabels_ConcurrentAdds(t *testing.T) {
	s := newSession("id", "admin", time.Now(), time.Now().Add(time.Hour))
	before := len(s.Labels(KindExpense))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddLabel(KindExpense, "Fastag")
		}()
	}
	wg.Wait()
	assert.Len(t, s.Labels(KindExpense), before+1)
}

func TestParseLabelKind(t *testing.T) {
	k, ok := ParseLabelKind(" Document ")
	assert.True(t, ok)
	assert.Equal(t, KindDocument, k)
	_, ok = ParseLabelKind("vehicle")
	assert.False(t, ok)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")))
	_, err = HashPassword("")
	assert.Error(t, err)
}
