package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "SESSION_SECRET", "SESSION_TTL", "PUBLIC_RATE_PER_MIN"} {
		t.Setenv(k, "")
	}
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "./data/dealership.db", c.DSN())
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.Equal(t, 30, c.PublicRatePerMin)
	assert.Equal(t, "info", c.LoggerConfig().Level)
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://dealer@localhost/cars")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://dealer@localhost/cars", c.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"short secret", "SESSION_SECRET", "tooshort", "SESSION_SECRET"},
		{"ttl", "SESSION_TTL", "soon", "SESSION_TTL"},
		{"negative ttl", "SESSION_TTL", "-1h", "SESSION_TTL"},
		{"rate", "PUBLIC_RATE_PER_MIN", "0", "PUBLIC_RATE_PER_MIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
