package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"TELEGRAM_TOKEN": "token",
		"ADMIN_IDS":      "111, 222",
		"DB_DSN":         "postgres://salon@localhost/salon",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, []int64{111, 222}, cfg.AdminIDs)
	assert.Equal(t, "Europe/Istanbul", cfg.Location.String())
	assert.Equal(t, 9, cfg.WorkStartHour)
	assert.Equal(t, 18, cfg.WorkEndHour)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, "block", cfg.ConflictPolicy)
	assert.Equal(t, 20, cfg.DigestHour)
}

func TestFromEnv_MemoryWithHTTPOnly(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"STORE_BACKEND":   "Memory",
		"HTTP_ADDR":       ":8080",
		"CONFLICT_POLICY": "warn",
		"DIGEST_HOUR":     "-1",
		"TIMEZONE":        "UTC",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Empty(t, cfg.AdminIDs)
	assert.Equal(t, "warn", cfg.ConflictPolicy)
	assert.Equal(t, -1, cfg.DigestHour)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "postgres without dsn",
			env:  map[string]string{"HTTP_ADDR": ":8080"},
			want: "DB_DSN is required",
		},
		{
			name: "mongo without uri",
			env:  map[string]string{"STORE_BACKEND": "mongo", "HTTP_ADDR": ":8080"},
			want: "MONGO_URI is required",
		},
		{
			name: "firestore without project",
			env:  map[string]string{"STORE_BACKEND": "firestore", "HTTP_ADDR": ":8080"},
			want: "FIREBASE_PROJECT_ID is required",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"STORE_BACKEND": "sqlite", "HTTP_ADDR": ":8080"},
			want: "unknown STORE_BACKEND",
		},
		{
			name: "no surfaces",
			env:  map[string]string{"STORE_BACKEND": "memory"},
			want: "either TELEGRAM_TOKEN or HTTP_ADDR",
		},
		{
			name: "bot without admins",
			env:  map[string]string{"STORE_BACKEND": "memory", "TELEGRAM_TOKEN": "token"},
			want: "ADMIN_IDS is required",
		},
		{
			name: "bad admin id",
			env:  map[string]string{"STORE_BACKEND": "memory", "HTTP_ADDR": ":8080", "ADMIN_IDS": "12,abc"},
			want: `invalid telegram id "abc"`,
		},
		{
			name: "bad hour",
			env:  map[string]string{"STORE_BACKEND": "memory", "HTTP_ADDR": ":8080", "WORK_START_HOUR": "nine"},
			want: "WORK_START_HOUR must be an integer",
		},
		{
			name: "bad policy",
			env:  map[string]string{"STORE_BACKEND": "memory", "HTTP_ADDR": ":8080", "CONFLICT_POLICY": "ignore"},
			want: "CONFLICT_POLICY must be block or warn",
		},
		{
			name: "bad digest hour",
			env:  map[string]string{"STORE_BACKEND": "memory", "HTTP_ADDR": ":8080", "DIGEST_HOUR": "24"},
			want: "DIGEST_HOUR must be -1..23",
		},
		{
			name: "bad timezone",
			env:  map[string]string{"STORE_BACKEND": "memory", "HTTP_ADDR": ":8080", "TIMEZONE": "Mars/Olympus"},
			want: "TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
