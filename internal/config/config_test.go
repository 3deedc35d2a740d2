package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRESENSI_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Presensi API", cfg.AppName)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, StoreMemory, cfg.StoreBackend)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, time.Minute, cfg.SummaryCacheTTL)
	require.Equal(t, "gpt-4o-mini", cfg.AIModel)
	require.Equal(t, 5, cfg.DraftRateLimit)
	require.Equal(t, "Desa Sidorahayu", cfg.Village)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("PRESENSI_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownStoreBackend(t *testing.T) {
	t.Setenv("PRESENSI_JWT_SECRET", "test-secret")
	t.Setenv("PRESENSI_STORE_BACKEND", "csv")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesAdminEmails(t *testing.T) {
	t.Setenv("PRESENSI_JWT_SECRET", "test-secret")
	t.Setenv("PRESENSI_ADMIN_EMAILS", "a@x.edu, b@x.edu,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"a@x.edu", "b@x.edu"}, cfg.AdminEmails)
}

func TestHTTPAddressKeepsLeadingColon(t *testing.T) {
	cfg := Config{AppPort: ":9090"}
	require.Equal(t, ":9090", cfg.HTTPAddress())
}
