package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "dev")
	for _, k := range []string{"PORT", "STORE_BACKEND", "DATA_FILE", "JWT_SECRET", "SEED_USERS"} {
		t.Setenv(k, "")
	}

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, "mojaz_data.json", cfg.DataFile)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, map[string]string{"admin": "admin123", "lawyer": "lawyerpass"}, cfg.Seeds)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mojaz.yaml"),
		[]byte("port: \"8081\"\ndata_file: office.json\njwt_secret: from-file\n"), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_FILE", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "office.json", cfg.DataFile)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := load(viper.New())
	assert.ErrorIs(t, err, ErrMissingSecret)

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err = load(viper.New())
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "mongo")
	_, err = load(viper.New())
	assert.Error(t, err)
}

func TestParseSeeds(t *testing.T) {
	got := ParseSeeds(" a:1 , broken, :x, b:2:3 ")
	assert.Equal(t, map[string]string{"a": "1", "b": "2:3"}, got)
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
