package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := Parse([]byte("jwt:\n  secret: s3cret\n"))
		require.NoError(t, err)

		assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
		assert.Equal(t, 10, cfg.Feed.DefaultPageSize)
		assert.Equal(t, 50, cfg.Feed.MaxPageSize)
		assert.Equal(t, 255, cfg.Content.MaxCaption)
		assert.Equal(t, 50, cfg.Content.MaxCategory)
		assert.Equal(t, 365*24*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		data := []byte(`
server:
  port: 9000
storage:
  driver: memory
jwt:
  secret: s3cret
  ttl: 2h
feed:
  default_page_size: 5
  max_page_size: 20
profile:
  default_bio: nothing here yet
cache:
  size: 128
  ttl: 5s
`)
		cfg, err := Parse(data)
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, DriverMemory, cfg.Storage.Driver)
		assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, 5, cfg.Feed.DefaultPageSize)
		assert.Equal(t, 20, cfg.Feed.MaxPageSize)
		assert.Equal(t, "nothing here yet", cfg.Profile.DefaultBio)
		assert.Equal(t, 128, cfg.Cache.Size)
		assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
	})

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "missing secret", yaml: "storage:\n  driver: memory\n", want: "jwt.secret"},
		{name: "unknown driver", yaml: "jwt:\n  secret: x\nstorage:\n  driver: sqlite\n", want: "storage.driver"},
		{name: "default above max", yaml: "jwt:\n  secret: x\nfeed:\n  default_page_size: 80\n  max_page_size: 40\n", want: "default_page_size"},
		{name: "negative cache", yaml: "jwt:\n  secret: x\ncache:\n  size: -1\n", want: "cache.size"},
		{name: "malformed yaml", yaml: "jwt: [", want: "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  secret: s3cret\ndatabase:\n  user: feed\n  dbname: feed\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=feed password= dbname=feed sslmode=disable", cfg.Database.DSN())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
