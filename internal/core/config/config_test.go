package config

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestReadDefaultsWhenFileMissing(t *testing.T) {
	c := qt.New(t)
	cfg, err := Read(filepath.Join(c.TempDir(), "missing.yaml"))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.DB.Driver, qt.Equals, "sqlite")
	c.Assert(cfg.DB.AutoMigrate, qt.IsTrue)
	c.Assert(cfg.App.HTTP.Port, qt.Equals, 8080)
	c.Assert(cfg.App.Admin.Host, qt.Equals, "127.0.0.1")
	c.Assert(cfg.Redis.Addr, qt.Equals, "")
	c.Assert(cfg.Limits.MaxBodyBytes, qt.Equals, int64(1<<20))
}

func TestReadFileAndEnvOverride(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
app:
  http:
    port: 9090
db:
  driver: postgres
  dsn: postgres://localhost/booking
redis:
  addr: 127.0.0.1:6379
`), 0o600)
	c.Assert(err, qt.IsNil)
	c.Setenv("APP_DB_DSN", "postgres://override/booking")

	cfg, err := Read(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.App.HTTP.Port, qt.Equals, 9090)
	c.Assert(cfg.DB.Driver, qt.Equals, "postgres")
	c.Assert(cfg.DB.DSN, qt.Equals, "postgres://override/booking")
	c.Assert(cfg.Redis.Addr, qt.Equals, "127.0.0.1:6379")
	c.Assert(cfg.Redis.TTLSec, qt.Equals, 300)
}

func TestReadMalformedFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "config.yaml")
	c.Assert(os.WriteFile(path, []byte("app: [unclosed"), 0o600), qt.IsNil)
	_, err := Read(path)
	c.Assert(err, qt.Not(qt.IsNil))
}
