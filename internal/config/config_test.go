package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growmygarden/verdant/internal/config"
)

const sample = `
data_dir = "/var/lib/verdant"

[store]
type = "sqlite"
database_file = "plants.db"
debounce_millis = 100

[images]
debounce_millis = 750
`

func TestRead(t *testing.T) {
	cfg, err := config.Read(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/verdant", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "plants.db", cfg.Store.DatabaseFile)
	assert.Equal(t, 100*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 750*time.Millisecond, cfg.ImageDebounce())
}

func TestRoundTrip(t *testing.T) {
	cfg := config.Default("/tmp/x")
	cfg.Store.DebounceMillis = 40

	var buf bytes.Buffer
	require.NoError(t, config.Write(&buf, cfg))

	back, err := config.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "fs", cfg.Store.Type)
	assert.Zero(t, cfg.Debounce(), "no override means package defaults apply")
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(dir, config.Default(dir)))

	err := config.Init(dir, config.Default(dir))
	assert.Error(t, err)
}

func TestLoadAfterInit(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Images.DebounceMillis = 250
	require.NoError(t, config.Init(dir, cfg))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, loaded.ImageDebounce())
}

func TestLoadFileExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/verdant", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Store.Type)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err, "an explicitly named config file must exist")
}
