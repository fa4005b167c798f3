package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cidlogsrv/cidlogsrv/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_With_No_Files_Returns_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func Test_Load_Reads_HuJSON_With_Comments_And_Trailing_Commas(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cidlogsrv.hujson")

	doc := `{
		// overriding just the store path
		"store_path": "/var/lib/cidlogsrv/events.dat",
	}`

	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := config.Load("", path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/cidlogsrv/events.dat", cfg.StorePath)
	assert.Equal(t, config.Default().NATSURL, cfg.NATSURL)
}

func Test_Load_Missing_Config_File_Is_Not_An_Error(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("", "/does/not/exist.hujson", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func Test_Load_Flags_Override_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cidlogsrv.hujson")
	require.NoError(t, os.WriteFile(path, []byte(`{"store_path": "/from/file"}`), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--store-path=/from/flag"}))

	cfg, err := config.Load("", path, fs)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.StorePath)
}

func Test_Load_Rejects_Malformed_Config_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.hujson")
	require.NoError(t, os.WriteFile(path, []byte(`{not json at all`), 0o644))

	_, err := config.Load("", path, nil)
	assert.Error(t, err)
}
