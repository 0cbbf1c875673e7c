package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/pconv/pkg/parser"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	require.NoError(t, err)

	assert.Equal(t, parser.DefaultPolicy().QuantityConvention, cfg.Policy.QuantityConvention)
	assert.True(t, cfg.Policy.SeparatorRule)
	assert.Equal(t, " ", cfg.Policy.NameJoin)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.ResultTTL)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestBuildFromFile(t *testing.T) {
	path := writeConfig(t, `
preset: window
output: dist
log_level: debug
policy:
  max_name_lines: 3
  extra_noise:
    - delivery time
server:
  addr: ":9000"
  result_ttl: 5m
`)

	cfg, err := Build(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "dist", cfg.GetOutputPath())
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.False(t, cfg.Policy.SeparatorRule)
	assert.Equal(t, 2, cfg.Policy.NameWindow)
	assert.True(t, cfg.Policy.UpperCaseRule)
	assert.Equal(t, 3, cfg.Policy.MaxNameLines)
	assert.Equal(t, []string{"delivery time"}, cfg.Policy.ExtraNoise)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Server.ResultTTL)
}

func TestBuildEnvAndFlags(t *testing.T) {
	t.Setenv("PCONV_POLICY_QUANTITY_CONVENTION", "decimal")
	t.Setenv("PCONV_OUTPUT", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	flags.Bool("csv", false, "")
	require.NoError(t, flags.Parse([]string{"--csv"}))

	cfg, err := Build("", flags)
	require.NoError(t, err)
	assert.Equal(t, parser.Decimal, cfg.Policy.QuantityConvention)
	assert.Equal(t, "from-env", cfg.OutputPath)
	assert.True(t, cfg.CSV)

	require.NoError(t, flags.Parse([]string{"--output", "from-flag"}))
	cfg, err = Build("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.OutputPath)
}

func TestBuildInvalid(t *testing.T) {
	_, err := Build(writeConfig(t, "preset: bogus\n"), nil)
	assert.Error(t, err)

	_, err = Build(writeConfig(t, "policy:\n  quantity_convention: roman\n"), nil)
	assert.Error(t, err)

	_, err = Build(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
