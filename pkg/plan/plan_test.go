package plan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/pconv/pkg/models"
	"github.com/yurifrl/pconv/pkg/parser"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
output_dir: out
csv: true
defaults:
  preset: window
documents:
  - name: living room
    file: exports/living.pdf
  - file: /abs/office.txt
    preset: slash
    quantity_convention: decimal
`)
	p, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "out"), p.OutputDir)
	assert.True(t, p.CSV)
	require.Len(t, p.Documents, 2)
	assert.Equal(t, filepath.Join(dir, "exports", "living.pdf"), p.Documents[0].FilePath)
	assert.Equal(t, "/abs/office.txt", p.Documents[1].FilePath)
	assert.Equal(t, "office", p.Documents[1].DisplayName())

	var buf bytes.Buffer
	p.Print(&buf)
	assert.Contains(t, buf.String(), "[1] name=living room")
	assert.Contains(t, buf.String(), "preset=window")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "documents: []\n"))
	assert.ErrorContains(t, err, "no documents")

	_, err = Load(write(t, "documents:\n  - name: x\n"))
	assert.ErrorContains(t, err, "has no file")

	_, err = Load(write(t, "documents: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPolicy(t *testing.T) {
	p := &Plan{Defaults: Defaults{Preset: parser.PresetWindow}}
	base := parser.DefaultPolicy()
	base.ExtraNoise = []string{"delivery time"}

	policy, err := p.Policy(base, models.Document{FilePath: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 2, policy.NameWindow)
	assert.Equal(t, []string{"delivery time"}, policy.ExtraNoise)

	policy, err = p.Policy(base, models.Document{FilePath: "a.pdf", Preset: parser.PresetSlash, QuantityConvention: "decimal"})
	require.NoError(t, err)
	assert.True(t, policy.SeparatorRule)
	assert.Equal(t, parser.Decimal, policy.QuantityConvention)

	_, err = p.Policy(base, models.Document{FilePath: "a.pdf", QuantityConvention: "roman"})
	assert.Error(t, err)

	_, err = p.Policy(base, models.Document{FilePath: "a.pdf", Preset: "bogus"})
	assert.Error(t, err)
}
