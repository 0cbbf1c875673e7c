package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/pconv/pkg/models"
	"github.com/yurifrl/pconv/pkg/parser"
)

// Defaults apply to every document that does not override them.
type Defaults struct {
	Preset             string `yaml:"preset"`
	QuantityConvention string `yaml:"quantity_convention"`
}

type Plan struct {
	OutputDir string            `yaml:"output_dir"`
	CSV       bool              `yaml:"csv"`
	Defaults  Defaults          `yaml:"defaults"`
	Documents []models.Document `yaml:"documents"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Documents) == 0 {
		return nil, fmt.Errorf("plan has no documents")
	}

	// Relative paths are relative to the plan file.
	dir := filepath.Dir(path)
	for i := range p.Documents {
		doc := &p.Documents[i]
		if doc.FilePath == "" {
			return nil, fmt.Errorf("document %d has no file", i+1)
		}
		if !filepath.IsAbs(doc.FilePath) && !strings.HasPrefix(doc.FilePath, "~/") {
			doc.FilePath = filepath.Join(dir, doc.FilePath)
		}
	}
	if p.OutputDir != "" && !filepath.IsAbs(p.OutputDir) {
		p.OutputDir = filepath.Join(dir, p.OutputDir)
	}
	return &p, nil
}

// Policy resolves the parse policy for a document: the document's preset
// (or the plan default) replaces base, then the quantity convention is
// applied on top.
func (p *Plan) Policy(base parser.Policy, doc models.Document) (parser.Policy, error) {
	policy := base
	preset := firstNonEmpty(doc.Preset, p.Defaults.Preset)
	if preset != "" {
		var err error
		if policy, err = parser.PresetPolicy(preset); err != nil {
			return parser.Policy{}, fmt.Errorf("document %s: %w", doc.DisplayName(), err)
		}
		policy.ExtraNoise = base.ExtraNoise
		policy.ExtraDetails = base.ExtraDetails
	}
	if conv := firstNonEmpty(doc.QuantityConvention, p.Defaults.QuantityConvention); conv != "" {
		policy.QuantityConvention = parser.Convention(conv)
	}
	if err := policy.Validate(); err != nil {
		return parser.Policy{}, fmt.Errorf("document %s: %w", doc.DisplayName(), err)
	}
	return policy, nil
}

func (p *Plan) Print(w io.Writer) {
	if p.OutputDir != "" {
		fmt.Fprintf(w, "Output directory: %s\n", p.OutputDir)
	}
	for i, doc := range p.Documents {
		preset := firstNonEmpty(doc.Preset, p.Defaults.Preset, parser.PresetSlash)
		fmt.Fprintf(w, "[%d] name=%s file=%s preset=%s\n", i+1, doc.DisplayName(), doc.FilePath, preset)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
