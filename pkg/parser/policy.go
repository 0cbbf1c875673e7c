package parser

import (
	"fmt"
	"strings"
)

// Convention decides how a separator inside a quantity token is read.
type Convention string

const (
	// Grouping reads "1,234" and "1.234" as 1234.
	Grouping Convention = "grouping"
	// Decimal reads "1,000" as 1 and rejects non-integral values.
	Decimal Convention = "decimal"
)

// Continuation names the field an unclassified line is appended to once the
// record already has a product name.
type Continuation string

const (
	ContinueDetails Continuation = "details"
	ContinueName    Continuation = "name"
)

const (
	PresetSlash  = "slash"
	PresetWindow = "window"
)

// Policy holds the knobs that differ between export variants.
type Policy struct {
	QuantityConvention Convention   `mapstructure:"quantity_convention" yaml:"quantity_convention"`
	SeparatorRule      bool         `mapstructure:"separator_rule" yaml:"separator_rule"`
	NameWindow         int          `mapstructure:"name_window" yaml:"name_window"`
	UpperCaseRule      bool         `mapstructure:"upper_case_rule" yaml:"upper_case_rule"`
	NameJoin           string       `mapstructure:"name_join" yaml:"name_join"`
	MaxNameLines       int          `mapstructure:"max_name_lines" yaml:"max_name_lines"`
	StopNameAtDetail   bool         `mapstructure:"stop_name_at_detail" yaml:"stop_name_at_detail"`
	Continuation       Continuation `mapstructure:"continuation" yaml:"continuation"`
	ExtraNoise         []string     `mapstructure:"extra_noise" yaml:"extra_noise"`
	ExtraDetails       []string     `mapstructure:"extra_details" yaml:"extra_details"`
}

// DefaultPolicy is the slash-separated variant: product names are the lines
// carrying a "/" hierarchy.
func DefaultPolicy() Policy {
	return Policy{
		QuantityConvention: Grouping,
		SeparatorRule:      true,
		NameJoin:           " ",
		Continuation:       ContinueDetails,
	}
}

// PresetPolicy returns the policy for a named export variant.
func PresetPolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetSlash:
		return DefaultPolicy(), nil
	case PresetWindow:
		p := DefaultPolicy()
		p.SeparatorRule = false
		p.NameWindow = 2
		p.UpperCaseRule = true
		return p, nil
	default:
		return Policy{}, fmt.Errorf("unknown preset %q", name)
	}
}

// Validate checks enumerated fields and fills zero values.
func (p *Policy) Validate() error {
	switch p.QuantityConvention {
	case "":
		p.QuantityConvention = Grouping
	case Grouping, Decimal:
	default:
		return fmt.Errorf("unknown quantity convention %q", p.QuantityConvention)
	}
	switch p.Continuation {
	case "":
		p.Continuation = ContinueDetails
	case ContinueDetails, ContinueName:
	default:
		return fmt.Errorf("unknown continuation %q", p.Continuation)
	}
	if p.NameWindow < 0 {
		return fmt.Errorf("name window must not be negative, got %d", p.NameWindow)
	}
	if p.MaxNameLines < 0 {
		return fmt.Errorf("max name lines must not be negative, got %d", p.MaxNameLines)
	}
	return nil
}
