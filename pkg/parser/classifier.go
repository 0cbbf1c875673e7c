package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Tag is the classification of a single line.
type Tag int

const (
	Unclassified Tag = iota
	Blank
	Noise
	ItemHeader
	ProductName
	Detail
)

func (t Tag) String() string {
	switch t {
	case Blank:
		return "blank"
	case Noise:
		return "noise"
	case ItemHeader:
		return "item-header"
	case ProductName:
		return "product-name"
	case Detail:
		return "detail"
	default:
		return "unclassified"
	}
}

// defaultNoise are lower-case substrings of lines that never carry item data:
// pricing, column headers, totals, measurement captions.
var defaultNoise = []string{
	"€", "$", "£",
	"price", "discount", "item no", "article no",
	"value added tax", "net amount",
	"dimensions", "measurements", "w x d x h",
	"quotation", "offer no",
}

// noiseWords are short currency, tax and caption tokens. They only count as
// whole words so that "Fleur" or "Syntax" stay product names.
var noiseWords = regexp.MustCompile(`\b(?:eur|usd|chf|vat|tax|qty|quantity|total|subtotal|gross|page)\b`)

// defaultDetails are lower-case keywords of material/colour/fabric/finish lines.
var defaultDetails = []string{"material", "color", "colour", "fabric", "finish"}

// headerPattern matches: quantity, an optional secondary numeric group, then
// the item code. The secondary group is lazy: the token right after the
// quantity is the item code whenever it can be one.
var headerPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)*)\s+(?:(\d+(?:[.,]\d+)*)\s+)??([0-9A-Za-z][0-9A-Za-z/\-]*)(?:\s|$)`)

// State is what the classifier needs to know about the fold so far.
type State struct {
	Open        bool
	SinceHeader int
	NameLines   int
	SawDetail   bool
}

// Classification is the outcome for one line.
type Classification struct {
	Tag        Tag
	Quantity   int
	ItemNumber string
	Ambiguous  bool
	// QuantityErr is set when the line looked like a header but the quantity
	// did not parse; the line then falls through to the lower rules.
	QuantityErr error
}

// Classifier applies the rule set in fixed priority:
// blank, noise, item header, detail keyword, product name, unclassified.
type Classifier struct {
	policy  Policy
	noise   []string
	details []string
}

func NewClassifier(policy Policy) *Classifier {
	return &Classifier{
		policy:  policy,
		noise:   withExtras(defaultNoise, policy.ExtraNoise),
		details: withExtras(defaultDetails, policy.ExtraDetails),
	}
}

func withExtras(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, e := range extra {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Classify tags one trimmed line.
func (c *Classifier) Classify(line string, st State) Classification {
	if line == "" {
		return Classification{Tag: Blank}
	}
	lower := strings.ToLower(line)
	if containsAny(lower, c.noise) || noiseWords.MatchString(lower) {
		return Classification{Tag: Noise}
	}

	var qtyErr error
	if m := headerPattern.FindStringSubmatch(line); m != nil && strings.ContainsAny(m[3], "0123456789") {
		qty, ambiguous, err := readQuantity(m[1], c.policy.QuantityConvention)
		switch {
		case err != nil:
			qtyErr = err
		case qty < 1:
			qtyErr = errQuantity
		default:
			return Classification{Tag: ItemHeader, Quantity: qty, ItemNumber: m[3], Ambiguous: ambiguous}
		}
	}

	if containsAny(lower, c.details) {
		return Classification{Tag: Detail, QuantityErr: qtyErr}
	}

	if c.isName(line, st) {
		if c.nameClosed(st) {
			return Classification{Tag: Detail, QuantityErr: qtyErr}
		}
		return Classification{Tag: ProductName, QuantityErr: qtyErr}
	}

	return Classification{Tag: Unclassified, QuantityErr: qtyErr}
}

func (c *Classifier) isName(line string, st State) bool {
	if c.policy.SeparatorRule && strings.Contains(line, "/") {
		return true
	}
	if st.Open && c.policy.NameWindow > 0 && st.SinceHeader < c.policy.NameWindow {
		return true
	}
	return c.policy.UpperCaseRule && isUpper(line)
}

// nameClosed reports whether the record stopped accepting name fragments.
func (c *Classifier) nameClosed(st State) bool {
	if c.policy.MaxNameLines > 0 && st.NameLines >= c.policy.MaxNameLines {
		return true
	}
	return c.policy.StopNameAtDetail && st.SawDetail
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isUpper is true for lines with at least one letter and no lower-case letters.
func isUpper(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters = true
		}
	}
	return letters
}
