package parser

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var errQuantity = errors.New("invalid quantity")

// readQuantity converts a quantity token such as "3", "1,000" or "1.234.567"
// under the given convention. ambiguous is set when the token has a single
// separator followed by exactly three digits, which the two conventions read
// differently.
func readQuantity(token string, conv Convention) (qty int, ambiguous bool, err error) {
	groups := strings.FieldsFunc(token, func(r rune) bool { return r == ',' || r == '.' })
	if len(groups) == 0 || strings.HasSuffix(token, ",") || strings.HasSuffix(token, ".") {
		return 0, false, fmt.Errorf("%w: %q", errQuantity, token)
	}
	ambiguous = len(groups) == 2 && len(groups[1]) == 3

	var value decimal.Decimal
	switch conv {
	case Decimal:
		intPart := groups[:len(groups)-1]
		if len(groups) == 1 {
			intPart = groups
		}
		if !validGrouping(intPart) {
			return 0, ambiguous, fmt.Errorf("%w: %q", errQuantity, token)
		}
		literal := strings.Join(intPart, "")
		if len(groups) > 1 {
			literal += "." + groups[len(groups)-1]
		}
		value, err = decimal.NewFromString(literal)
	default:
		if !validGrouping(groups) {
			return 0, ambiguous, fmt.Errorf("%w: %q", errQuantity, token)
		}
		value, err = decimal.NewFromString(strings.Join(groups, ""))
	}
	if err != nil {
		return 0, ambiguous, fmt.Errorf("%w: %q: %v", errQuantity, token, err)
	}
	if !value.IsInteger() {
		return 0, ambiguous, fmt.Errorf("%w: %q is not a whole number", errQuantity, token)
	}
	if value.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, ambiguous, fmt.Errorf("%w: %q out of range", errQuantity, token)
	}
	return int(value.IntPart()), ambiguous, nil
}

// validGrouping accepts "1234" or "1", "234", "567" style groups: a leading
// group followed by three-digit groups.
func validGrouping(groups []string) bool {
	if len(groups) == 0 || groups[0] == "" {
		return false
	}
	if len(groups) == 1 {
		return true
	}
	if len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
