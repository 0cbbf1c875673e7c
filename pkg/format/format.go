// Package format renders sealed item records for people: the formatted
// product name, the one-line display string and the first name segment.
package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator joins the segments of a product/variant hierarchy.
const Separator = " / "

// Name formats a raw product name. With a "/" hierarchy the first segment is
// upper-cased and the following segments are trimmed and title-cased; empty
// segments are dropped. A name without "/" is upper-cased wholesale.
func Name(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "/") {
		return strings.ToUpper(raw)
	}

	segments := make([]string, 0, strings.Count(raw, "/")+1)
	for _, seg := range strings.Split(raw, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if len(segments) == 0 {
			segments = append(segments, strings.ToUpper(seg))
		} else {
			segments = append(segments, titleCase(seg))
		}
	}
	return strings.Join(segments, Separator)
}

// Display is "{quantity} x {formatted name}", followed by " / {details}"
// when details are present.
func Display(quantity int, rawName, details string) string {
	s := fmt.Sprintf("%d x %s", quantity, Name(rawName))
	if details = strings.TrimSpace(details); details != "" {
		s += Separator + details
	}
	return s
}

// FirstSegment is the part of a name before the first "/", trimmed.
func FirstSegment(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// titleCase upper-cases the first rune and leaves the rest unchanged.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
