// Package encoding provides the quoting and value formatting rules shared by
// the line-oriented output formats.
package encoding

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EmptyQuotes is the quoted form of an empty or absent string.
const EmptyQuotes = `""`

// Quote returns s within double quotes, with backslashes escaped first and
// double quotes second, so a literal backslash never reads as an escape.
// The empty string yields EmptyQuotes.
func Quote(s string) string {
	if s == "" {
		return EmptyQuotes
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Unquote reverses Quote.
func Unquote(q string) (string, error) {
	if len(q) < 2 || q[0] != '"' || q[len(q)-1] != '"' {
		return "", fmt.Errorf("not a quoted string: %q", q)
	}
	body := q[1 : len(q)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			if c == '"' {
				return "", fmt.Errorf("unescaped quote at offset %d in %q", i+1, q)
			}
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", fmt.Errorf("dangling escape in %q", q)
		}
		switch body[i] {
		case '\\', '"':
			b.WriteByte(body[i])
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", body[i], q)
		}
	}
	return b.String(), nil
}

// FormatNumber renders a float the way the reference tooling prints it:
// integral values keep one decimal ("5.0"), others use the shortest
// representation, and very large or small magnitudes switch to exponent form.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Stringify renders a single decoded value component.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case float64:
		return FormatNumber(x)
	case float32:
		return FormatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

// PipeJoin joins value components with '|'.
func PipeJoin(parts []any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = Stringify(p)
	}
	return strings.Join(strs, "|")
}
