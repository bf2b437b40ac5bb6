// Package normalize turns raw model output and raw query traces into
// the canonical views the grading engine compares against gold. Every
// function here is pure and total: a value that cannot be extracted is
// an "absent" result, never an error or a panic.
package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Answer holds the three canonical views of a model answer. Absent
// views are nil.
type Answer struct {
	Numeric *float64
	JSON    any
	Text    *string
}

// Normalize builds all three answer views from raw output.
func Normalize(answerText string, answerJSON any) Answer {
	var a Answer
	if n, ok := ExtractNumeric(answerText, answerJSON); ok {
		v := n
		a.Numeric = &v
	}
	if j, ok := ExtractJSON(answerText, answerJSON); ok {
		a.JSON = j
	}
	if t := strings.TrimSpace(answerText); t != "" {
		a.Text = &t
	}
	return a
}

// ExtractNumeric pulls a single numeric value out of the answer.
// A structured answer wins when it carries an unambiguous lone numeric
// leaf; otherwise the first standalone numeric token in the text is
// used. Returns ok=false when neither yields a number.
func ExtractNumeric(answerText string, answerJSON any) (float64, bool) {
	if answerJSON != nil {
		if n, ok := singleNumericLeaf(answerJSON); ok {
			return n, true
		}
	}
	return firstNumericToken(answerText)
}

// singleNumericLeaf accepts a lone number, or a chain of single-entry
// containers ending in a number. A container with more than one entry
// is ambiguous and rejected.
func singleNumericLeaf(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case json.Number:
		n, err := x.Float64()
		return n, err == nil
	case map[string]any:
		if len(x) != 1 {
			return 0, false
		}
		for _, inner := range x {
			return singleNumericLeaf(inner)
		}
		return 0, false
	case []any:
		if len(x) != 1 {
			return 0, false
		}
		return singleNumericLeaf(x[0])
	default:
		return 0, false
	}
}

var numericToken = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// firstNumericToken scans text for the first standalone integer or
// decimal. Tokens embedded in identifiers (ngsi-ld/v1) or version-like
// dotted runs are skipped.
func firstNumericToken(text string) (float64, bool) {
	for _, loc := range numericToken.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && attachedBefore(text[start-1]) {
			continue
		}
		if end < len(text) && attachedAfter(text[end:]) {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimPrefix(text[start:end], "+"), 64)
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// attachedBefore treats identifier characters and URN/path joiners as
// attached context: the digit run inside urn:ngsi-ld:Animal:042 or
// ngsi-ld/v1 is not a standalone numeric token.
func attachedBefore(b byte) bool {
	return isAlnum(b) || b == '_' || b == '.' || b == ':' || b == '-'
}

// attachedAfter rejects tokens glued to a following identifier or a
// further digit run (decimals, times). A trailing period of prose is
// fine.
func attachedAfter(rest string) bool {
	switch rest[0] {
	case '_':
		return true
	case '.', ':', '-':
		return len(rest) > 1 && isAlnum(rest[1])
	default:
		return isAlnum(rest[0])
	}
}

// ExtractJSON returns the structured form of the answer. An already
// structured answer is preferred; otherwise the text is parsed as
// JSON, tolerating surrounding prose by locating the outermost
// balanced {...} or [...] span. Malformed JSON yields ok=false.
func ExtractJSON(answerText string, answerJSON any) (any, bool) {
	if answerJSON != nil {
		return answerJSON, true
	}
	trimmed := strings.TrimSpace(answerText)
	if trimmed == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		if isContainer(v) {
			return v, true
		}
	}
	span, ok := balancedSpan(trimmed)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, false
	}
	return v, true
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// balancedSpan finds the first '{' or '[' and returns the span up to
// its matching close bracket, honoring strings and escapes.
func balancedSpan(s string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			start, open, close = i, '{', '}'
			break
		}
		if s[i] == '[' {
			start, open, close = i, '[', ']'
			break
		}
	}
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Broker parameters whose explicit value matches the broker default
// carry no meaning and are dropped during canonicalization. Anything
// not listed here is kept: parameter order is semantically meaningful
// in some broker dialects, so canonicalization stays conservative.
var defaultParams = map[string]string{
	"limit":  "20",
	"offset": "0",
}

// NormalizeQueries canonicalizes a raw query trace into comparable
// strings: lowercased path, parameter order preserved, whitespace
// outside quoted values stripped, broker-default parameters collapsed.
func NormalizeQueries(queries []string) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		out = append(out, NormalizeQuery(q))
	}
	return out
}

func NormalizeQuery(q string) string {
	q = stripUnquotedSpace(q)
	path, params, hasParams := strings.Cut(q, "?")
	path = strings.ToLower(path)
	if !hasParams {
		return path
	}
	var kept []string
	for _, p := range strings.Split(params, "&") {
		if p == "" {
			continue
		}
		key, val, _ := strings.Cut(p, "=")
		if def, ok := defaultParams[key]; ok && val == def {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return path
	}
	return path + "?" + strings.Join(kept, "&")
}

// stripUnquotedSpace removes whitespace except inside double-quoted
// spans, where a space is part of a filter value.
func stripUnquotedSpace(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	inQuote := false
	for i := 0; i < len(q); i++ {
		c := q[i]
		if c == '"' {
			inQuote = !inQuote
		}
		if !inQuote && (c == ' ' || c == '\t' || c == '\n' || c == '\r') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
