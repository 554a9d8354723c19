package dispatch

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Rule is a coercion applied to a raw form value before dispatch.
type Rule int

const (
	// RuleString sends the value verbatim.
	RuleString Rule = iota
	// RuleFloat parses a float; unparsable input becomes null.
	RuleFloat
	// RuleOptionalFloat is RuleFloat where an empty value is null.
	RuleOptionalFloat
	// RuleFloatOrZero parses a float; unparsable or empty input becomes 0.
	RuleFloatOrZero
	// RuleIntDefault parses an integer; unparsable or empty input becomes Field.Fallback.
	RuleIntDefault
	// RuleOptionalInt parses an integer; empty or unparsable input becomes null.
	RuleOptionalInt
	// RuleTags splits on commas, trims, and drops empty entries.
	RuleTags
	// RuleBool maps checkbox-style input to a boolean.
	RuleBool
)

// Location is where a field is placed in the request.
type Location int

const (
	InBody Location = iota
	InQuery
)

// Field declares one input of an operation.
type Field struct {
	Name     string
	Rule     Rule
	Default  string
	Fallback int
	In       Location
	Usage    string
}

// Coerce converts raw into the value sent on the wire. A nil result is
// encoded as JSON null.
func (f Field) Coerce(raw string) any {
	s := strings.TrimSpace(raw)
	switch f.Rule {
	case RuleFloat, RuleOptionalFloat:
		if v, ok := parseFloat(s); ok {
			return v
		}
		return nil
	case RuleFloatOrZero:
		if v, ok := parseFloat(s); ok {
			return v
		}
		return 0.0
	case RuleIntDefault:
		return ParseIntDefault(s, f.Fallback)
	case RuleOptionalInt:
		if v, ok := parseInt(s); ok {
			return v
		}
		return nil
	case RuleTags:
		return SplitTags(raw)
	case RuleBool:
		return parseBool(s)
	default:
		return raw
	}
}

// IsBool reports whether the field is checkbox-style.
func (f Field) IsBool() bool {
	return f.Rule == RuleBool
}

// ParseIntDefault parses an integer, truncating decimal input, and falls back
// to def when the value is empty or not numeric.
func ParseIntDefault(raw string, def int) int {
	if v, ok := parseInt(strings.TrimSpace(raw)); ok {
		return v
	}
	return def
}

// SplitTags turns "a, b ,,c" into ["a","b","c"]. The result is never nil.
func SplitTags(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, ok := parseFloat(s); ok {
		return int(math.Trunc(f)), true
	}
	return 0, false
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes", "on", "checked":
		return true
	}
	return false
}

// shape applies fields to input. When partial is set only fields present in
// input are emitted; otherwise absent fields take their Default.
func shape(fields []Field, input map[string]string, partial bool) (map[string]any, url.Values) {
	body := map[string]any{}
	query := url.Values{}
	for _, f := range fields {
		raw, ok := input[f.Name]
		if !ok {
			if partial {
				continue
			}
			raw = f.Default
		}
		v := f.Coerce(raw)
		if f.In == InQuery {
			query.Set(f.Name, queryValue(v))
			continue
		}
		body[f.Name] = v
	}
	return body, query
}

func queryValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
