package fields

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// NullText is how an absent value is shown in a text input.
const NullText = "null"

// Coerce turns edited text back into a value: "null" -> nil, true/false -> bool,
// then integer, then finite real, else the text itself.
func Coerce(text string) any {
	if text == NullText {
		return nil
	}
	switch strings.ToLower(text) {
	case "true":
		return true
	case "false":
		return false
	}
	trimmed := strings.TrimSpace(text)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return text
}

// Literal renders a blob value as the text shown in an input.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func isComposite(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
