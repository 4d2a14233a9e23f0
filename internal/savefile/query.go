package savefile

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Get evaluates a gjson path (countries.USA.relationship) against tree.
func Get(tree map[string]any, path string) (gjson.Result, error) {
	blob, err := Encode(tree)
	if err != nil {
		return gjson.Result{}, err
	}
	res := gjson.GetBytes(blob, path)
	if !res.Exists() {
		return res, errors.Errorf("path %q not found", path)
	}
	return res, nil
}

// Set writes value at path and returns the updated tree. The parent of path must exist;
// tree itself is left untouched.
func Set(tree map[string]any, path string, value any) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty path")
	}
	blob, err := Encode(tree)
	if err != nil {
		return nil, err
	}
	if parent := parentPath(path); parent != "" && !gjson.GetBytes(blob, parent).Exists() {
		return nil, errors.Errorf("path %q not found", parent)
	}
	out, err := sjson.SetBytes(blob, path, value)
	if err != nil {
		return nil, errors.Wrapf(err, "set %s", path)
	}
	return Decode(out)
}

// EscapeKey escapes characters that gjson treats as path syntax.
func EscapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinPath builds a gjson path from raw keys.
func JoinPath(keys ...string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = EscapeKey(k)
	}
	return strings.Join(parts, ".")
}

func parentPath(path string) string {
	for i := len(path) - 1; i > 0; i-- {
		if path[i] != '.' {
			continue
		}
		slashes := 0
		for j := i - 1; j >= 0 && path[j] == '\\'; j-- {
			slashes++
		}
		if slashes%2 == 0 {
			return path[:i]
		}
	}
	return ""
}
