package savefile

import (
	"bytes"
	"fmt"
	"strings"
)

// LocatorMode selects how the blob is found inside the save text.
type LocatorMode int

const (
	// Balanced scans from the first '{' to its matching '}' by bracket depth.
	Balanced LocatorMode = iota
	// Greedy takes everything from the first '{' to the last '}' in the file.
	Greedy
)

func (m LocatorMode) String() string {
	switch m {
	case Greedy:
		return "greedy"
	default:
		return "balanced"
	}
}

// ParseLocatorMode accepts "balanced" or "greedy" (case-insensitive). Empty means Balanced.
func ParseLocatorMode(s string) (LocatorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "balanced":
		return Balanced, nil
	case "greedy":
		return Greedy, nil
	}
	return Balanced, fmt.Errorf("unknown locator mode %q (want balanced|greedy)", s)
}

// Span is the half-open byte range [Start, End) of the blob within the save text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Locate finds the blob region in text.
func Locate(text []byte, mode LocatorMode) (Span, error) {
	start := bytes.IndexByte(text, '{')
	if start < 0 {
		return Span{}, formatErr("no structured-data region found", nil)
	}
	if mode == Greedy {
		end := bytes.LastIndexByte(text, '}')
		if end < start {
			return Span{}, formatErr("no structured-data region found", nil)
		}
		return Span{Start: start, End: end + 1}, nil
	}
	end, ok := matchBrace(text, start)
	if !ok {
		return Span{}, formatErr("unterminated structured-data region", nil)
	}
	return Span{Start: start, End: end}, nil
}

// matchBrace returns the index just past the brace closing text[open].
// Braces and brackets inside JSON strings are ignored.
func matchBrace(text []byte, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				if c != '}' {
					return 0, false
				}
				return i + 1, true
			}
			if depth < 0 {
				return 0, false
			}
		}
	}
	return 0, false
}
