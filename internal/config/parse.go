package config

import (
	"strings"
	"unicode"
)

// Parse reads the key = value format. Blank lines and lines starting with #
// are skipped; each other line is split on its first '='. Parsing never
// stops early: every problem becomes a Warning.
func Parse(file string, data []byte) (Config, []Warning) {
	cfg := Default()
	var warns []Warning

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		col := 1 + strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			warns = append(warns, Warning{File: file, Line: i + 1, Column: col, Msg: "expected key = value"})
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if msg := apply(&cfg, key, value); msg != "" {
			warns = append(warns, Warning{File: file, Line: i + 1, Column: col, Msg: msg})
		}
	}
	return cfg, warns
}
