package catalog

import (
	"math"
	"strconv"
	"strings"
)

// parseDigits parses a field made only of ASCII digits (after trimming).
func parseDigits(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseRating parses a finite decimal number. NaN and infinities are rejected.
func parseRating(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseRuntime parses values like "142 min". Anything not ending in "min"
// is treated as unknown.
func parseRuntime(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "min") {
		return 0, false
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitList splits a comma-separated field and trims every element.
// Empty elements are dropped when dropEmpty is set.
func splitList(s string, dropEmpty bool) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if dropEmpty && p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
