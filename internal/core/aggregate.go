package core

import (
	"strconv"
	"strings"
)

// Aggregate scans categorized text line by line and sums the trailing number
// of every line that mentions a known category. The match is a
// case-insensitive substring check, so one line can credit several
// categories with the same amount. Lines whose last token is not an integer
// are skipped without error. The heuristic is intentionally lossy: it makes
// no assumption about the structure of the model's response.
func Aggregate(text string) Snapshot {
	snap := NewSnapshot()
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lower := strings.ToLower(line)
		for _, c := range Categories {
			if !strings.Contains(lower, string(c)) {
				continue
			}
			n, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
			if err != nil {
				// skip, do not error: trailing token was not a number
				continue
			}
			snap[c] += n
		}
	}
	return snap
}
