package services

import (
	"regexp"
	"strconv"
)

const MaxScore = 10.0

var scorePattern = regexp.MustCompile(`Score:\s*(\d+(?:\.\d*)?)/10\b`)

// ParseScore reads the "Score: X/10" token from a model response.
// A missing or unreadable token yields 0; values above MaxScore are clamped.
func ParseScore(output string) float64 {
	match := scorePattern.FindStringSubmatch(output)
	if match == nil {
		return 0
	}

	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}

	return min(score, MaxScore)
}
