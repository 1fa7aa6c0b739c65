package services

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const UnknownCandidate = "Unknown Candidate"

const (
	nameScanLines    = 20
	nameMaxLineWords = 4
)

var (
	nameLinePattern  = regexp.MustCompile(`^[A-Z][a-zA-Zéèêàçïî]+(?:\s[A-Z][a-zA-Zéèêàçïî]+)+$`)
	nameLabelPattern = regexp.MustCompile(`(?:Nom|Name)\s*:\s*([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`)

	// Lines containing one of these are job titles, not names.
	titleKeywords = []string{"développeur", "programmeur", "engineer", "analyste", "stack"}
)

// ExtractName guesses the candidate name from resume text. It first looks for a
// short line of capitalized words near the top, then for an explicit
// "Name:" label. UnknownCandidate is returned when neither is found.
func ExtractName(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(strings.Fields(line)) > nameMaxLineWords || hasTitleKeyword(line) {
			continue
		}
		if nameLinePattern.MatchString(line) {
			return line
		}
	}

	if match := nameLabelPattern.FindStringSubmatch(text); match != nil {
		return match[1]
	}

	return UnknownCandidate
}

// NameFromFilename derives a display name from an upload name,
// e.g. "jane_doe-cv.pdf" becomes "Jane Doe Cv".
func NameFromFilename(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	if strings.TrimSpace(name) == "" {
		return UnknownCandidate
	}

	// Casers keep state and must not be shared between goroutines.
	return cases.Title(language.Und).String(name)
}

// ResolveName applies ExtractName and falls back to the filename.
func ResolveName(text, filename string) string {
	if name := ExtractName(text); name != UnknownCandidate {
		return name
	}
	return NameFromFilename(filename)
}

func hasTitleKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range titleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
