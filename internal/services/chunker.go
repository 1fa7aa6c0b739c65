package services

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// TextSplitter cuts text into overlapping chunks no longer than a fixed size.
type TextSplitter interface {
	SplitText(text string) []string
}

// recursiveSplitter splits on the first separator present in the text and
// recurses into pieces that are still too long with the remaining separators.
// Separators stay attached to the start of the piece that follows them.
type recursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

func NewTextSplitter(chunkSize int, overlap int) TextSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	return &recursiveSplitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// SplitText implements TextSplitter.
func (s *recursiveSplitter) SplitText(text string) []string {
	return s.split(text, s.separators)
}

func (s *recursiveSplitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var chunks []string
	var short []string

	for _, piece := range splitKeepingSeparator(text, separator) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			short = append(short, piece)
			continue
		}

		if len(short) > 0 {
			chunks = append(chunks, s.merge(short)...)
			short = nil
		}

		if len(remaining) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			continue
		}
		chunks = append(chunks, s.split(piece, remaining)...)
	}

	if len(short) > 0 {
		chunks = append(chunks, s.merge(short)...)
	}

	return chunks
}

// merge packs pieces into chunks, carrying up to overlap runes of the
// previous chunk into the next one.
func (s *recursiveSplitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		size := utf8.RuneCountInString(piece)

		if total+size > s.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}

			for total > s.overlap || (total+size > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += size
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, separator+part)
	}
	return pieces
}
