package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "first line",
			text: "Jane Doe\njane@example.com\nExperience",
			want: "Jane Doe",
		},
		{
			name: "leading whitespace",
			text: "\n\n   Jane Doe   \nEmail",
			want: "Jane Doe",
		},
		{
			name: "job title line skipped",
			text: "Senior Java Engineer\nJohn Smith\nParis",
			want: "John Smith",
		},
		{
			name: "title keyword is case insensitive",
			text: "Full Stack Web\nMarie Curie",
			want: "Marie Curie",
		},
		{
			name: "accented letters",
			text: "Hélène Dubois\nDéveloppeuse",
			want: "Hélène Dubois",
		},
		{
			name: "long line skipped",
			text: "Jean Paul Marie Claude Dupont\nnothing else",
			want: UnknownCandidate,
		},
		{
			name: "name label",
			text: "curriculum vitae\nName: Alice Martin\nSkills: Go",
			want: "Alice Martin",
		},
		{
			name: "nom label",
			text: "cv\nNom : Dupont",
			want: "Dupont",
		},
		{
			name: "nothing found",
			text: "lorem ipsum dolor\nsit amet",
			want: UnknownCandidate,
		},
		{
			name: "name after scanned lines",
			text: strings.Repeat("x\n", 25) + "Jane Doe",
			want: UnknownCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractName(tt.text))
		})
	}
}

func TestNameFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"jane_doe-cv.pdf", "Jane Doe Cv"},
		{"JOHN_SMITH.txt", "John Smith"},
		{"/tmp/uploads/mary.txt", "Mary"},
		{".pdf", UnknownCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromFilename(tt.filename))
		})
	}
}

func TestResolveNameFallsBackToFilename(t *testing.T) {
	assert.Equal(t, "Bob Marley", ResolveName("no name here", "bob_marley.pdf"))
	assert.Equal(t, "Jane Doe", ResolveName("Jane Doe\n...", "bob_marley.pdf"))
}
