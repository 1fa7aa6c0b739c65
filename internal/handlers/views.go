package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type resultsPage struct {
	Candidates []models.CandidateData
}

// HandleIndex handles GET /
func HandleIndex(c *fiber.Ctx) error {
	return render(c, "index.html", nil)
}

func render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// toCandidateData numbers already ranked candidates from 1.
func toCandidateData(ranked []models.Candidate) []models.CandidateData {
	data := make([]models.CandidateData, 0, len(ranked))
	for i, candidate := range ranked {
		data = append(data, models.CandidateData{
			Rank:     i + 1,
			Name:     candidate.Name,
			Filename: candidate.Filename,
			Score:    candidate.Score,
			Result:   candidate.Result,
		})
	}
	return data
}
