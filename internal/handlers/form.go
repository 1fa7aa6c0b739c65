package handlers

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/services"
)

const MissingInputMessage = "Missing resumes or job description"

type resumeForm struct {
	Resumes []*multipart.FileHeader
	JobPost string
}

// parseResumeForm reads the "resumes" files and the "job_post" field.
// ok is false when either is missing; a body that is not multipart counts as missing.
func parseResumeForm(c *fiber.Ctx) (form resumeForm, ok bool) {
	multipartForm, err := c.MultipartForm()
	if err != nil {
		return form, false
	}

	for _, fh := range multipartForm.File["resumes"] {
		// Browsers send an empty part when no file was picked.
		if fh.Filename == "" {
			continue
		}
		form.Resumes = append(form.Resumes, fh)
	}

	if values := multipartForm.Value["job_post"]; len(values) > 0 {
		form.JobPost = values[0]
	}

	return form, len(form.Resumes) > 0 && strings.TrimSpace(form.JobPost) != ""
}

// validateResumes rejects the whole upload when any file has an unsupported
// extension or exceeds maxFileSize.
func validateResumes(files []*multipart.FileHeader, maxFileSize int64) error {
	for _, fh := range files {
		if err := services.CheckFormat(fh.Filename); err != nil {
			return fmt.Errorf("%s: %w", fh.Filename, err)
		}
		if maxFileSize > 0 && fh.Size > maxFileSize {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("%s is too large. Max size: %d bytes", fh.Filename, maxFileSize))
		}
	}
	return nil
}
