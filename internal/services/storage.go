package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var ErrInvalidFilename = errors.New("invalid filename")

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type StorageService interface {
	SaveFile(file *multipart.FileHeader, subdir string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	DeleteDir(subdir string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile writes the upload unmodified under its sanitized name, optionally
// inside subdir (each path element sanitized). An existing file with the same
// name is overwritten.
func (s *storageService) SaveFile(file *multipart.FileHeader, subdir string) (string, string, error) {
	filename := SanitizeFilename(file.Filename)
	if filename == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFilename, file.Filename)
	}

	dir := s.dirFor(subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filePath := filepath.Join(dir, filename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DeleteDir removes subdir and everything below it. The upload root itself is never removed.
func (s *storageService) DeleteDir(subdir string) error {
	dir := s.dirFor(subdir)
	if filepath.Clean(dir) == filepath.Clean(s.uploadPath) {
		return fmt.Errorf("%w: refusing to delete the upload root", ErrInvalidFilename)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete directory: %w", err)
	}
	return nil
}

// dirFor maps subdir below the upload root, sanitizing each path element.
func (s *storageService) dirFor(subdir string) string {
	elems := []string{s.uploadPath}
	for _, elem := range strings.Split(filepath.ToSlash(subdir), "/") {
		elems = append(elems, SanitizeFilename(elem))
	}
	return filepath.Join(elems...)
}

// SanitizeFilename reduces an upload name to a safe ASCII basename:
// "../../etc/passwd" becomes "etc_passwd" and "My cv.pdf" becomes "My_cv.pdf".
// The result is empty when nothing usable remains.
func SanitizeFilename(filename string) string {
	decomposed := norm.NFKD.String(filename)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			ascii.WriteRune(r)
		}
	}

	name := strings.NewReplacer("/", " ", "\\", " ").Replace(ascii.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")

	return strings.Trim(name, "._")
}
