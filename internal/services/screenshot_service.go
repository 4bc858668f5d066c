package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ScreenshotStore persists evidence screenshots under <root>/screenshots with
// randomized filenames and hands back paths relative to the static root.
type ScreenshotStore struct {
	root string
}

func NewScreenshotStore(root string) *ScreenshotStore {
	return &ScreenshotStore{root: root}
}

func (s *ScreenshotStore) Save(fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.root, "screenshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshots dir: %w", err)
	}

	name := uuid.NewString() + sanitizeExt(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	target := filepath.Join(dir, name)
	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(target)
		return "", err
	}

	return filepath.Join("screenshots", name), nil
}

// Remove deletes a stored screenshot. Missing files are not an error.
func (s *ScreenshotStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
