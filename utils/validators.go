package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"storefront/models"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateFileSize rejects sizes strictly above maxKB kilobytes.
func ValidateFileSize(size int64, maxKB int64) error {
	if size > maxKB*1024 {
		return models.FieldInvalid("image", fmt.Sprintf("Files cannot be larger than %dKB!", maxKB))
	}
	return nil
}

func ValidateImageExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return models.FieldInvalid("image", "Invalid file type. Only jpg, jpeg, png, gif, webp allowed")
	}
	return nil
}

var (
	slugPattern    = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func Slugify(title string) string {
	s := nonSlugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
