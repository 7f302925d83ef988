package utils

import (
	"testing"

	"storefront/models"
)

func TestValidateFileSize(t *testing.T) {
	cases := []struct {
		name    string
		size    int64
		maxKB   int64
		wantErr bool
	}{
		{"zero bytes", 0, 1, false},
		{"zero bytes with zero limit", 0, 0, false},
		{"exactly at limit", 1024, 1, false},
		{"one byte over", 1025, 1, true},
		{"well under", 100 * 1024, 500, false},
		{"well over", 600 * 1024, 500, true},
		// the comparison is on bytes, so 2 bytes against a 1KB limit passes
		{"small size large limit", 2, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFileSize(tc.size, tc.maxKB)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateFileSize(%d, %d) err=%v, wantErr=%v", tc.size, tc.maxKB, err, tc.wantErr)
			}
			if err != nil && models.KindOf(err) != models.KindValidationFailed {
				t.Fatalf("kind = %q, want %q", models.KindOf(err), models.KindValidationFailed)
			}
		})
	}
}

func TestValidateFileSizeMessage(t *testing.T) {
	err := ValidateFileSize(2048, 1)
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected *models.AppError, got %T", err)
	}
	if len(appErr.Fields) != 1 || appErr.Fields[0].Field != "image" {
		t.Fatalf("unexpected fields: %+v", appErr.Fields)
	}
	if got, want := appErr.Fields[0].Message, "Files cannot be larger than 1KB!"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestValidateImageExtension(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp"} {
		if err := ValidateImageExtension(name); err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
	for _, name := range []string{"a.exe", "b", "c.svg", "d.jpg.txt"} {
		if err := ValidateImageExtension(name); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Bread Ww Cluster":         "bread-ww-cluster",
		"  Shrimp - 21/25, Peel  ": "shrimp-21-25-peel",
		"Island Oasis - Raspberry": "island-oasis-raspberry",
		"!!!":                      "",
		"already-a-slug":           "already-a-slug",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
		if want != "" && !IsSlug(want) {
			t.Errorf("IsSlug(%q) = false", want)
		}
	}
	if IsSlug("has space") || IsSlug("") {
		t.Fatal("IsSlug accepted an invalid slug")
	}
}
