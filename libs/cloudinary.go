package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, r io.Reader, folder, filename string) (StoredObject, error) {
	publicID := strings.TrimSuffix(uniqueName(filename), filepath.Ext(filename))

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res == nil {
		return StoredObject{}, errors.New("cloudinary response is nil")
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	if url == "" {
		return StoredObject{}, errors.New("cloudinary returned no url")
	}
	return StoredObject{URL: url, Key: res.PublicID}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", res.Result)
	}
	return nil
}
