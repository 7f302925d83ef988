package services

import (
	"context"
	"errors"
	"io"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"
)

const productImageFolder = "products"

type ImageService struct {
	products  ProductRepository
	storage   ImageStorage
	cache     Cache
	maxSizeKB int64
	log       *libs.Logger
}

func NewImageService(products ProductRepository, storage ImageStorage, cache Cache, maxSizeKB int64, log *libs.Logger) *ImageService {
	if cache == nil {
		cache = NoopCache
	}
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &ImageService{products: products, storage: storage, cache: cache, maxSizeKB: maxSizeKB, log: log}
}

// Upload checks the file before anything is written to storage.
func (s *ImageService) Upload(ctx context.Context, productID int, filename string, size int64, r io.Reader) (*models.ProductImage, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NotFound("Product not found")
		}
		return nil, err
	}
	if err := utils.ValidateImageExtension(filename); err != nil {
		return nil, err
	}
	if err := utils.ValidateFileSize(size, s.maxSizeKB); err != nil {
		return nil, err
	}

	obj, err := s.storage.Save(ctx, r, productImageFolder, filename)
	if err != nil {
		return nil, err
	}

	img := &models.ProductImage{ProductID: productID, URL: obj.URL, StorageKey: obj.Key, CreatedAt: time.Now()}
	if err := s.products.AddImage(ctx, img); err != nil {
		if delErr := s.storage.Delete(ctx, obj.Key); delErr != nil {
			s.log.Warn("failed to remove orphaned upload", "key", obj.Key, "error", delErr)
		}
		if errors.Is(err, models.ErrReferenced) {
			return nil, models.NotFound("Product not found")
		}
		return nil, err
	}
	s.invalidate(ctx, productID)
	return img, nil
}

func (s *ImageService) List(ctx context.Context, productID int) ([]models.ProductImage, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NotFound("Product not found")
		}
		return nil, err
	}
	return s.products.ListImages(ctx, productID)
}

func (s *ImageService) Delete(ctx context.Context, productID, imageID int) error {
	img, err := s.products.DeleteImage(ctx, productID, imageID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.NotFound("Image not found")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	if err := s.storage.Delete(ctx, img.StorageKey); err != nil {
		s.log.Warn("failed to delete stored image", "key", img.StorageKey, "error", err)
	}
	return nil
}

func (s *ImageService) invalidate(ctx context.Context, productID int) {
	s.cache.Delete(ctx, productKey(productID))
	s.cache.DeletePattern(ctx, productsListPattern)
}
