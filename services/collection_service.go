package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/libs"
	"storefront/models"
)

const collectionsListKey = "collections_list"

type CollectionService struct {
	collections CollectionRepository
	cache       Cache
	cacheTTL    time.Duration
	log         *libs.Logger
}

func NewCollectionService(collections CollectionRepository, cache Cache, cacheTTL time.Duration, log *libs.Logger) *CollectionService {
	if cache == nil {
		cache = NoopCache
	}
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &CollectionService{collections: collections, cache: cache, cacheTTL: cacheTTL, log: log}
}

func (s *CollectionService) List(ctx context.Context) ([]models.Collection, error) {
	if data, ok := s.cache.Get(ctx, collectionsListKey); ok {
		var cached []models.Collection
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		s.log.Warn("discarding unreadable cache entry", "key", collectionsListKey)
	}

	collections, err := s.collections.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(collections); err == nil {
		s.cache.Set(ctx, collectionsListKey, data, s.cacheTTL)
	}
	return collections, nil
}

func (s *CollectionService) Get(ctx context.Context, id int) (*models.Collection, error) {
	c, err := s.collections.GetByID(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NotFound("Collection not found")
	}
	return c, err
}

func (s *CollectionService) Create(ctx context.Context, payload models.Payload) (*models.Collection, error) {
	c := &models.Collection{}
	if err := s.apply(c, payload, false); err != nil {
		return nil, err
	}
	if err := s.collections.Create(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, collectionsListKey)
	return c, nil
}

// Update replaces the title (PUT) or changes only the supplied fields (PATCH, partial=true).
func (s *CollectionService) Update(ctx context.Context, id int, payload models.Payload, partial bool) (*models.Collection, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, payload, partial); err != nil {
		return nil, err
	}
	if err := s.collections.Update(ctx, c); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NotFound("Collection not found")
		}
		return nil, err
	}
	s.cache.Delete(ctx, collectionsListKey)
	return c, nil
}

// Delete refuses collections that still have products.
func (s *CollectionService) Delete(ctx context.Context, id int) error {
	err := s.collections.Delete(ctx, id)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		return models.NotFound("Collection not found")
	case errors.Is(err, models.ErrReferenced):
		return models.Conflict("Collection cannot be deleted because it includes one or more products.")
	case err != nil:
		return err
	}
	s.cache.Delete(ctx, collectionsListKey)
	return nil
}

func (s *CollectionService) apply(c *models.Collection, payload models.Payload, partial bool) error {
	var errs models.FieldErrors
	if raw, ok := payload["title"]; ok {
		if title, ok := decodeTitle(raw, "title", models.TitleMaxLength, &errs); ok {
			c.Title = title
		}
	} else if !partial {
		errs.Add("title", msgRequired)
	}
	return errs.Err()
}
