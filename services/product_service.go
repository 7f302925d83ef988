package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"
)

const productsListPattern = "products_list_*"

func productKey(id int) string {
	return "product_" + strconv.Itoa(id)
}

func productsListKey(f models.ProductFilter) string {
	return fmt.Sprintf("products_list_c%d_o%s_p%d_l%d_s%s",
		f.CollectionID, f.Ordering, f.Page, f.Limit, url.QueryEscape(f.Search))
}

type ProductService struct {
	products    ProductRepository
	collections CollectionRepository
	storage     ImageStorage
	cache       Cache
	cacheTTL    time.Duration
	log         *libs.Logger
}

func NewProductService(products ProductRepository, collections CollectionRepository, storage ImageStorage, cache Cache, cacheTTL time.Duration, log *libs.Logger) *ProductService {
	if cache == nil {
		cache = NoopCache
	}
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &ProductService{
		products:    products,
		collections: collections,
		storage:     storage,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	TotalItems int              `json:"total_items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) (*ProductPage, error) {
	if !filter.Ordering.Valid() {
		return nil, models.FieldInvalid("ordering", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", filter.Ordering))
	}
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)

	key := productsListKey(filter)
	if data, ok := s.cache.Get(ctx, key); ok {
		var cached ProductPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		s.log.Warn("discarding unreadable cache entry", "key", key)
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &ProductPage{Products: products, TotalItems: total, Page: filter.Page, Limit: filter.Limit}
	if data, err := json.Marshal(page); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return page, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	key := productKey(id)
	if data, ok := s.cache.Get(ctx, key); ok {
		var cached models.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, payload models.Payload) (*models.Product, error) {
	p := &models.Product{}
	if err := s.apply(ctx, p, payload, false); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		if errors.Is(err, models.ErrReferenced) {
			return nil, models.FieldInvalid("collection", invalidPK(p.CollectionID))
		}
		return nil, err
	}
	s.invalidate(ctx, p.ID)
	return p, nil
}

// Update requires every field unless partial is set, in which case only supplied fields are validated and changed.
func (s *ProductService) Update(ctx context.Context, id int, payload models.Payload, partial bool) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, payload, partial); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, models.ErrRecordNotFound):
			return nil, models.NotFound("Product not found")
		case errors.Is(err, models.ErrReferenced):
			return nil, models.FieldInvalid("collection", invalidPK(p.CollectionID))
		}
		return nil, err
	}
	s.invalidate(ctx, p.ID)
	return p, nil
}

// Delete removes the product and then its stored image objects.
func (s *ProductService) Delete(ctx context.Context, id int) error {
	images, err := s.products.Delete(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.NotFound("Product not found")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if s.storage == nil {
		return nil
	}
	for _, img := range images {
		if err := s.storage.Delete(ctx, img.StorageKey); err != nil {
			s.log.Warn("failed to delete stored image", "product_id", id, "key", img.StorageKey, "error", err)
		}
	}
	return nil
}

// invalidate drops every cache entry a product write can make stale.
func (s *ProductService) invalidate(ctx context.Context, id int) {
	s.cache.Delete(ctx, productKey(id), collectionsListKey)
	s.cache.DeletePattern(ctx, productsListPattern)
}

func invalidPK(id int) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// apply decodes every known field of payload into p, collecting all violations
// in the order title, slug, description, unit_price, inventory, collection.
func (s *ProductService) apply(ctx context.Context, p *models.Product, payload models.Payload, partial bool) error {
	var errs models.FieldErrors

	titleOK := false
	if raw, ok := payload["title"]; ok {
		if title, ok := decodeTitle(raw, "title", models.TitleMaxLength, &errs); ok {
			p.Title = title
			titleOK = true
		}
	} else if !partial {
		errs.Add("title", msgRequired)
	}

	if raw, ok := payload["slug"]; ok {
		if slug, ok := decodeTitle(raw, "slug", models.TitleMaxLength, &errs); ok {
			if utils.IsSlug(slug) {
				p.Slug = slug
			} else {
				errs.Add("slug", `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`)
			}
		}
	} else if !partial {
		if slug := utils.Slugify(p.Title); titleOK && slug != "" {
			p.Slug = slug
		} else {
			errs.Add("slug", msgRequired)
		}
	}

	if raw, ok := payload["description"]; ok {
		if isNull(raw) {
			p.Description = ""
		} else if desc, ok := decodeString(raw, "description", &errs); ok {
			p.Description = desc
		}
	} else if !partial {
		p.Description = ""
	}

	if raw, ok := payload["unit_price"]; ok {
		if price, ok := decodeDecimal(raw, "unit_price", &errs); ok {
			switch {
			case !price.IsPositive():
				errs.Add("unit_price", "Ensure this value is greater than 0.")
			case !price.Equal(price.Truncate(models.PricePlaces)):
				errs.Add("unit_price", fmt.Sprintf("Ensure that there are no more than %d decimal places.", models.PricePlaces))
			case price.GreaterThan(models.MaxUnitPrice):
				errs.Add("unit_price", "Ensure that there are no more than 6 digits in total.")
			default:
				p.UnitPrice = price
			}
		}
	} else if !partial {
		errs.Add("unit_price", msgRequired)
	}

	if raw, ok := payload["inventory"]; ok {
		if inventory, ok := decodeInt(raw, "inventory", &errs); ok {
			if inventory < 0 {
				errs.Add("inventory", "Ensure this value is greater than or equal to 0.")
			} else {
				p.Inventory = inventory
			}
		}
	} else if !partial {
		errs.Add("inventory", msgRequired)
	}

	if raw, ok := payload["collection"]; ok {
		if isNull(raw) {
			errs.Add("collection", msgNull)
		} else if id, ok := parseInt(raw); !ok {
			errs.Add("collection", "Incorrect type. Expected pk value, received "+jsonKind(raw)+".")
		} else if id <= 0 || id > models.MaxIntValue {
			errs.Add("collection", invalidPK(id))
		} else {
			exists, err := s.collections.Exists(ctx, id)
			if err != nil {
				return err
			}
			if exists {
				p.CollectionID = id
			} else {
				errs.Add("collection", invalidPK(id))
			}
		}
	} else if !partial {
		errs.Add("collection", msgRequired)
	}

	return errs.Err()
}

func jsonKind(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "invalid"
	}
	switch v.(type) {
	case string:
		return "str"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	}
	return "unknown"
}
