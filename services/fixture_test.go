package services_test

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"storefront/models"
	"storefront/services"
	"storefront/testutil"
)

type fixture struct {
	store       *testutil.MemStore
	cache       *testutil.MemCache
	storage     *testutil.MemStorage
	collections *services.CollectionService
	products    *services.ProductService
	images      *services.ImageService
	carts       *services.CartService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	cache := testutil.NewMemCache()
	storage := testutil.NewMemStorage()
	return &fixture{
		store:       store,
		cache:       cache,
		storage:     storage,
		collections: services.NewCollectionService(store.Collections(), cache, time.Minute, nil),
		products:    services.NewProductService(store.Products(), store.Collections(), storage, cache, time.Minute, nil),
		images:      services.NewImageService(store.Products(), storage, cache, 1, nil),
		carts:       services.NewCartService(store.Carts(), store.Products(), nil),
	}
}

// payload builds a models.Payload from a JSON object literal.
func payload(t *testing.T, raw string) models.Payload {
	t.Helper()
	var p models.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("bad payload %s: %v", raw, err)
	}
	return p
}

// fieldErrors returns the field errors of a ValidationFailed error, failing the test otherwise.
func fieldErrors(t *testing.T, err error) models.FieldErrors {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected *models.AppError, got %T (%v)", err, err)
	}
	if appErr.Kind != models.KindValidationFailed {
		t.Fatalf("kind = %q, want %q", appErr.Kind, models.KindValidationFailed)
	}
	return appErr.Fields
}

func fieldNames(fields models.FieldErrors) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return names
}

func assertKind(t *testing.T, err error, want models.ErrorKind) {
	t.Helper()
	if got := models.KindOf(err); got != want {
		t.Fatalf("error kind = %q (%v), want %q", got, err, want)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
