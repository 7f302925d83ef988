package services_test

import (
	"bytes"
	"context"
	"testing"

	"storefront/models"
	"storefront/testutil"
)

func TestImageUploadValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")

	// the fixture limit is 1KB
	_, err := f.images.Upload(ctx, p.ID, "big.png", 1025, bytes.NewReader(make([]byte, 1025)))
	fields := fieldErrors(t, err)
	if len(fields) != 1 || fields[0].Field != "image" || fields[0].Message != "Files cannot be larger than 1KB!" {
		t.Fatalf("fields = %+v", fields)
	}

	_, err = f.images.Upload(ctx, p.ID, "script.sh", 10, bytes.NewReader([]byte("x")))
	assertKind(t, err, models.KindValidationFailed)

	_, err = f.images.Upload(ctx, 999, "a.png", 10, bytes.NewReader([]byte("x")))
	assertKind(t, err, models.KindNotFound)

	if f.storage.Len() != 0 {
		t.Fatalf("rejected uploads reached storage: %d objects", f.storage.Len())
	}
}

func TestImageUploadListDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")

	img, err := f.images.Upload(ctx, p.ID, "bread.jpg", 1024, bytes.NewReader(make([]byte, 1024)))
	if err != nil {
		t.Fatalf("Upload at the limit: %v", err)
	}

	images, err := f.images.List(ctx, p.ID)
	if err != nil || len(images) != 1 || images[0].URL != img.URL {
		t.Fatalf("List = %+v, %v", images, err)
	}
	product, _ := f.products.Get(ctx, p.ID)
	if len(product.Images) != 1 {
		t.Fatalf("product images = %+v", product.Images)
	}

	assertKind(t, f.images.Delete(ctx, p.ID+1, img.ID), models.KindNotFound)
	if err := f.images.Delete(ctx, p.ID, img.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.storage.Len() != 0 {
		t.Fatal("stored object not removed")
	}
	product, _ = f.products.Get(ctx, p.ID)
	if len(product.Images) != 0 {
		t.Fatalf("product still lists images: %+v", product.Images)
	}
}

func TestImageUploadStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	f.storage.FailAll = true

	_, err := f.images.Upload(ctx, p.ID, "a.png", 10, bytes.NewReader([]byte("x")))
	if err == nil || models.KindOf(err) != "" {
		t.Fatalf("err = %v, want a plain storage error", err)
	}
}
