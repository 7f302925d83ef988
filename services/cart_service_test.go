package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/models"
	"storefront/services"
	"storefront/testutil"

	"github.com/google/uuid"
)

func TestCartCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.carts.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cart.ID == uuid.Nil || cart.ID.Version() != 4 {
		t.Fatalf("cart id %s is not a random uuid", cart.ID)
	}

	other, err := f.carts.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if other.ID == cart.ID {
		t.Fatal("two carts share an id")
	}

	got, err := f.carts.Get(ctx, cart.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 0 || got.TotalPrice().String() != "0" {
		t.Fatalf("new cart not empty: %+v", got)
	}
}

func TestCartUnknownOrMalformedID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", uuid.NewString(), ""} {
		_, err := f.carts.Get(ctx, id)
		assertKind(t, err, models.KindNotFound)
		assertKind(t, f.carts.Delete(ctx, id), models.KindNotFound)
		_, _, err = f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: 1, Quantity: 1})
		assertKind(t, err, models.KindNotFound)
	}
}

func TestCartAddSameProductIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	cart, _ := f.carts.Create(ctx)
	id := cart.ID.String()

	first, created, err := f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: p.ID, Quantity: 2})
	if err != nil || !created {
		t.Fatalf("first add: created=%v err=%v", created, err)
	}
	second, created, err := f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: p.ID, Quantity: 3})
	if err != nil || created {
		t.Fatalf("second add: created=%v err=%v", created, err)
	}
	if second.ID != first.ID || second.Quantity != 5 {
		t.Fatalf("second add = %+v, want item %d with quantity 5", second, first.ID)
	}

	items, err := f.carts.ListItems(ctx, id)
	if err != nil || len(items) != 1 {
		t.Fatalf("items = %+v, %v", items, err)
	}
	if got := items[0].TotalPrice().StringFixed(2); got != "20.00" {
		t.Fatalf("total = %s, want 20.00", got)
	}
}

func TestCartConcurrentAddsKeepOneLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	cart, _ := f.carts.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := f.carts.AddItem(ctx, cart.ID.String(), models.AddCartItemRequest{ProductID: p.ID, Quantity: 1}); err != nil {
				t.Errorf("AddItem: %v", err)
			}
		}()
	}
	wg.Wait()

	items, _ := f.carts.ListItems(ctx, cart.ID.String())
	if len(items) != 1 || items[0].Quantity != 20 {
		t.Fatalf("items = %+v, want one line with quantity 20", items)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart, _ := f.carts.Create(ctx)

	_, _, err := f.carts.AddItem(ctx, cart.ID.String(), models.AddCartItemRequest{ProductID: 42, Quantity: 0})
	fields := fieldNames(fieldErrors(t, err))
	if len(fields) != 2 || fields[0] != "product_id" || fields[1] != "quantity" {
		t.Fatalf("fields = %v, want [product_id quantity]", fields)
	}
}

func TestCartQuantityStaysInColumnRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	cart, _ := f.carts.Create(ctx)
	id := cart.ID.String()

	_, _, err := f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: p.ID, Quantity: models.MaxIntValue + 1})
	if fields := fieldNames(fieldErrors(t, err)); len(fields) != 1 || fields[0] != "quantity" {
		t.Fatalf("fields = %v, want [quantity]", fields)
	}
	_, _, err = f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: models.MaxIntValue + 1, Quantity: 1})
	if fields := fieldNames(fieldErrors(t, err)); len(fields) != 1 || fields[0] != "product_id" {
		t.Fatalf("fields = %v, want [product_id]", fields)
	}

	item, created, err := f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: p.ID, Quantity: models.MaxIntValue})
	if err != nil || !created {
		t.Fatalf("first add: created=%v err=%v", created, err)
	}
	_, _, err = f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: p.ID, Quantity: models.MaxIntValue})
	if fields := fieldNames(fieldErrors(t, err)); len(fields) != 1 || fields[0] != "quantity" {
		t.Fatalf("fields = %v, want [quantity]", fields)
	}

	got, err := f.carts.GetItem(ctx, id, item.ID)
	if err != nil || got.Quantity != models.MaxIntValue {
		t.Fatalf("item after rejected add = %+v, %v", got, err)
	}

	_, err = f.carts.UpdateItem(ctx, id, item.ID, models.UpdateCartItemRequest{Quantity: models.MaxIntValue + 1})
	if fields := fieldNames(fieldErrors(t, err)); len(fields) != 1 || fields[0] != "quantity" {
		t.Fatalf("fields = %v, want [quantity]", fields)
	}
}

// vanishingCarts loses the cart between the product check and the upsert.
type vanishingCarts struct {
	*testutil.MemCarts
	err error
}

func (v vanishingCarts) UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int) (*models.CartItem, bool, error) {
	return nil, false, v.err
}

func TestCartAddItemRaceWithDeleteIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	cart, _ := f.carts.Create(ctx)

	for _, err := range []error{models.ErrRecordNotFound, models.ErrReferenced} {
		carts := services.NewCartService(vanishingCarts{f.store.Carts(), err}, f.store.Products(), nil)
		_, _, got := carts.AddItem(ctx, cart.ID.String(), models.AddCartItemRequest{ProductID: p.ID, Quantity: 1})
		assertKind(t, got, models.KindNotFound)
	}
}

func TestCartItemUpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	cart, _ := f.carts.Create(ctx)
	id := cart.ID.String()
	item, _, _ := f.carts.AddItem(ctx, id, models.AddCartItemRequest{ProductID: p.ID, Quantity: 1})

	updated, err := f.carts.UpdateItem(ctx, id, item.ID, models.UpdateCartItemRequest{Quantity: 7})
	if err != nil || updated.Quantity != 7 {
		t.Fatalf("UpdateItem = %+v, %v", updated, err)
	}
	_, err = f.carts.UpdateItem(ctx, id, item.ID, models.UpdateCartItemRequest{Quantity: 0})
	assertKind(t, err, models.KindValidationFailed)

	// items are scoped to their cart
	other, _ := f.carts.Create(ctx)
	_, err = f.carts.GetItem(ctx, other.ID.String(), item.ID)
	assertKind(t, err, models.KindNotFound)
	assertKind(t, f.carts.RemoveItem(ctx, other.ID.String(), item.ID), models.KindNotFound)

	if err := f.carts.RemoveItem(ctx, id, item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	_, err = f.carts.GetItem(ctx, id, item.ID)
	assertKind(t, err, models.KindNotFound)
}

func TestCartDeleteRemovesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := testutil.SeedCollection(t, f.store, "Grocery")
	p := testutil.SeedProduct(t, f.store, col.ID, "Bread", "4.00")
	cart, _ := f.carts.Create(ctx)
	item, _, _ := f.carts.AddItem(ctx, cart.ID.String(), models.AddCartItemRequest{ProductID: p.ID, Quantity: 1})

	if err := f.carts.Delete(ctx, cart.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.store.Carts().GetItem(ctx, cart.ID, item.ID); err != models.ErrRecordNotFound {
		t.Fatalf("item survived cart delete: %v", err)
	}
}

func TestCartPurgeExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old, _ := f.carts.Create(ctx)
	fresh, _ := f.carts.Create(ctx)
	f.store.Carts().Age(old.ID, 48*time.Hour)

	n, err := f.carts.PurgeExpired(ctx, 24*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpired = %d, %v; want 1", n, err)
	}
	if _, err := f.carts.Get(ctx, old.ID.String()); models.KindOf(err) != models.KindNotFound {
		t.Fatalf("expired cart still present: %v", err)
	}
	if _, err := f.carts.Get(ctx, fresh.ID.String()); err != nil {
		t.Fatalf("fresh cart removed: %v", err)
	}
}
