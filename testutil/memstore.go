package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/models"

	"github.com/google/uuid"
)

// MemStore is an in-memory stand-in for the Postgres repositories. Each
// accessor returns a view implementing one repository interface; all views
// share the same data and lock, and report the same sentinel errors.
type MemStore struct {
	mu sync.Mutex

	nextID      map[string]int
	collections map[int]models.Collection
	products    map[int]models.Product
	images      map[int]models.ProductImage
	carts       map[uuid.UUID]models.Cart
	items       map[int]models.CartItem
	users       map[int]models.User
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:      map[string]int{},
		collections: map[int]models.Collection{},
		products:    map[int]models.Product{},
		images:      map[int]models.ProductImage{},
		carts:       map[uuid.UUID]models.Cart{},
		items:       map[int]models.CartItem{},
		users:       map[int]models.User{},
	}
}

func (m *MemStore) id(table string) int {
	m.nextID[table]++
	return m.nextID[table]
}

func (m *MemStore) Collections() *MemCollections { return &MemCollections{m} }
func (m *MemStore) Products() *MemProducts { return &MemProducts{m} }
func (m *MemStore) Carts() *MemCarts { return &MemCarts{m} }
func (m *MemStore) Users() *MemUsers { return &MemUsers{m} }

// ---- collections

type MemCollections struct{ m *MemStore }

func (r *MemCollections) count(id int) int {
	n := 0
	for _, p := range r.m.products {
		if p.CollectionID == id {
			n++
		}
	}
	return n
}

func (r *MemCollections) List(ctx context.Context) ([]models.Collection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Collection{}
	for _, c := range r.m.collections {
		c.ProductsCount = r.count(c.ID)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemCollections) GetByID(ctx context.Context, id int) (*models.Collection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.collections[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	c.ProductsCount = r.count(id)
	return &c, nil
}

func (r *MemCollections) Exists(ctx context.Context, id int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.collections[id]
	return ok, nil
}

func (r *MemCollections) Create(ctx context.Context, c *models.Collection) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c.ID = r.m.id("collections")
	c.ProductsCount = 0
	r.m.collections[c.ID] = *c
	return nil
}

func (r *MemCollections) Update(ctx context.Context, c *models.Collection) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.collections[c.ID]; !ok {
		return models.ErrRecordNotFound
	}
	r.m.collections[c.ID] = models.Collection{ID: c.ID, Title: c.Title}
	return nil
}

func (r *MemCollections) Delete(ctx context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.collections[id]; !ok {
		return models.ErrRecordNotFound
	}
	if r.count(id) > 0 {
		return models.ErrReferenced
	}
	delete(r.m.collections, id)
	return nil
}

// ---- products

type MemProducts struct{ m *MemStore }

func (r *MemProducts) imagesOf(productID int) []models.ProductImage {
	out := []models.ProductImage{}
	for _, img := range r.m.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := []models.Product{}
	for _, p := range r.m.products {
		if filter.CollectionID > 0 && p.CollectionID != filter.CollectionID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		p.Images = r.imagesOf(p.ID)
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filter.Ordering {
		case models.OrderByPriceAsc:
			if !a.UnitPrice.Equal(b.UnitPrice) {
				return a.UnitPrice.LessThan(b.UnitPrice)
			}
		case models.OrderByPriceDesc:
			if !a.UnitPrice.Equal(b.UnitPrice) {
				return a.UnitPrice.GreaterThan(b.UnitPrice)
			}
		case models.OrderByLastUpdateAsc:
			if !a.LastUpdate.Equal(b.LastUpdate) {
				return a.LastUpdate.Before(b.LastUpdate)
			}
		case models.OrderByLastUpdateDesc:
			if !a.LastUpdate.Equal(b.LastUpdate) {
				return a.LastUpdate.After(b.LastUpdate)
			}
		}
		return a.ID < b.ID
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *MemProducts) GetByID(ctx context.Context, id int) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	p.Images = r.imagesOf(id)
	return &p, nil
}

func (r *MemProducts) Create(ctx context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.collections[p.CollectionID]; !ok {
		return models.ErrReferenced
	}
	if p.Inventory < 0 || p.Inventory > models.MaxIntValue {
		return models.ErrOutOfRange
	}
	p.ID = r.m.id("products")
	p.LastUpdate = time.Now()
	p.Images = []models.ProductImage{}
	r.m.products[p.ID] = *p
	return nil
}

func (r *MemProducts) Update(ctx context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[p.ID]; !ok {
		return models.ErrRecordNotFound
	}
	if _, ok := r.m.collections[p.CollectionID]; !ok {
		return models.ErrReferenced
	}
	if p.Inventory < 0 || p.Inventory > models.MaxIntValue {
		return models.ErrOutOfRange
	}
	p.LastUpdate = time.Now()
	stored := *p
	stored.Images = nil
	r.m.products[p.ID] = stored
	return nil
}

func (r *MemProducts) Delete(ctx context.Context, id int) ([]models.ProductImage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return nil, models.ErrRecordNotFound
	}
	images := r.imagesOf(id)
	for _, img := range images {
		delete(r.m.images, img.ID)
	}
	for itemID, item := range r.m.items {
		if item.ProductID == id {
			delete(r.m.items, itemID)
		}
	}
	delete(r.m.products, id)
	return images, nil
}

func (r *MemProducts) AddImage(ctx context.Context, img *models.ProductImage) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[img.ProductID]; !ok {
		return models.ErrReferenced
	}
	img.ID = r.m.id("product_images")
	img.CreatedAt = time.Now()
	r.m.images[img.ID] = *img
	return nil
}

func (r *MemProducts) ListImages(ctx context.Context, productID int) ([]models.ProductImage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.imagesOf(productID), nil
}

func (r *MemProducts) DeleteImage(ctx context.Context, productID, imageID int) (*models.ProductImage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	img, ok := r.m.images[imageID]
	if !ok || img.ProductID != productID {
		return nil, models.ErrRecordNotFound
	}
	delete(r.m.images, imageID)
	return &img, nil
}

// ---- carts

type MemCarts struct{ m *MemStore }

func (r *MemCarts) withProduct(item models.CartItem) models.CartItem {
	if p, ok := r.m.products[item.ProductID]; ok {
		item.Product = &models.Product{ID: p.ID, Title: p.Title, UnitPrice: p.UnitPrice}
	}
	return item
}

func (r *MemCarts) itemsOf(cartID uuid.UUID) []models.CartItem {
	out := []models.CartItem{}
	for _, item := range r.m.items {
		if item.CartID == cartID {
			out = append(out, r.withProduct(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemCarts) Create(ctx context.Context, cart *models.Cart) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.carts[cart.ID]; ok {
		return models.ErrDuplicate
	}
	cart.CreatedAt = time.Now()
	cart.Items = []models.CartItem{}
	r.m.carts[cart.ID] = models.Cart{ID: cart.ID, CreatedAt: cart.CreatedAt}
	return nil
}

func (r *MemCarts) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cart, ok := r.m.carts[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cart.Items = r.itemsOf(id)
	return &cart, nil
}

func (r *MemCarts) deleteCart(id uuid.UUID) {
	for itemID, item := range r.m.items {
		if item.CartID == id {
			delete(r.m.items, itemID)
		}
	}
	delete(r.m.carts, id)
}

func (r *MemCarts) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.carts[id]; !ok {
		return models.ErrRecordNotFound
	}
	r.deleteCart(id)
	return nil
}

func (r *MemCarts) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, cart := range r.m.carts {
		if cart.CreatedAt.Before(cutoff) {
			r.deleteCart(id)
			n++
		}
	}
	return n, nil
}

// Age moves a cart's creation time into the past.
func (r *MemCarts) Age(id uuid.UUID, by time.Duration) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if cart, ok := r.m.carts[id]; ok {
		cart.CreatedAt = cart.CreatedAt.Add(-by)
		r.m.carts[id] = cart
	}
}

func (r *MemCarts) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.itemsOf(cartID), nil
}

func (r *MemCarts) GetItem(ctx context.Context, cartID uuid.UUID, itemID int) (*models.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	item, ok := r.m.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, models.ErrRecordNotFound
	}
	item = r.withProduct(item)
	return &item, nil
}

func (r *MemCarts) UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int) (*models.CartItem, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.carts[cartID]; !ok {
		return nil, false, models.ErrReferenced
	}
	if _, ok := r.m.products[productID]; !ok {
		return nil, false, models.ErrReferenced
	}
	for id, item := range r.m.items {
		if item.CartID == cartID && item.ProductID == productID {
			if item.Quantity+quantity > models.MaxIntValue {
				return nil, false, models.ErrOutOfRange
			}
			item.Quantity += quantity
			r.m.items[id] = item
			item = r.withProduct(item)
			return &item, false, nil
		}
	}
	item := models.CartItem{ID: r.m.id("cart_items"), CartID: cartID, ProductID: productID, Quantity: quantity}
	r.m.items[item.ID] = item
	item = r.withProduct(item)
	return &item, true, nil
}

func (r *MemCarts) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int) (*models.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	item, ok := r.m.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, models.ErrRecordNotFound
	}
	if quantity < 1 || quantity > models.MaxIntValue {
		return nil, models.ErrOutOfRange
	}
	item.Quantity = quantity
	r.m.items[itemID] = item
	item = r.withProduct(item)
	return &item, nil
}

func (r *MemCarts) DeleteItem(ctx context.Context, cartID uuid.UUID, itemID int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	item, ok := r.m.items[itemID]
	if !ok || item.CartID != cartID {
		return models.ErrRecordNotFound
	}
	delete(r.m.items, itemID)
	return nil
}

// ---- users

type MemUsers struct{ m *MemStore }

func (r *MemUsers) Create(ctx context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return models.ErrDuplicate
		}
	}
	u.ID = r.m.id("users")
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.m.users[u.ID] = *u
	return nil
}

func (r *MemUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func (r *MemUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &u, nil
}

func (r *MemUsers) ListCustomerEmails(ctx context.Context) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ids := make([]int, 0, len(r.m.users))
	for id, u := range r.m.users {
		if u.Role == models.RoleCustomer {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	emails := make([]string, 0, len(ids))
	for _, id := range ids {
		emails = append(emails, r.m.users[id].Email)
	}
	return emails, nil
}
