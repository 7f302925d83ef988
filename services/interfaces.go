package services

import (
	"context"
	"io"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/google/uuid"
)

// Repositories return models.ErrRecordNotFound for unknown ids and
// models.ErrReferenced when a delete is blocked by a foreign key.

type CollectionRepository interface {
	List(ctx context.Context) ([]models.Collection, error)
	GetByID(ctx context.Context, id int) (*models.Collection, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, c *models.Collection) error
	Update(ctx context.Context, c *models.Collection) error
	Delete(ctx context.Context, id int) error
}

type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) ([]models.ProductImage, error)
	AddImage(ctx context.Context, img *models.ProductImage) error
	ListImages(ctx context.Context, productID int) ([]models.ProductImage, error)
	DeleteImage(ctx context.Context, productID, imageID int) (*models.ProductImage, error)
}

type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	GetItem(ctx context.Context, cartID uuid.UUID, itemID int) (*models.CartItem, error)
	// UpsertItem adds quantity to the (cart, product) row, creating it when absent, in one atomic step.
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int) (*models.CartItem, bool, error)
	UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, cartID uuid.UUID, itemID int) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	ListCustomerEmails(ctx context.Context) ([]string, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePattern(ctx context.Context, pattern string)
}

type ImageStorage interface {
	Save(ctx context.Context, r io.Reader, folder, filename string) (libs.StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

type Mailer interface {
	Send(e libs.Email) error
}

type DelayClient interface {
	Delay(ctx context.Context, seconds int) ([]byte, error)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noopCache) Set(context.Context, string, []byte, time.Duration) {}
func (noopCache) Delete(context.Context, ...string) {}
func (noopCache) DeletePattern(context.Context, string) {}

// NoopCache never stores anything.
var NoopCache Cache = noopCache{}
