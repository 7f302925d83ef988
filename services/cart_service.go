package services

import (
	"context"
	"errors"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/google/uuid"
)

type CartService struct {
	carts    CartRepository
	products ProductRepository
	log      *libs.Logger
}

func NewCartService(carts CartRepository, products ProductRepository, log *libs.Logger) *CartService {
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &CartService{carts: carts, products: products, log: log}
}

var errCartNotFound = models.NotFound("Cart not found")

const (
	msgQuantityTooLarge     = "Ensure this value is less than or equal to 2147483647."
	msgCartQuantityTooLarge = "Ensure the total quantity of this product in the cart is less than or equal to 2147483647."
)

// parseCartID treats a malformed id the same as an unknown one.
func parseCartID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errCartNotFound
	}
	return id, nil
}

func (s *CartService) Create(ctx context.Context) (*models.Cart, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	cart := &models.Cart{ID: id}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, rawID string) (*models.Cart, error) {
	id, err := parseCartID(rawID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetByID(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, errCartNotFound
	}
	return cart, err
}

func (s *CartService) Delete(ctx context.Context, rawID string) error {
	id, err := parseCartID(rawID)
	if err != nil {
		return err
	}
	if err := s.carts.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return errCartNotFound
		}
		return err
	}
	return nil
}

func (s *CartService) ListItems(ctx context.Context, rawID string) ([]models.CartItem, error) {
	cart, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

func (s *CartService) GetItem(ctx context.Context, rawID string, itemID int) (*models.CartItem, error) {
	id, err := parseCartID(rawID)
	if err != nil {
		return nil, err
	}
	item, err := s.carts.GetItem(ctx, id, itemID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NotFound("Cart item not found")
	}
	return item, err
}

// AddItem adds quantity to the cart's line for the product, creating it when absent.
// The bool reports whether a new line was created.
func (s *CartService) AddItem(ctx context.Context, rawID string, req models.AddCartItemRequest) (*models.CartItem, bool, error) {
	cart, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, false, err
	}

	var errs models.FieldErrors
	if req.ProductID <= 0 || req.ProductID > models.MaxIntValue {
		errs.Add("product_id", "No product with the given ID was found.")
	} else if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
		if !errors.Is(err, models.ErrRecordNotFound) {
			return nil, false, err
		}
		errs.Add("product_id", "No product with the given ID was found.")
	}
	if req.Quantity < 1 {
		errs.Add("quantity", "Ensure this value is greater than or equal to 1.")
	} else if req.Quantity > models.MaxIntValue {
		errs.Add("quantity", msgQuantityTooLarge)
	}
	if err := errs.Err(); err != nil {
		return nil, false, err
	}

	item, created, err := s.carts.UpsertItem(ctx, cart.ID, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, models.ErrOutOfRange):
		return nil, false, models.FieldInvalid("quantity", msgCartQuantityTooLarge)
	case errors.Is(err, models.ErrReferenced), errors.Is(err, models.ErrRecordNotFound):
		// the cart or the product was deleted concurrently
		return nil, false, models.NotFound("Cart or product no longer exists")
	case err != nil:
		return nil, false, err
	}
	return item, created, nil
}

func (s *CartService) UpdateItem(ctx context.Context, rawID string, itemID int, req models.UpdateCartItemRequest) (*models.CartItem, error) {
	id, err := parseCartID(rawID)
	if err != nil {
		return nil, err
	}
	switch {
	case req.Quantity < 1:
		return nil, models.FieldInvalid("quantity", "Ensure this value is greater than or equal to 1.")
	case req.Quantity > models.MaxIntValue:
		return nil, models.FieldInvalid("quantity", msgQuantityTooLarge)
	}
	item, err := s.carts.UpdateItemQuantity(ctx, id, itemID, req.Quantity)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NotFound("Cart item not found")
	}
	return item, err
}

func (s *CartService) RemoveItem(ctx context.Context, rawID string, itemID int) error {
	id, err := parseCartID(rawID)
	if err != nil {
		return err
	}
	if err := s.carts.DeleteItem(ctx, id, itemID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.NotFound("Cart item not found")
		}
		return err
	}
	return nil
}

// PurgeExpired deletes carts created more than ttl ago, items included.
func (s *CartService) PurgeExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	return s.carts.DeleteCreatedBefore(ctx, time.Now().Add(-ttl))
}
