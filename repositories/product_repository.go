package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, title, slug, COALESCE(description, ''), unit_price::text, inventory, collection_id, last_update`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	var price string
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &price, &p.Inventory, &p.CollectionID, &p.LastUpdate); err != nil {
		return nil, err
	}
	unitPrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %d: bad unit_price %q: %w", p.ID, price, err)
	}
	p.UnitPrice = unitPrice
	p.Images = []models.ProductImage{}
	return &p, nil
}

var productOrderBy = map[models.ProductOrdering]string{
	"":                           "id ASC",
	models.OrderByPriceAsc:       "unit_price ASC, id ASC",
	models.OrderByPriceDesc:      "unit_price DESC, id ASC",
	models.OrderByLastUpdateAsc:  "last_update ASC, id ASC",
	models.OrderByLastUpdateDesc: "last_update DESC, id ASC",
}

func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.CollectionID > 0 {
		args = append(args, filter.CollectionID)
		where = append(where, fmt.Sprintf("collection_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := productOrderBy[filter.Ordering]
	if !ok {
		orderBy = productOrderBy[""]
	}
	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, whereSQL, orderBy, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	ids := []int{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		images, err := r.imagesFor(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range products {
			if imgs, ok := images[products[i].ID]; ok {
				products[i].Images = imgs
			}
		}
	}
	return products, total, nil
}

func (r *ProductRepository) imagesFor(ctx context.Context, productIDs []int) (map[int][]models.ProductImage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, url, storage_key, created_at FROM product_images WHERE product_id = ANY($1) ORDER BY id`,
		productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.StorageKey, &img.CreatedAt); err != nil {
			return nil, err
		}
		out[img.ProductID] = append(out[img.ProductID], img)
	}
	return out, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (title, slug, description, unit_price, inventory, collection_id, last_update)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, NOW())
		RETURNING id, last_update`,
		p.Title, p.Slug, p.Description, p.UnitPrice.String(), p.Inventory, p.CollectionID,
	).Scan(&p.ID, &p.LastUpdate)
	if err != nil {
		return mapError(err)
	}
	p.Images = []models.ProductImage{}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET title = $1, slug = $2, description = $3, unit_price = $4::numeric, inventory = $5,
		    collection_id = $6, last_update = NOW()
		WHERE id = $7
		RETURNING last_update`,
		p.Title, p.Slug, p.Description, p.UnitPrice.String(), p.Inventory, p.CollectionID, p.ID,
	).Scan(&p.LastUpdate)
	return mapError(err)
}

// Delete removes the product with its images and cart items, returning the
// image rows so their stored objects can be cleaned up.
func (r *ProductRepository) Delete(ctx context.Context, id int) ([]models.ProductImage, error) {
	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrRecordNotFound
	}
	return images, nil
}

func (r *ProductRepository) AddImage(ctx context.Context, img *models.ProductImage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO product_images (product_id, url, storage_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		img.ProductID, img.URL, img.StorageKey,
	).Scan(&img.ID, &img.CreatedAt)
	return mapError(err)
}

func (r *ProductRepository) ListImages(ctx context.Context, productID int) ([]models.ProductImage, error) {
	images, err := r.imagesFor(ctx, []int{productID})
	if err != nil {
		return nil, err
	}
	if imgs, ok := images[productID]; ok {
		return imgs, nil
	}
	return []models.ProductImage{}, nil
}

func (r *ProductRepository) DeleteImage(ctx context.Context, productID, imageID int) (*models.ProductImage, error) {
	var img models.ProductImage
	err := r.db.QueryRow(ctx, `
		DELETE FROM product_images WHERE id = $1 AND product_id = $2
		RETURNING id, product_id, url, storage_key, created_at`,
		imageID, productID,
	).Scan(&img.ID, &img.ProductID, &img.URL, &img.StorageKey, &img.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &img, nil
}
