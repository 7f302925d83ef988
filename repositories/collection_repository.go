package repositories

import (
	"context"

	"storefront/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CollectionRepository struct {
	db *pgxpool.Pool
}

func NewCollectionRepository(db *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{db: db}
}

const collectionColumns = `c.id, c.title, (SELECT COUNT(*) FROM products p WHERE p.collection_id = c.id)`

func (r *CollectionRepository) List(ctx context.Context) ([]models.Collection, error) {
	rows, err := r.db.Query(ctx, `SELECT `+collectionColumns+` FROM collections c ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Title, &c.ProductsCount); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *CollectionRepository) GetByID(ctx context.Context, id int) (*models.Collection, error) {
	var c models.Collection
	err := r.db.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections c WHERE c.id = $1`, id).
		Scan(&c.ID, &c.Title, &c.ProductsCount)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CollectionRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM collections WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *CollectionRepository) Create(ctx context.Context, c *models.Collection) error {
	err := r.db.QueryRow(ctx, `INSERT INTO collections (title) VALUES ($1) RETURNING id`, c.Title).Scan(&c.ID)
	if err != nil {
		return err
	}
	c.ProductsCount = 0
	return nil
}

func (r *CollectionRepository) Update(ctx context.Context, c *models.Collection) error {
	tag, err := r.db.Exec(ctx, `UPDATE collections SET title = $1 WHERE id = $2`, c.Title, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// Delete fails with models.ErrReferenced while products still point at the collection.
func (r *CollectionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
