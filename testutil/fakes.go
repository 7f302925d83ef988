package testutil

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"

	"github.com/shopspring/decimal"
)

// MemCache is a map-backed cache that understands trailing-* patterns.
type MemCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemCache() *MemCache {
	return &MemCache{data: map[string][]byte{}}
}

func (c *MemCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *MemCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *MemCache) Delete(ctx context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
}

func (c *MemCache) DeletePattern(ctx context.Context, pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
}

func (c *MemCache) Has(key string) bool {
	_, ok := c.Get(context.Background(), key)
	return ok
}

// MemStorage keeps uploaded objects in memory.
type MemStorage struct {
	mu      sync.Mutex
	seq     int
	Objects map[string][]byte
	FailAll bool
}

func NewMemStorage() *MemStorage {
	return &MemStorage{Objects: map[string][]byte{}}
}

func (s *MemStorage) Save(ctx context.Context, r io.Reader, folder, filename string) (libs.StoredObject, error) {
	if s.FailAll {
		return libs.StoredObject{}, errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return libs.StoredObject{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := folder + "/" + strconv.Itoa(s.seq) + "_" + filename
	s.Objects[key] = data
	return libs.StoredObject{URL: "/uploads/" + key, Key: key}, nil
}

func (s *MemStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	return nil
}

func (s *MemStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// MemQueue records published payloads and hands them back from Pop.
type MemQueue struct {
	mu       sync.Mutex
	messages [][]byte
	Err      error
}

func (q *MemQueue) Publish(ctx context.Context, payload []byte) error {
	if q.Err != nil {
		return q.Err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, payload)
	return nil
}

// Pop returns (nil, nil) when empty, after waiting for ctx or timeout.
func (q *MemQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	q.mu.Lock()
	if len(q.messages) > 0 {
		msg := q.messages[0]
		q.messages = q.messages[1:]
		q.mu.Unlock()
		return msg, nil
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, nil
	}
}

func (q *MemQueue) Published() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([][]byte(nil), q.messages...)
}

// MemMailer records sent emails. Addresses listed in Reject fail with libs.ErrBadHeader.
type MemMailer struct {
	mu     sync.Mutex
	Sent   []libs.Email
	Reject map[string]bool
	Err    error
}

func (m *MemMailer) Send(e libs.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range e.To {
		if m.Reject[to] {
			return errors.Join(libs.ErrBadHeader, errors.New(to))
		}
	}
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

func (m *MemMailer) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// StubDelay answers Delay with Body and counts calls.
type StubDelay struct {
	mu    sync.Mutex
	Body  []byte
	Calls int
	Err   error
}

func (d *StubDelay) Delay(ctx context.Context, seconds int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Body, nil
}

// ---- fixtures

func SeedCollection(tb testing.TB, store *MemStore, title string) *models.Collection {
	tb.Helper()
	c := &models.Collection{Title: title}
	if err := store.Collections().Create(context.Background(), c); err != nil {
		tb.Fatalf("seed collection: %v", err)
	}
	return c
}

func SeedProduct(tb testing.TB, store *MemStore, collectionID int, title, price string) *models.Product {
	tb.Helper()
	p := &models.Product{
		Title:        title,
		Slug:         utils.Slugify(title),
		UnitPrice:    decimal.RequireFromString(price),
		Inventory:    10,
		CollectionID: collectionID,
	}
	if err := store.Products().Create(context.Background(), p); err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedUser(tb testing.TB, store *MemStore, email, role string) *models.User {
	tb.Helper()
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &models.User{Email: strings.ToLower(email), Password: hash, FullName: "Test User", Role: role}
	if err := store.Users().Create(context.Background(), u); err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}
