package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"storefront/controllers"
	"storefront/libs"
	"storefront/models"
	"storefront/services"
	"storefront/testutil"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const testSecret = "routes-test-secret"

type testEnv struct {
	router   *gin.Engine
	store    *testutil.MemStore
	queue    *testutil.MemQueue
	storage  *testutil.MemStorage
	delay    *testutil.StubDelay
	staff    string
	customer string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMemStore()
	cache := testutil.NewMemCache()
	storage := testutil.NewMemStorage()
	queue := &testutil.MemQueue{}
	delay := &testutil.StubDelay{Body: []byte(`{"url": "https://httpbin.org/delay/2"}`)}
	log := libs.NewNopLogger()

	collectionSvc := services.NewCollectionService(store.Collections(), cache, time.Minute, log)
	productSvc := services.NewProductService(store.Products(), store.Collections(), storage, cache, time.Minute, log)
	imageSvc := services.NewImageService(store.Products(), storage, cache, 1, log)

	router := gin.New()
	SetupRoutes(router, Controllers{
		Auth:          controllers.NewAuthController(services.NewAuthService(store.Users(), testSecret, time.Hour), log),
		Collections:   controllers.NewCollectionController(collectionSvc, log),
		Products:      controllers.NewProductController(productSvc, imageSvc, decimal.RequireFromString("1.1"), log),
		Carts:         controllers.NewCartController(services.NewCartService(store.Carts(), store.Products(), log), log),
		Notifications: controllers.NewNotificationController(services.NewNotificationService(queue), log),
		Playground: controllers.NewPlaygroundController(services.NewPlaygroundService(&testutil.MemMailer{}, delay, cache,
			services.PlaygroundConfig{Recipient: "john@example.com", CacheTTL: time.Minute}, log), log),
	}, Options{JWTSecret: testSecret})

	return &testEnv{
		router:   router,
		store:    store,
		queue:    queue,
		storage:  storage,
		delay:    delay,
		staff:    token(t, 1, models.RoleAdmin),
		customer: token(t, 2, models.RoleCustomer),
	}
}

func token(t *testing.T, id int, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(id, role+"@example.com", role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func (e *testEnv) do(method, path, body, tok string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  []models.FieldError    `json:"errors"`
	Links   models.PaginationLinks `json:"links"`
	Meta    models.PaginationMeta  `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
}

func TestCollectionEndpoints(t *testing.T) {
	e := newEnv(t)

	t.Run("anonymous create is 401 even with an invalid payload", func(t *testing.T) {
		expect(t, e.do(http.MethodPost, "/store/collections", `{}`, ""), http.StatusUnauthorized)
		expect(t, e.do(http.MethodPost, "/store/collections", `{"title": "a"}`, ""), http.StatusUnauthorized)
	})
	t.Run("customer create is 403", func(t *testing.T) {
		expect(t, e.do(http.MethodPost, "/store/collections", `{}`, e.customer), http.StatusForbidden)
		expect(t, e.do(http.MethodPost, "/store/collections", `{"title": "a"}`, e.customer), http.StatusForbidden)
	})
	t.Run("staff invalid payload is 400", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/store/collections", `{"title": ""}`, e.staff)
		expect(t, rec, http.StatusBadRequest)
		env := decode(t, rec)
		if env.Success || len(env.Errors) != 1 || env.Errors[0].Field != "title" {
			t.Fatalf("envelope = %+v", env)
		}
	})

	rec := e.do(http.MethodPost, "/store/collections", `{"title": "a"}`, e.staff)
	expect(t, rec, http.StatusCreated)
	var created models.CollectionResponse
	if err := json.Unmarshal(decode(t, rec).Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID <= 0 || created.Title != "a" || created.ProductsCount != 0 {
		t.Fatalf("created = %+v", created)
	}
	path := "/store/collections/" + strconv.Itoa(created.ID)

	rec = e.do(http.MethodGet, path, "", "")
	expect(t, rec, http.StatusOK)
	var got models.CollectionResponse
	_ = json.Unmarshal(decode(t, rec).Data, &got)
	if got != created {
		t.Fatalf("retrieved %+v, want %+v", got, created)
	}

	expect(t, e.do(http.MethodPut, path, `{"title": "a"}`, e.staff), http.StatusOK)
	expect(t, e.do(http.MethodPatch, path, `{}`, e.staff), http.StatusOK)
	expect(t, e.do(http.MethodPut, path, `{"title": "b"}`, e.customer), http.StatusForbidden)
	expect(t, e.do(http.MethodDelete, path, "", ""), http.StatusUnauthorized)
	expect(t, e.do(http.MethodDelete, path, "", e.staff), http.StatusNoContent)
	expect(t, e.do(http.MethodGet, path, "", ""), http.StatusNotFound)
	expect(t, e.do(http.MethodGet, "/store/collections/abc", "", ""), http.StatusNotFound)
}

func TestCollectionWithProductsCannotBeDeleted(t *testing.T) {
	e := newEnv(t)
	col := testutil.SeedCollection(t, e.store, "Grocery")
	testutil.SeedProduct(t, e.store, col.ID, "Bread", "4.00")
	path := "/store/collections/" + strconv.Itoa(col.ID)

	for i := 0; i < 2; i++ {
		rec := e.do(http.MethodDelete, path, "", e.staff)
		expect(t, rec, http.StatusConflict)
	}

	rec := e.do(http.MethodGet, "/store/collections", "", "")
	expect(t, rec, http.StatusOK)
	var list []models.CollectionResponse
	_ = json.Unmarshal(decode(t, rec).Data, &list)
	if len(list) != 1 || list[0].ProductsCount != 1 {
		t.Fatalf("list = %+v", list)
	}
}

func TestProductEndpoints(t *testing.T) {
	e := newEnv(t)
	col := testutil.SeedCollection(t, e.store, "Grocery")
	body := `{"title": "Bread", "slug": "bread", "unit_price": 10, "inventory": 5, "collection": ` + strconv.Itoa(col.ID) + `}`

	expect(t, e.do(http.MethodPost, "/store/products", body, ""), http.StatusUnauthorized)
	expect(t, e.do(http.MethodPost, "/store/products", body, e.customer), http.StatusForbidden)

	rec := e.do(http.MethodPost, "/store/products", `{"unit_price": -1, "inventory": -1}`, e.staff)
	expect(t, rec, http.StatusBadRequest)
	var fields []string
	for _, fe := range decode(t, rec).Errors {
		fields = append(fields, fe.Field)
	}
	if strings.Join(fields, ",") != "title,slug,unit_price,inventory,collection" {
		t.Fatalf("fields = %v", fields)
	}

	rec = e.do(http.MethodPost, "/store/products", body, e.staff)
	expect(t, rec, http.StatusCreated)
	var p models.ProductResponse
	if err := json.Unmarshal(decode(t, rec).Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.ID <= 0 || p.UnitPrice != "10.00" || p.PriceWithTax != "11.00" || p.Images == nil {
		t.Fatalf("product = %+v", p)
	}

	rec = e.do(http.MethodGet, "/store/products?search=bre&limit=1", "", "")
	expect(t, rec, http.StatusOK)
	env := decode(t, rec)
	if env.Meta.TotalItems != 1 || !strings.Contains(env.Links.Self, "search=bre") {
		t.Fatalf("list envelope = %+v", env)
	}

	expect(t, e.do(http.MethodGet, "/store/products?ordering=bogus", "", ""), http.StatusBadRequest)
	expect(t, e.do(http.MethodGet, "/store/products?collection_id=x", "", ""), http.StatusBadRequest)

	path := "/store/products/" + strconv.Itoa(p.ID)
	rec = e.do(http.MethodPatch, path, `{"unit_price": "12.50"}`, e.staff)
	expect(t, rec, http.StatusOK)
	_ = json.Unmarshal(decode(t, rec).Data, &p)
	if p.UnitPrice != "12.50" || p.PriceWithTax != "13.75" {
		t.Fatalf("patched product = %+v", p)
	}
	expect(t, e.do(http.MethodPut, path, `{"inventory": 1}`, e.staff), http.StatusBadRequest)
	expect(t, e.do(http.MethodPost, "/store/products", `[1, 2]`, e.staff), http.StatusBadRequest)

	expect(t, e.do(http.MethodDelete, path, "", e.staff), http.StatusNoContent)
	expect(t, e.do(http.MethodGet, path, "", ""), http.StatusNotFound)
	expect(t, e.do(http.MethodGet, "/store/products/999", "", ""), http.StatusNotFound)
}

func TestOutOfRangeIntegersAreClientErrors(t *testing.T) {
	e := newEnv(t)
	col := testutil.SeedCollection(t, e.store, "Grocery")
	p := testutil.SeedProduct(t, e.store, col.ID, "Bread", "4.00")

	expect(t, e.do(http.MethodGet, "/store/products/99999999999", "", ""), http.StatusNotFound)
	expect(t, e.do(http.MethodGet, "/store/collections/99999999999", "", ""), http.StatusNotFound)
	expect(t, e.do(http.MethodGet, "/store/products?page=4611686018427387904", "", ""), http.StatusBadRequest)
	expect(t, e.do(http.MethodGet, "/store/products?collection_id=99999999999", "", ""), http.StatusBadRequest)

	rec := e.do(http.MethodPost, "/store/products",
		`{"title": "Big", "unit_price": 1, "inventory": 3000000000, "collection": `+strconv.Itoa(col.ID)+`}`, e.staff)
	expect(t, rec, http.StatusBadRequest)
	if errs := decode(t, rec).Errors; len(errs) != 1 || errs[0].Field != "inventory" {
		t.Fatalf("errors = %+v", errs)
	}

	rec = e.do(http.MethodPost, "/store/carts", "", "")
	var cart models.CartResponse
	_ = json.Unmarshal(decode(t, rec).Data, &cart)
	items := "/store/carts/" + cart.ID.String() + "/items"
	full := `{"product_id": ` + strconv.Itoa(p.ID) + `, "quantity": 2147483647}`

	expect(t, e.do(http.MethodPost, items, `{"product_id": `+strconv.Itoa(p.ID)+`, "quantity": 2147483648}`, ""), http.StatusBadRequest)
	expect(t, e.do(http.MethodPost, items, full, ""), http.StatusCreated)
	rec = e.do(http.MethodPost, items, full, "")
	expect(t, rec, http.StatusBadRequest)
	if errs := decode(t, rec).Errors; len(errs) != 1 || errs[0].Field != "quantity" {
		t.Fatalf("errors = %+v", errs)
	}
	expect(t, e.do(http.MethodGet, items+"/99999999999", "", ""), http.StatusNotFound)
}

func uploadRequest(t *testing.T, path, filename string, size int, tok string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("x"), size)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req
}

func TestProductImageEndpoints(t *testing.T) {
	e := newEnv(t)
	col := testutil.SeedCollection(t, e.store, "Grocery")
	p := testutil.SeedProduct(t, e.store, col.ID, "Bread", "4.00")
	path := "/store/products/" + strconv.Itoa(p.ID) + "/images"

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		return rec
	}

	expect(t, serve(uploadRequest(t, path, "a.png", 10, "")), http.StatusUnauthorized)

	rec := serve(uploadRequest(t, path, "big.png", 2048, e.staff))
	expect(t, rec, http.StatusBadRequest)
	if errs := decode(t, rec).Errors; len(errs) != 1 || errs[0].Message != "Files cannot be larger than 1KB!" {
		t.Fatalf("errors = %+v", errs)
	}

	rec = serve(uploadRequest(t, path, "a.png", 100, e.staff))
	expect(t, rec, http.StatusCreated)
	var img models.ProductImageResponse
	_ = json.Unmarshal(decode(t, rec).Data, &img)

	rec = e.do(http.MethodGet, "/store/products/"+strconv.Itoa(p.ID), "", "")
	var product models.ProductResponse
	_ = json.Unmarshal(decode(t, rec).Data, &product)
	if len(product.Images) != 1 || product.Images[0].ID != img.ID {
		t.Fatalf("product images = %+v", product.Images)
	}

	expect(t, e.do(http.MethodDelete, path+"/"+strconv.Itoa(img.ID), "", e.customer), http.StatusForbidden)
	expect(t, e.do(http.MethodDelete, path+"/"+strconv.Itoa(img.ID), "", e.staff), http.StatusNoContent)
	expect(t, e.do(http.MethodDelete, path+"/"+strconv.Itoa(img.ID), "", e.staff), http.StatusNotFound)
	if e.storage.Len() != 0 {
		t.Fatalf("storage still holds %d objects", e.storage.Len())
	}
}

func TestCartEndpoints(t *testing.T) {
	e := newEnv(t)
	col := testutil.SeedCollection(t, e.store, "Grocery")
	p := testutil.SeedProduct(t, e.store, col.ID, "Bread", "4.00")

	rec := e.do(http.MethodPost, "/store/carts", "", "")
	expect(t, rec, http.StatusCreated)
	var cart models.CartResponse
	_ = json.Unmarshal(decode(t, rec).Data, &cart)
	base := "/store/carts/" + cart.ID.String()

	item := `{"product_id": ` + strconv.Itoa(p.ID) + `, "quantity": 2}`
	expect(t, e.do(http.MethodPost, base+"/items", item, ""), http.StatusCreated)
	rec = e.do(http.MethodPost, base+"/items", item, "")
	expect(t, rec, http.StatusOK)
	var line models.CartItemResponse
	_ = json.Unmarshal(decode(t, rec).Data, &line)
	if line.Quantity != 4 || line.TotalPrice != "16.00" || line.Product.UnitPrice != "4.00" {
		t.Fatalf("line = %+v", line)
	}

	rec = e.do(http.MethodPost, base+"/items", `{"quantity": 0}`, "")
	expect(t, rec, http.StatusBadRequest)
	if errs := decode(t, rec).Errors; len(errs) != 2 || errs[0].Field != "product_id" || errs[1].Field != "quantity" {
		t.Fatalf("errors = %+v", errs)
	}
	expect(t, e.do(http.MethodPost, base+"/items", `{"product_id": 999, "quantity": 1}`, ""), http.StatusBadRequest)

	rec = e.do(http.MethodGet, base, "", "")
	expect(t, rec, http.StatusOK)
	_ = json.Unmarshal(decode(t, rec).Data, &cart)
	if len(cart.Items) != 1 || cart.TotalPrice != "16.00" {
		t.Fatalf("cart = %+v", cart)
	}

	itemPath := base + "/items/" + strconv.Itoa(line.ID)
	expect(t, e.do(http.MethodGet, itemPath, "", ""), http.StatusOK)
	rec = e.do(http.MethodPatch, itemPath, `{"quantity": 1}`, "")
	expect(t, rec, http.StatusOK)
	expect(t, e.do(http.MethodPatch, itemPath, `{"quantity": 0}`, ""), http.StatusBadRequest)
	expect(t, e.do(http.MethodDelete, itemPath, "", ""), http.StatusNoContent)
	expect(t, e.do(http.MethodDelete, itemPath, "", ""), http.StatusNotFound)

	expect(t, e.do(http.MethodGet, "/store/carts/not-a-uuid", "", ""), http.StatusNotFound)
	expect(t, e.do(http.MethodDelete, base, "", ""), http.StatusNoContent)
	expect(t, e.do(http.MethodGet, base, "", ""), http.StatusNotFound)
}

func TestNotificationEndpoint(t *testing.T) {
	e := newEnv(t)
	body := `{"subject": "News", "message": "Sale starts today"}`

	expect(t, e.do(http.MethodPost, "/store/notifications/customers", body, ""), http.StatusUnauthorized)
	expect(t, e.do(http.MethodPost, "/store/notifications/customers", body, e.customer), http.StatusForbidden)
	expect(t, e.do(http.MethodPost, "/store/notifications/customers", `{}`, e.staff), http.StatusBadRequest)
	expect(t, e.do(http.MethodPost, "/store/notifications/customers", body, e.staff), http.StatusAccepted)

	if n := len(e.queue.Published()); n != 1 {
		t.Fatalf("published %d tasks, want 1", n)
	}
}

func TestAuthEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/auth/register", `{"email": "bad", "password": "1"}`, "")
	expect(t, rec, http.StatusBadRequest)
	fields := map[string]bool{}
	for _, fe := range decode(t, rec).Errors {
		fields[fe.Field] = true
	}
	if !fields["email"] || !fields["password"] || !fields["full_name"] {
		t.Fatalf("fields = %v", fields)
	}

	register := `{"email": "jane@example.com", "password": "secret123", "full_name": "Jane Doe"}`
	expect(t, e.do(http.MethodPost, "/auth/register", register, ""), http.StatusCreated)
	expect(t, e.do(http.MethodPost, "/auth/register", register, ""), http.StatusConflict)

	rec = e.do(http.MethodPost, "/auth/login", `{"email": "jane@example.com", "password": "secret123"}`, "")
	expect(t, rec, http.StatusOK)
	var login models.LoginResponse
	_ = json.Unmarshal(decode(t, rec).Data, &login)

	expect(t, e.do(http.MethodPost, "/auth/login", `{"email": "jane@example.com", "password": "nope"}`, ""), http.StatusUnauthorized)
	expect(t, e.do(http.MethodGet, "/auth/profile", "", ""), http.StatusUnauthorized)
	expect(t, e.do(http.MethodGet, "/auth/profile", "", login.Token), http.StatusOK)

	// a customer token cannot write the catalog
	expect(t, e.do(http.MethodPost, "/store/collections", `{"title": "x"}`, login.Token), http.StatusForbidden)
}

func TestPlaygroundEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/playground/hello", "", "")
	expect(t, rec, http.StatusOK)
	if msg := decode(t, rec).Message; msg != "Hello Mosh" {
		t.Fatalf("message = %q", msg)
	}

	first := e.do(http.MethodGet, "/playground/slow-endpoint", "", "")
	expect(t, first, http.StatusOK)
	second := e.do(http.MethodGet, "/playground/slow-endpoint", "", "")
	expect(t, second, http.StatusOK)
	if first.Header().Get("X-Cache") != "MISS" || second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("cache headers = %q, %q", first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
	}
	if e.delay.Calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", e.delay.Calls)
	}

	expect(t, e.do(http.MethodGet, "/health", "", ""), http.StatusOK)
}
