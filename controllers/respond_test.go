package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/libs"
	"storefront/models"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", models.NotFound("Product not found"), http.StatusNotFound, "Product not found"},
		{"validation", models.FieldInvalid("title", "This field is required."), http.StatusBadRequest, "Validation failed"},
		{"unauthorized", models.Unauthorized("no"), http.StatusUnauthorized, "no"},
		{"forbidden", models.Forbidden("no"), http.StatusForbidden, "no"},
		{"conflict", models.Conflict("in use"), http.StatusConflict, "in use"},
		{"wrapped", fmt.Errorf("ctx: %w", models.NotFound("Cart not found")), http.StatusNotFound, "Cart not found"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			respondError(c, libs.NewNopLogger(), tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Success || body.Message != tt.message {
				t.Fatalf("body = %+v", body)
			}
			if strings.Contains(rec.Body.String(), "connection reset") {
				t.Fatal("internal error detail leaked")
			}
		})
	}
}

func TestBindingErrorUsesJSONNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	UseJSONFieldNames()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"quantity": 0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req models.AddCartItemRequest
	err := bindingError(c.ShouldBindJSON(&req))

	var appErr *models.AppError
	if !errors.As(err, &appErr) || len(appErr.Fields) != 2 {
		t.Fatalf("err = %v", err)
	}
	if appErr.Fields[0].Field != "product_id" || appErr.Fields[1].Field != "quantity" {
		t.Fatalf("fields = %+v", appErr.Fields)
	}
	if appErr.Fields[1].Message != "This field is required." {
		t.Fatalf("message = %q", appErr.Fields[1].Message)
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]bool{
		"7":           true,
		"2147483647":  true,
		"0":           false,
		"-1":          false,
		"abc":         false,
		"2147483648":  false,
		"99999999999": false,
	}
	for raw, ok := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, err := pathID(c, "id", "Product")
		if ok != (err == nil) {
			t.Fatalf("pathID(%q) = %d, %v", raw, id, err)
		}
		if !ok && models.KindOf(err) != models.KindNotFound {
			t.Fatalf("pathID(%q) kind = %q", raw, models.KindOf(err))
		}
	}
}
