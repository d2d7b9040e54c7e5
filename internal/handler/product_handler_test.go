package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vancr/backend/internal/model"
	"github.com/vancr/backend/internal/repository"
	"github.com/vancr/backend/internal/service"
)

// ---------------------------------------------------------------------------
// mockProductService: scriptable ProductService for unit tests
// ---------------------------------------------------------------------------

type mockProductService struct {
	addFunc    func(ctx context.Context, in service.NewProductInput) (*model.Product, error)
	listFunc   func(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	updateFunc func(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockProductService) Add(ctx context.Context, in service.NewProductInput) (*model.Product, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, in)
	}
	return &model.Product{ID: "p1", Price: in.Price, ImageURL: "https://cdn.example.com/products/p1." + in.ImageExt}, nil
}

func (m *mockProductService) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockProductService) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, upd)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// productForm builds a multipart form with the given fields and an image part.
func productForm(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("itemImage", filename)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		_, _ = io.WriteString(fw, "fake-image-bytes")
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func postProduct(t *testing.T, h *ProductHandler, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := productForm(t, filename, fields)
	req := httptest.NewRequest("POST", "/api/add-product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Add(rec, req)
	return rec
}

var validFields = map[string]string{
	"price":      "499",
	"categories": `["toys"]`,
	"ageGroups":  `["3-5"]`,
	"seasons":    `["summer"]`,
	"occasions":  `[]`,
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestProductAdd_OK(t *testing.T) {
	var got service.NewProductInput
	h := NewProductHandler(&mockProductService{
		addFunc: func(ctx context.Context, in service.NewProductInput) (*model.Product, error) {
			got = in
			return &model.Product{ID: "p1", Price: in.Price, ImageURL: "https://cdn.example.com/products/p1.png"}, nil
		},
	})

	rec := postProduct(t, h, "bear.PNG", validFields)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp addResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.ItemID != "p1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if got.Price != 499 {
		t.Errorf("price = %v, want 499", got.Price)
	}
	if got.ImageExt != "png" {
		t.Errorf("extension not normalized: %q", got.ImageExt)
	}
	if got.ContentType != "image/png" {
		t.Errorf("content type = %q", got.ContentType)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "toys" {
		t.Errorf("categories = %v", got.Categories)
	}
}

func TestProductAdd_NoImage(t *testing.T) {
	h := NewProductHandler(&mockProductService{})

	rec := postProduct(t, h, "", validFields)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestProductAdd_BadExtension(t *testing.T) {
	h := NewProductHandler(&mockProductService{
		addFunc: func(ctx context.Context, in service.NewProductInput) (*model.Product, error) {
			t.Error("service must not run for a rejected file type")
			return nil, nil
		},
	})

	rec := postProduct(t, h, "malware.exe", validFields)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestProductAdd_PriceValidation(t *testing.T) {
	cases := []struct {
		name  string
		price string
	}{
		{"missing", ""},
		{"negative", "-5"},
		{"garbage", "free"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := map[string]string{
				"price":      tc.price,
				"categories": `["toys"]`,
				"ageGroups":  `["3-5"]`,
			}
			h := NewProductHandler(&mockProductService{})
			rec := postProduct(t, h, "a.png", fields)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestProductAdd_RequiresCategoryAndAgeGroup(t *testing.T) {
	fields := map[string]string{
		"price":      "10",
		"categories": `[]`,
		"ageGroups":  `["3-5"]`,
	}
	h := NewProductHandler(&mockProductService{})
	rec := postProduct(t, h, "a.png", fields)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty categories, got %d", rec.Code)
	}
}

func TestProductAdd_MalformedTagJSON(t *testing.T) {
	fields := map[string]string{
		"price":      "10",
		"categories": `[not json`,
		"ageGroups":  `["3-5"]`,
	}
	h := NewProductHandler(&mockProductService{})
	rec := postProduct(t, h, "a.png", fields)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductList_PassesFilters(t *testing.T) {
	var got model.ProductFilter
	h := NewProductHandler(&mockProductService{
		listFunc: func(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
			got = filter
			return []*model.Product{{ID: "p1"}}, nil
		},
	})

	req := httptest.NewRequest("GET", "/api/products?category=toys&ageGroup=3-5&season=summer&occasion=birthday", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := model.ProductFilter{Category: "toys", AgeGroup: "3-5", Season: "summer", Occasion: "birthday"}
	if got != want {
		t.Errorf("filter = %+v, want %+v", got, want)
	}
}

func TestProductList_EmptyIsArray(t *testing.T) {
	h := NewProductHandler(&mockProductService{})

	req := httptest.NewRequest("GET", "/api/products", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestProductUpdate_NotFound(t *testing.T) {
	h := NewProductHandler(&mockProductService{})

	req := httptest.NewRequest("PUT", "/api/products/ghost", strings.NewReader(`{"price": 20}`))
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestProductUpdate_NegativePrice(t *testing.T) {
	h := NewProductHandler(&mockProductService{})

	req := httptest.NewRequest("PUT", "/api/products/p1", strings.NewReader(`{"price": -1}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestProductUpdate_OK(t *testing.T) {
	h := NewProductHandler(&mockProductService{
		updateFunc: func(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
			if upd.Price == nil || *upd.Price != 20 {
				t.Errorf("expected price update, got %+v", upd)
			}
			if upd.Categories != nil {
				t.Errorf("unset fields must stay nil, got %v", *upd.Categories)
			}
			return &model.Product{ID: id, Price: *upd.Price}, nil
		},
	})

	req := httptest.NewRequest("PUT", "/api/products/p1", strings.NewReader(`{"price": 20}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProductDelete_OK(t *testing.T) {
	deleted := ""
	h := NewProductHandler(&mockProductService{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	req := httptest.NewRequest("DELETE", "/api/products/p1", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "p1" {
		t.Errorf("deleted id = %q, want p1", deleted)
	}
}

func TestProductDelete_NotFound(t *testing.T) {
	h := NewProductHandler(&mockProductService{
		deleteFunc: func(ctx context.Context, id string) error {
			return repository.ErrNotFound
		},
	})

	req := httptest.NewRequest("DELETE", "/api/products/ghost", nil)
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
