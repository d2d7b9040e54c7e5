package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vancr/backend/internal/model"
	"github.com/vancr/backend/internal/repository"
	"github.com/vancr/backend/internal/service"
)

// maxUploadBytes bounds the product image multipart form.
const maxUploadBytes = 10 << 20

// allowedImageExts maps accepted upload extensions to their content types.
var allowedImageExts = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ProductHandler handles catalog listing and admin catalog management.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a ProductHandler with the given service.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// listResponse is the JSON response for GET /api/products.
type listResponse struct {
	OK       bool             `json:"ok"`
	Products []*model.Product `json:"products"`
}

// List handles GET /api/products.
// Supports query params: category, ageGroup, season, occasion.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Category: q.Get("category"),
		AgeGroup: q.Get("ageGroup"),
		Season:   q.Get("season"),
		Occasion: q.Get("occasion"),
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		slog.Error("product listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	// Return [] not null for empty lists
	if products == nil {
		products = []*model.Product{}
	}
	writeJSON(w, http.StatusOK, listResponse{OK: true, Products: products})
}

// addResponse is the JSON response for POST /api/add-product.
type addResponse struct {
	OK       bool    `json:"ok"`
	ItemID   string  `json:"itemId"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// Add handles POST /api/add-product (admin only, multipart form).
// Required parts: itemImage (file), price, categories, ageGroups.
// categories/ageGroups/seasons/occasions are JSON-encoded string arrays.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("itemImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	ext, contentType, err := imageType(header)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	priceRaw := strings.TrimSpace(r.FormValue("price"))
	if priceRaw == "" {
		writeError(w, http.StatusBadRequest, "Price is required")
		return
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price format")
		return
	}
	if price < 0 {
		writeError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	categories, err := tagList(r.FormValue("categories"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid categories")
		return
	}
	ageGroups, err := tagList(r.FormValue("ageGroups"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ageGroups")
		return
	}
	seasons, err := tagList(r.FormValue("seasons"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid seasons")
		return
	}
	occasions, err := tagList(r.FormValue("occasions"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid occasions")
		return
	}

	if len(categories) == 0 || len(ageGroups) == 0 {
		writeError(w, http.StatusBadRequest, "At least one category and age group required")
		return
	}

	p, err := h.productService.Add(r.Context(), service.NewProductInput{
		Price:       price,
		Categories:  categories,
		AgeGroups:   ageGroups,
		Seasons:     seasons,
		Occasions:   occasions,
		Image:       file,
		ImageExt:    ext,
		ContentType: contentType,
	})
	if err != nil {
		slog.Error("product creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add product")
		return
	}

	writeJSON(w, http.StatusOK, addResponse{
		OK:       true,
		ItemID:   p.ID,
		Price:    p.Price,
		ImageURL: p.ImageURL,
	})
}

// Update handles PUT /api/products/{id} (admin only).
// Accepts a JSON body with any of price/categories/ageGroups/seasons/occasions.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd model.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if upd.Price != nil && *upd.Price < 0 {
		writeError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	p, err := h.productService.Update(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("product update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Product updated successfully",
		"product": p,
	})
}

// Delete handles DELETE /api/products/{id} (admin only).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("product deletion failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Product " + id + " deleted",
	})
}

// imageType validates the upload's extension against the allow list.
func imageType(header *multipart.FileHeader) (ext, contentType string, err error) {
	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	contentType, ok := allowedImageExts[ext]
	if header.Filename == "" || !ok {
		return "", "", errors.New("Invalid file type. Allowed: PNG, JPG, JPEG, GIF, WEBP")
	}
	return ext, contentType, nil
}

// tagList decodes a JSON string array form field; empty means no tags.
func tagList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
