package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/middleware"
	"github.com/iismail06/Skincare-tracker-SKYN/models"
	"github.com/iismail06/Skincare-tracker-SKYN/services"

	"gorm.io/gorm"
)

type ProductsController struct {
	db       *gorm.DB
	products *services.ProductService
}

func NewProductsController(db *gorm.DB) *ProductsController {
	return &ProductsController{db: db, products: services.NewProductService(db)}
}

type productRequest struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	ProductType string `json:"product_type"`
	Notes       string `json:"notes"`
	Ingredients string `json:"ingredients"`
	Description string `json:"description"`
	Rating      *int   `json:"rating,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"` // YYYY-MM-DD
	IsFavorite  bool   `json:"is_favorite"`
	SkinType    string `json:"skin_type"`
}

func (req *productRequest) validate() (map[string]string, *time.Time) {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "Product name is required"
	}
	if strings.TrimSpace(req.Brand) == "" {
		fields["brand"] = "Brand is required"
	}
	if !models.ValidProductType(req.ProductType) {
		fields["product_type"] = "Unknown product type"
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		fields["rating"] = "Rating must be between 1 and 5"
	}
	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			fields["expiry_date"] = "expiry_date must be YYYY-MM-DD"
		} else {
			expiry = &parsed
		}
	}
	return fields, expiry
}

// List returns the user's catalog, optionally filtered by ?type=, ?favorites=1
// and a ?q= substring over name and brand.
func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := c.db.Where("user_id = ?", userID)
	if t := r.URL.Query().Get("type"); t != "" {
		query = query.Where("product_type = ?", t)
	}
	if r.URL.Query().Get("favorites") == "1" {
		query = query.Where("is_favorite = ?", true)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", like, like)
	}

	var products []models.Product
	if err := query.Order("brand ASC, name ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to fetch products", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Create adds a product to the user's catalog.
func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, expiry := req.validate()
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	product := models.Product{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Brand:       strings.TrimSpace(req.Brand),
		ProductType: req.ProductType,
		Notes:       req.Notes,
		Ingredients: req.Ingredients,
		Description: req.Description,
		Rating:      req.Rating,
		ExpiryDate:  expiry,
		IsFavorite:  req.IsFavorite,
		SkinType:    req.SkinType,
	}
	if err := c.db.Create(&product).Error; err != nil {
		// The (user, name, brand) composite index rejects duplicates.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "You already have this product")
			return
		}
		logger.Error("Failed to create product", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	logger.Info("Product created", "user_id", userID, "product_id", product.ID)
	writeJSON(w, http.StatusCreated, product)
}

func (c *ProductsController) userProduct(w http.ResponseWriter, r *http.Request) (*models.Product, uint, bool) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, 0, false
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "product_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return nil, 0, false
	}

	var product models.Product
	err = c.db.Where("id = ? AND user_id = ?", id, userID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return nil, 0, false
	}
	if err != nil {
		logger.Error("Failed to fetch product", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return nil, 0, false
	}
	return &product, userID, true
}

// Get returns one product.
func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	product, _, ok := c.userProduct(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Update overwrites a product's fields.
func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	product, userID, ok := c.userProduct(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, expiry := req.validate()
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Brand = strings.TrimSpace(req.Brand)
	product.ProductType = req.ProductType
	product.Notes = req.Notes
	product.Ingredients = req.Ingredients
	product.Description = req.Description
	product.Rating = req.Rating
	product.ExpiryDate = expiry
	product.IsFavorite = req.IsFavorite
	product.SkinType = req.SkinType

	if err := c.db.Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "You already have this product")
			return
		}
		logger.Error("Failed to update product", "user_id", userID, "product_id", product.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete removes a product. Routine steps pointing at it survive with their
// product link cleared.
func (c *ProductsController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "product_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	err = c.products.Delete(userID, uint(id))
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		logger.Error("Failed to delete product", "user_id", userID, "product_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	logger.Info("Product deleted", "user_id", userID, "product_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite flips the favorite flag on one product.
func (c *ProductsController) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	product, userID, ok := c.userProduct(w, r)
	if !ok {
		return
	}

	product.IsFavorite = !product.IsFavorite
	if err := c.db.Save(product).Error; err != nil {
		logger.Error("Failed to toggle favorite", "user_id", userID, "product_id", product.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": product.ID, "is_favorite": product.IsFavorite})
}
