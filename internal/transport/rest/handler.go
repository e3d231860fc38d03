// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Error messages returned to API clients.
const (
	msgFetchFailed      = "Failed to fetch products from the database"
	msgInvalidInput     = "Invalid input data"
	msgProductExists    = "Product already exists"
	msgAddFailed        = "Failed to add product to the database"
	msgInvalidInventory = "Invalid inventory value"
	msgProductNotFound  = "Product not found"
	msgUpdateFailed     = "Failed to update product in the database"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/addprod", h.Add)
		r.Put("/update/{productId}", h.UpdateInventory)
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Add handles the creation of a new product.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if err := web.DecodeJSON(w, r, &productCreateDto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, msgInvalidInput)
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to add product", "name", productCreateDto.Name)
	if !h.validBody(w, r, productCreateDto) {
		return
	}

	newProduct, err := h.service.Add(r.Context(), productCreateDto)
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrProductExists):
			h.logger.WarnContext(r.Context(), "Product already exists", "name", productCreateDto.Name)
			web.RespondError(w, h.logger, http.StatusConflict, msgProductExists)
		case errors.Is(err, perrors.ErrInvalidInput):
			web.RespondError(w, h.logger, http.StatusBadRequest, msgInvalidInput)
		default:
			h.logger.ErrorContext(r.Context(), "Error adding product", "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError, msgAddFailed)
		}
		return
	}
	h.logger.InfoContext(r.Context(), "Product added successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
}

// UpdateInventory overwrites the inventory of the product named by the productId path parameter.
func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	var inventoryUpdateDto service.InventoryUpdateDto
	if err := web.DecodeJSON(w, r, &inventoryUpdateDto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, msgInvalidInventory)
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update inventory", "ID", id)
	if !h.validBody(w, r, inventoryUpdateDto) {
		return
	}

	updated, err := h.service.UpdateInventory(r.Context(), id, *inventoryUpdateDto.Inventory)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, msgProductNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating inventory", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, msgUpdateFailed)
		return
	}
	h.logger.InfoContext(r.Context(), "Inventory updated successfully", "ID", updated.ID, "inventory", updated.Inventory)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// HealthCheck reports 200 when the store answers a ping and 503 otherwise.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// validBody runs struct validation and writes the 400 response itself when it fails.
func (h *Handler) validBody(w http.ResponseWriter, r *http.Request, body any) bool {
	err := h.validate.Struct(body)
	if err == nil {
		return true
	}
	if fieldErrors, ok := web.ValidationErrors(err); ok {
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
		web.RespondValidationErrors(w, h.logger, fieldErrors)
		return false
	}
	h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, h.logger, http.StatusBadRequest, msgInvalidInput)
	return false
}
