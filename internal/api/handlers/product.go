package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/api/middleware"
	apperrors "github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/hivetax/hivetax-platform/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
	}
}

func (h *ProductHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		var req models.CreateProductRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product created",
			slog.String("productId", product.ID.String()),
			slog.Float64("vatRate", product.VATRate))

		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid product ID"))
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid product ID"))
			return
		}

		var req models.UpdateProductRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), claims.UserID, id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		page, size := parsePagination(r)

		products, total, err := h.productService.ListProducts(r.Context(), claims.UserID, page, size)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(products, total, page, size))
	}
}
