package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	productsvc "github.com/ubqurrotul/koperasi-backend/internal/products"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string  `json:"name" validate:"required,max=120"`
	Category      string  `json:"category" validate:"required,max=60"`
	SellPrice     string  `json:"sell_price" validate:"required"`
	CostPrice     string  `json:"cost_price" validate:"required"`
	Stock         int     `json:"stock" validate:"min=0"`
	SKU           *string `json:"sku,omitempty" validate:"omitempty,max=60"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	SupplierPhone *string `json:"supplier_phone,omitempty" validate:"omitempty,max=20"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (p createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	sellPrice, err := decimal.NewFromString(p.SellPrice)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sell_price")
	}
	costPrice, err := decimal.NewFromString(p.CostPrice)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost_price")
	}
	return productsvc.CreateProductInput{
		Name:          validators.SanitizeString(p.Name, 120),
		Category:      validators.SanitizeString(p.Category, 60),
		SellPrice:     sellPrice,
		CostPrice:     costPrice,
		Stock:         p.Stock,
		SKU:           p.SKU,
		Description:   p.Description,
		SupplierPhone: p.SupplierPhone,
		ImageURL:      p.ImageURL,
	}, nil
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Category      *string `json:"category,omitempty" validate:"omitempty,max=60"`
	SellPrice     *string `json:"sell_price,omitempty"`
	CostPrice     *string `json:"cost_price,omitempty"`
	SKU           *string `json:"sku,omitempty" validate:"omitempty,max=60"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	SupplierPhone *string `json:"supplier_phone,omitempty" validate:"omitempty,max=20"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (p updateProductRequest) toInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:          p.Name,
		Category:      p.Category,
		SKU:           p.SKU,
		Description:   p.Description,
		SupplierPhone: p.SupplierPhone,
		ImageURL:      p.ImageURL,
	}
	if p.SellPrice != nil {
		price, err := decimal.NewFromString(*p.SellPrice)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sell_price")
		}
		input.SellPrice = &price
	}
	if p.CostPrice != nil {
		price, err := decimal.NewFromString(*p.CostPrice)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost_price")
		}
		input.CostPrice = &price
	}
	return input, nil
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ProductAdjustStock applies a manual stock correction; the adjustment is
// refused when it would drive stock negative.
func ProductAdjustStock(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), productID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
