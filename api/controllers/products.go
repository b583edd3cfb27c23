package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/estorelabs/storefront/api/responses"
	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/mockcatalog"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
)

// ListProducts returns every product, honoring the category query parameter
// as an exact filter.
func ListProducts(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		responses.WriteJSON(w, http.StatusOK, repo.ListProducts(category))
	}
}

func GetProduct(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := repo.GetProduct(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, product)
	}
}

func CreateProduct(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeProduct(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, repo.CreateProduct(payload))
	}
}

func UpdateProduct(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload, err := decodeProduct(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := repo.UpdateProduct(id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, product)
	}
}

func DeleteProduct(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.DeleteProduct(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{})
	}
}

func decodeProduct(r *http.Request) (catalog.Product, error) {
	var payload catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return catalog.Product{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed product body")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if payload.Price < 0 {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}
	return payload, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}
