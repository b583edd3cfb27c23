package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/estorelabs/storefront/api/responses"
	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/mockcatalog"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
)

func ListCategories(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, repo.ListCategories())
	}
}

func CreateCategory(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeCategory(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, repo.CreateCategory(payload))
	}
}

func UpdateCategory(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload, err := decodeCategory(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := repo.UpdateCategory(id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, category)
	}
}

func DeleteCategory(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.DeleteCategory(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{})
	}
}

func decodeCategory(r *http.Request) (catalog.Category, error) {
	var payload catalog.Category
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return catalog.Category{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed category body")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return catalog.Category{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	return payload, nil
}
