package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/estorelabs/storefront/api/responses"
	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/mockcatalog"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
)

// PlaceOrder records a checkout submission and answers with a confirmation.
func PlaceOrder(repo *mockcatalog.Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var order catalog.Order
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed order body"))
			return
		}
		if len(order.Items) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order has no items"))
			return
		}

		confirmation := repo.RecordOrder(order)
		if logg != nil {
			ctx := logg.WithField(r.Context(), "order", confirmation.ID)
			logg.Info(ctx, "order.recorded")
		}
		responses.WriteJSON(w, http.StatusCreated, confirmation)
	}
}
