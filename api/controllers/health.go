package controllers

import (
	"net/http"

	"github.com/estorelabs/storefront/api/responses"
	"github.com/estorelabs/storefront/pkg/config"
)

func Healthz(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
