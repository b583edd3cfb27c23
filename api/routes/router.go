// Package routes wires the mock catalog server's HTTP surface.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estorelabs/storefront/api/controllers"
	"github.com/estorelabs/storefront/api/middleware"
	"github.com/estorelabs/storefront/internal/mockcatalog"
	"github.com/estorelabs/storefront/pkg/config"
	"github.com/estorelabs/storefront/pkg/logger"
)

func NewRouter(cfg *config.Config, logg *logger.Logger, repo *mockcatalog.Repo) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.Healthz(cfg))

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(repo, logg))
		r.Post("/", controllers.CreateProduct(repo, logg))
		r.Get("/{id}", controllers.GetProduct(repo, logg))
		r.Put("/{id}", controllers.UpdateProduct(repo, logg))
		r.Delete("/{id}", controllers.DeleteProduct(repo, logg))
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(repo, logg))
		r.Post("/", controllers.CreateCategory(repo, logg))
		r.Put("/{id}", controllers.UpdateCategory(repo, logg))
		r.Delete("/{id}", controllers.DeleteCategory(repo, logg))
	})

	r.Post("/orders", controllers.PlaceOrder(repo, logg))

	return r
}
