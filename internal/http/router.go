package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	businessHandler "github.com/kpraj/billbook/internal/http/business"
	catalogHandler "github.com/kpraj/billbook/internal/http/catalog"
	invoiceHandler "github.com/kpraj/billbook/internal/http/invoice"
	"github.com/kpraj/billbook/internal/identity"
)

func New(
	verifier *identity.Verifier,
	catalogV1 *catalogHandler.Handler,
	businessV1 *businessHandler.Handler,
	invoicesV1 *invoiceHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	router.Use(verifier.Middleware)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", catalogV1.Routes)

		r.Route("/business", businessV1.Routes)

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})
	})

	return router
}
