package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baansom-pos/api/internal/config"
	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/handler"
	mw "github.com/baansom-pos/api/internal/middleware"
	"github.com/baansom-pos/api/internal/service"
	"github.com/baansom-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication, outlet scoping, and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",      // terminal dev server
			"https://pos.baansom.co.th",  // production terminals
			"https://back.baansom.co.th", // back office
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/outlets/{oid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		discountCache := service.NewDiscountCache(queries.ListActiveDiscounts, cfg.DiscountTTL)
		discountHandler := handler.NewDiscountHandler(discountCache)
		discountHandler.RegisterRoutes(r)

		r.Route("/outlets/{oid}", func(r chi.Router) {
			r.Use(mw.RequireOutlet)

			productHandler := handler.NewProductHandler(queries)
			r.Route("/products", productHandler.RegisterRoutes)

			orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
				return database.New(db)
			})
			transitionService := service.NewTransitionService(queries)
			orderHandler := handler.NewOrderHandler(orderService, transitionService, queries, hub)
			paymentHandler := handler.NewPaymentHandler(pool, func(db database.DBTX) handler.PaymentStore {
				return database.New(db)
			}, hub)
			r.Route("/orders", func(r chi.Router) {
				orderHandler.RegisterRoutes(r)
				paymentHandler.RegisterRoutes(r)
			})

			// Reports are for managers and owners
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleOwner, enum.UserRoleManager))
				reportHandler := handler.NewReportHandler(queries)
				r.Route("/reports", reportHandler.RegisterRoutes)
			})
		})
	})

	return r
}
