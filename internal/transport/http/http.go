package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/export"
	"github.com/freshfold/orderdesk/internal/service/models/order"
	"github.com/freshfold/orderdesk/internal/service/models/product"
	"github.com/freshfold/orderdesk/internal/service/models/stats"
	"github.com/freshfold/orderdesk/internal/service/models/user"
	"github.com/freshfold/orderdesk/internal/service/services/ordersvc"
	"github.com/freshfold/orderdesk/internal/service/services/usersvc"
	"github.com/freshfold/orderdesk/internal/transport/http/dashboard"
	authmw "github.com/freshfold/orderdesk/internal/transport/http/middleware/auth"
	"github.com/freshfold/orderdesk/internal/transport/http/orders"
	"github.com/freshfold/orderdesk/internal/transport/http/products"
	"github.com/freshfold/orderdesk/internal/transport/http/users"
	"github.com/freshfold/orderdesk/pkg/http/middleware/trace"
	"github.com/freshfold/orderdesk/pkg/logger"
)

type orderService interface {
	Create(ctx context.Context, act actor.Actor, req ordersvc.CreateRequest) (order.Order, error)
	Get(ctx context.Context, act actor.Actor, id uuid.UUID) (order.Order, error)
	List(ctx context.Context, act actor.Actor, query order.Query) (order.PageResult, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, req ordersvc.UpdateRequest) (order.Order, error)
	Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error
	Export(ctx context.Context, act actor.Actor, id uuid.UUID) (export.Document, error)
}

type catalogService interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, act actor.Actor, p product.Product) (product.Product, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, p product.Product) (product.Product, error)
	Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error
}

type userService interface {
	Login(ctx context.Context, username, password string) (string, user.User, error)
	Register(ctx context.Context, act actor.Actor, req usersvc.RegisterRequest) (user.User, error)
	Users(ctx context.Context, act actor.Actor) ([]user.User, error)
	DeleteUser(ctx context.Context, act actor.Actor, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	ParseToken(tokenString string) (uuid.UUID, error)
}

type statsService interface {
	Dashboard(ctx context.Context, act actor.Actor) (stats.Dashboard, error)
}

// HTTPTransport owns the router and server lifecycle.
type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	orderSvc   orderService
	catalogSvc catalogService
	userSvc    userService
	statsSvc   statsService
}

func NewHTTPTransport(
	orderSvc orderService,
	catalogSvc catalogService,
	userSvc userService,
	statsSvc statsService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:     server,
		router:     router,
		orderSvc:   orderSvc,
		catalogSvc: catalogSvc,
		userSvc:    userSvc,
		statsSvc:   statsSvc,
	}
}

// Run starts the HTTP server.
func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport. Everything but
// login sits behind the auth middleware.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			users.Login(w, r, h.userSvc)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.New(h.userSvc))

			r.Get("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
				users.Verify(w, r, h.userSvc)
			})
			r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
				users.Register(w, r, h.userSvc)
			})
			r.Get("/auth/users", func(w http.ResponseWriter, r *http.Request) {
				users.List(w, r, h.userSvc)
			})
			r.Delete("/auth/users/{id}", func(w http.ResponseWriter, r *http.Request) {
				users.Delete(w, r, h.userSvc)
			})

			r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
				products.List(w, r, h.catalogSvc)
			})
			r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
				products.Create(w, r, h.catalogSvc)
			})
			r.Put("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
				products.Update(w, r, h.catalogSvc)
			})
			r.Delete("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
				products.Delete(w, r, h.catalogSvc)
			})

			r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
				orders.List(w, r, h.orderSvc)
			})
			r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
				orders.Create(w, r, h.orderSvc)
			})
			r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
				orders.Get(w, r, h.orderSvc)
			})
			r.Put("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
				orders.Update(w, r, h.orderSvc)
			})
			r.Delete("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
				orders.Delete(w, r, h.orderSvc)
			})
			r.Get("/orders/{id}/export", func(w http.ResponseWriter, r *http.Request) {
				orders.Export(w, r, h.orderSvc)
			})

			r.Get("/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
				dashboard.Stats(w, r, h.statsSvc)
			})
		})
	})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
