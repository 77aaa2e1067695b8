package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ProductReviewGo/internal/auth"
	"github.com/utafrali/ProductReviewGo/internal/service"
	"github.com/utafrali/ProductReviewGo/pkg/health"
	"github.com/utafrali/ProductReviewGo/pkg/middleware"
)

const serviceName = "review-service"

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	userService *service.UserService,
	productService *service.ProductService,
	reviewService *service.ReviewService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(corsCfg))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(accessTokenValidator(jwtManager))

	// User API endpoints
	userHandler := NewUserHandler(userService, logger)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/refresh", userHandler.RefreshToken)
	})

	// Product API endpoints
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))

			r.Get("/", productHandler.ListProducts)
			r.Get("/{idOrSlug}", productHandler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	// Review API endpoints
	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/{productId}", reviewHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", reviewHandler.CreateReview)
		})
	})

	return r
}

// accessTokenValidator adapts the JWT manager to the auth middleware contract.
func accessTokenValidator(m *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := m.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:   claims.UserID,
			Username: claims.Username,
		}, nil
	}
}
