package handlers

import (
	"BinderKeeper/internal/config"
	"BinderKeeper/internal/middleware"
	"BinderKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	collectionService *service.CollectionService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	collectionHandler := NewCollectionHandler(collectionService, logger, config)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/test", userHandler.Status)

	// Collection routes (fetch/upsert by client-assigned id)
	r.Get("/api/binder/{id}", collectionHandler.GetBinder)
	r.Put("/api/binder/{id}", collectionHandler.PutBinder)
	r.Get("/api/deck/{id}", collectionHandler.GetDeck)
	r.Put("/api/deck/{id}", collectionHandler.PutDeck)

	return &Handler{Router: r}
}
