package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"BinderKeeper/internal/config"
	"BinderKeeper/internal/middleware"
	"BinderKeeper/internal/model"
	"BinderKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CollectionHandler обрабатывает fetch/upsert биндеров и колод.
// Сетевое представление — snake_case, created/updated в RFC3339; вложенные
// массивы сервер не разбирает и хранит как есть.
type CollectionHandler struct {
	Service *service.CollectionService
	Logger  *zap.SugaredLogger
	Config  *config.Config
}

// NewCollectionHandler создаёт хендлер коллекций
func NewCollectionHandler(svc *service.CollectionService, logger *zap.SugaredLogger, cfg *config.Config) *CollectionHandler {
	return &CollectionHandler{Service: svc, Logger: logger, Config: cfg}
}

type binderWire struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Desc     string          `json:"desc,omitempty"`
	Tags     json.RawMessage `json:"tags,omitempty"`
	Favorite bool            `json:"fav"`
	Created  string          `json:"created"`
	Updated  string          `json:"updated"`
	Cards    json.RawMessage `json:"cards"`
}

type deckWire struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Desc    string          `json:"desc,omitempty"`
	Format  string          `json:"format,omitempty"`
	Tags    json.RawMessage `json:"tags,omitempty"`
	Notes   string          `json:"notes,omitempty"`
	Created string          `json:"created"`
	Updated string          `json:"updated"`
	Main    json.RawMessage `json:"main"`
	Extra   json.RawMessage `json:"extra"`
	Side    json.RawMessage `json:"side"`
}

func parseWireTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Unix(0, 0)
	}
	return t
}

func rawOrEmptyArray(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("[]")
	}
	return b
}

// GetBinder отдаёт серверную копию биндера пользователя.
func (h *CollectionHandler) GetBinder(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	b, err := h.Service.GetBinder(r.Context(), uid, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("GetBinder: service error", "user_id", uid, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, binderWire{
		ID:       b.ID,
		Name:     b.Name,
		Desc:     b.Description,
		Tags:     rawOrEmptyArray(b.Tags),
		Favorite: b.Favorite,
		Created:  b.Created.UTC().Format(time.RFC3339),
		Updated:  b.Updated.UTC().Format(time.RFC3339),
		Cards:    rawOrEmptyArray(b.Cards),
	})
}

// PutBinder сохраняет копию биндера (создание или обновление).
func (h *CollectionHandler) PutBinder(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var wire binderWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.Logger.Warnw("PutBinder: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if wire.ID == "" {
		wire.ID = id
	}
	if wire.ID != id || wire.Name == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	created, err := h.Service.SaveBinder(r.Context(), uid, &model.Binder{
		ID:          wire.ID,
		Name:        wire.Name,
		Description: wire.Desc,
		Favorite:    wire.Favorite,
		Tags:        wire.Tags,
		Cards:       rawOrEmptyArray(wire.Cards),
		Created:     parseWireTime(wire.Created),
		Updated:     parseWireTime(wire.Updated),
	})
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		h.Logger.Errorw("PutBinder: service error", "user_id", uid, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"id": wire.ID, "created": created})
}

// GetDeck отдаёт серверную копию колоды пользователя.
func (h *CollectionHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	d, err := h.Service.GetDeck(r.Context(), uid, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("GetDeck: service error", "user_id", uid, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, deckWire{
		ID:      d.ID,
		Name:    d.Name,
		Desc:    d.Description,
		Format:  d.Format,
		Tags:    rawOrEmptyArray(d.Tags),
		Notes:   d.Notes,
		Created: d.Created.UTC().Format(time.RFC3339),
		Updated: d.Updated.UTC().Format(time.RFC3339),
		Main:    rawOrEmptyArray(d.Main),
		Extra:   rawOrEmptyArray(d.Extra),
		Side:    rawOrEmptyArray(d.Side),
	})
}

// PutDeck сохраняет копию колоды (создание или обновление).
func (h *CollectionHandler) PutDeck(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var wire deckWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.Logger.Warnw("PutDeck: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if wire.ID == "" {
		wire.ID = id
	}
	if wire.ID != id || wire.Name == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	created, err := h.Service.SaveDeck(r.Context(), uid, &model.Deck{
		ID:          wire.ID,
		Name:        wire.Name,
		Description: wire.Desc,
		Format:      wire.Format,
		Notes:       wire.Notes,
		Tags:        wire.Tags,
		Main:        rawOrEmptyArray(wire.Main),
		Extra:       rawOrEmptyArray(wire.Extra),
		Side:        rawOrEmptyArray(wire.Side),
		Created:     parseWireTime(wire.Created),
		Updated:     parseWireTime(wire.Updated),
	})
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		h.Logger.Errorw("PutDeck: service error", "user_id", uid, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"id": wire.ID, "created": created})
}
