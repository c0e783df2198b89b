package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/auth"
	"github.com/iudanet/objsync/internal/server/storage"
	"github.com/iudanet/objsync/pkg/api"
)

// ObjectsHandler обрабатывает чтение и запись объектов
type ObjectsHandler struct {
	logger  *slog.Logger
	storage storage.ObjectStorage
}

// NewObjectsHandler creates a new objects handler
func NewObjectsHandler(logger *slog.Logger, storage storage.ObjectStorage) *ObjectsHandler {
	return &ObjectsHandler{
		logger:  logger,
		storage: storage,
	}
}

// List обрабатывает GET /objects?since=<watermark>
// Возвращает объекты с modifiedAt > since по возрастанию modifiedAt
func (h *ObjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user not found in context")
		SendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	since, err := parseSince(r.URL.Query().Get("since"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid since parameter", slog.Any("error", err))
		SendError(w, h.logger, "invalid since parameter", http.StatusBadRequest)
		return
	}

	objects, err := h.storage.GetObjectsByOwner(ctx, user.Username, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get objects",
			slog.String("username", user.Username),
			slog.Any("error", err))
		SendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ObjectsResponse{Objects: make([]api.Object, 0, len(objects))}
	for _, obj := range objects {
		resp.Objects = append(resp.Objects, toAPIObject(obj))
	}

	h.logger.DebugContext(ctx, "objects fetched",
		slog.String("username", user.Username),
		slog.Int64("since", since),
		slog.Int("count", len(resp.Objects)))

	SendJSON(w, h.logger, resp, http.StatusOK)
}

// Put обрабатывает PUT /objects
// Сохраняет батч атомарно и возвращает новый high-water mark
func (h *ObjectsHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user not found in context")
		SendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PutObjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode put objects request", slog.Any("error", err))
		sendBodyError(w, h.logger, err)
		return
	}

	if req.Objects == nil {
		SendError(w, h.logger, "objects is required", http.StatusBadRequest)
		return
	}

	batch := make([]models.ObjectInput, 0, len(req.Objects))
	for _, obj := range req.Objects {
		if obj.ID == "" {
			SendError(w, h.logger, "object id is required", http.StatusBadRequest)
			return
		}
		if len(obj.Data) == 0 {
			SendError(w, h.logger, "object data is required", http.StatusBadRequest)
			return
		}
		data, err := compactJSON(obj.Data)
		if err != nil {
			SendError(w, h.logger, "object data must be valid JSON", http.StatusBadRequest)
			return
		}
		batch = append(batch, models.ObjectInput{ID: obj.ID, Data: data})
	}

	h.save(w, r, user.Username, batch)
}

// Get обрабатывает GET /objects/{id}
func (h *ObjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user not found in context")
		SendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	obj, err := h.storage.GetObject(ctx, user.Username, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			SendError(w, h.logger, "object not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get object",
			slog.String("username", user.Username),
			slog.Any("error", err))
		SendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	SendJSON(w, h.logger, toAPIObject(obj), http.StatusOK)
}

// PutOne обрабатывает PUT /objects/{id}
// Тело запроса целиком является data объекта
func (h *ObjectsHandler) PutOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user not found in context")
		SendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read request body", slog.Any("error", err))
		sendBodyError(w, h.logger, err)
		return
	}

	data, err := compactJSON(body)
	if err != nil {
		SendError(w, h.logger, "request body must be valid JSON", http.StatusBadRequest)
		return
	}

	h.save(w, r, user.Username, []models.ObjectInput{{ID: chi.URLParam(r, "id"), Data: data}})
}

func (h *ObjectsHandler) save(w http.ResponseWriter, r *http.Request, owner string, batch []models.ObjectInput) {
	ctx := r.Context()

	modifiedAt, err := h.storage.SaveObjects(ctx, owner, batch)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save objects",
			slog.String("username", owner),
			slog.Int("count", len(batch)),
			slog.Any("error", err))
		SendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "objects saved",
		slog.String("username", owner),
		slog.Int("count", len(batch)),
		slog.Int64("modified_at", modifiedAt))

	SendJSON(w, h.logger, api.PutObjectsResponse{ModifiedAt: modifiedAt}, http.StatusCreated)
}

// parseSince разбирает параметр since; пустое значение означает 0
func parseSince(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}

	since, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if since < 0 {
		return 0, errors.New("since must not be negative")
	}

	return since, nil
}

// compactJSON проверяет и нормализует JSON перед сохранением
func compactJSON(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toAPIObject(obj *models.StoredObject) api.Object {
	return api.Object{
		ID:         obj.ID,
		Data:       json.RawMessage(obj.Data),
		ModifiedAt: obj.ModifiedAt,
	}
}
