package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/todopad/todopad-go/internal/middleware"
	"github.com/todopad/todopad-go/internal/model"
	"github.com/todopad/todopad-go/internal/service"
)

// TodoHandler handles HTTP requests for todo operations. Every route is
// behind the auth middleware; ownership comes from the context user.
type TodoHandler struct {
	service *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{service: svc}
}

// HandleCreate handles POST /todos requests.
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	todo, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTextRequired), errors.Is(err, service.ErrTextTooShort):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse("could not create todo"))
		}
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// HandleList handles GET /todos requests.
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	todos, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("could not list todos"))
		return
	}

	writeJSON(w, http.StatusOK, model.TodoListResponse{Todos: todos})
}

// HandleGet handles GET /todos/{id} requests.
func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	todo, err := h.service.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("could not fetch todo"))
		return
	}

	writeJSON(w, http.StatusOK, model.TodoResponse{Todo: *todo})
}

// HandleUpdate handles PATCH /todos/{id} requests.
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	todo, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTextRequired), errors.Is(err, service.ErrTextTooShort):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrTodoNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse("could not update todo"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.TodoResponse{Todo: *todo})
}

// HandleDelete handles DELETE /todos/{id} requests, answering with the
// removed record.
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	todo, err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("could not delete todo"))
		return
	}

	writeJSON(w, http.StatusOK, model.DeletedTodoResponse{Deleted: *todo})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
