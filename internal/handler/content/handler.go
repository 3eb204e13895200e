package content

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/w-h-a/validated-content/internal/service/content"
)

type contentHandler struct {
	service  *content.Service
	validate *validator.Validate
}

func (h *contentHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	r.HandleFunc("/add", h.Add).Methods(http.MethodPost)
	r.HandleFunc("/delete/{content_id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/all", h.ListAll).Methods(http.MethodGet)
}

func (h *contentHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Health(r.Context()))
}

func (h *contentHandler) Search(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := decode(r, h.validate, &body); err != nil {
		h.respondError(r, w, err)
		return
	}

	rsp, err := h.service.Search(r.Context(), body.request())
	if err != nil {
		h.respondError(r, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rsp)
}

func (h *contentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body addBody
	if err := decode(r, h.validate, &body); err != nil {
		h.respondError(r, w, err)
		return
	}

	rsp, err := h.service.Add(r.Context(), body.request())
	if err != nil {
		h.respondError(r, w, err)
		return
	}

	slog.InfoContext(r.Context(), "content added", "id", rsp.Id)

	h.respondJSON(w, http.StatusOK, rsp)
}

func (h *contentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["content_id"]

	rsp, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondError(r, w, err)
		return
	}

	slog.InfoContext(r.Context(), "content deleted", "id", id)

	h.respondJSON(w, http.StatusOK, rsp)
}

func (h *contentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	rsp, err := h.service.ListAll(r.Context())
	if err != nil {
		h.respondError(r, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rsp)
}

func (h *contentHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *contentHandler) respondError(r *http.Request, w http.ResponseWriter, err error) {
	status, detail := StatusOf(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "kind", content.KindOf(err).String(), "error", err)
	}

	h.respondJSON(w, status, errorBody{Detail: detail})
}

func NewHandler(service *content.Service) *contentHandler {
	if service == nil {
		panic("content service is required")
	}

	return &contentHandler{
		service:  service,
		validate: newValidator(),
	}
}
