package jobs

// HTTP routes:
//
//	POST   /jobs          → create (admin)
//	GET    /jobs          → list, optionally filtered by titleLike, minSalary, hasEquity
//	GET    /jobs/{title}  → get
//	PATCH  /jobs/{title}  → partial update (admin)
//	DELETE /jobs/{title}  → remove (admin)
//
// Admin routes expect the x-user-id and x-user-role headers forwarded by the
// Gateway.

import (
	"net/http"

	"jobmate/jobs-service/internal/httpmw"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /jobs", httpmw.RequireAdmin(http.HandlerFunc(h.create)))
	mux.HandleFunc("GET /jobs", h.list)
	mux.HandleFunc("GET /jobs/{title}", h.get)
	mux.Handle("PATCH /jobs/{title}", httpmw.RequireAdmin(http.HandlerFunc(h.update)))
	mux.Handle("DELETE /jobs/{title}", httpmw.RequireAdmin(http.HandlerFunc(h.remove)))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, err := DecodeFields(r.Body)
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	j, err := h.svc.Create(r.Context(), payload)
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusCreated, map[string]any{"job": j})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := QueryFields(r.URL.RawQuery)
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	jobs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.Get(r.Context(), r.PathValue("title"))
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"job": j})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	payload, err := DecodeFields(r.Body)
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	j, err := h.svc.Update(r.Context(), r.PathValue("title"), payload)
	if err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"job": j})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	if err := h.svc.Remove(r.Context(), title); err != nil {
		httpmw.WriteError(w, r, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]string{"deleted": title})
}
