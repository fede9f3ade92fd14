package calendar

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/record"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

// Handler exposes the calendar façade over HTTP. Authentication lives
// upstream: the reverse proxy / auth layer injects the resolved identity as
// X-User-Id / X-User-Role / X-Object-Ids headers, which are mapped onto an
// access.Scope here.
type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, log: logger}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/calendar", h.getCalendar)
	mux.HandleFunc("POST /api/tasks/complete", h.completeTask)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func scopeFromRequest(r *http.Request) access.Scope {
	role := access.Role(strings.TrimSpace(r.Header.Get("X-User-Role")))
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))

	switch role {
	case access.RoleManager:
		return access.Manager(userID)
	case access.RoleDeputy:
		var objectIDs []string
		for _, id := range strings.Split(r.Header.Get("X-Object-Ids"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				objectIDs = append(objectIDs, id)
			}
		}
		return access.Deputy(userID, objectIDs)
	default:
		return access.Admin(r.URL.Query().Get("objectId"))
	}
}

func (h *Handler) getCalendar(w http.ResponseWriter, r *http.Request) {
	date := h.svc.Today()
	if ds := r.URL.Query().Get("date"); ds != "" {
		parsed, err := time.ParseInLocation(schedule.DateLayout, ds, time.UTC)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	resp, err := h.svc.Query(r.Context(), date, scopeFromRequest(r))
	if err != nil {
		h.log.ErrorContext(r.Context(), "calendar query failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "calendar query failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) completeTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID      string   `json:"id"`
		Status  string   `json:"status"`
		Comment string   `json:"comment"`
		Photos  []string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if body.ID == "" {
		writeErr(w, http.StatusBadRequest, "id is required")
		return
	}
	if body.Status == "" {
		body.Status = string(record.StatusCompleted)
	}

	req := CompleteRequest{
		ID:       body.ID,
		Status:   record.CompletionStatus(body.Status),
		Comment:  body.Comment,
		Photos:   body.Photos,
		UserID:   strings.TrimSpace(r.Header.Get("X-User-Id")),
		UserName: strings.TrimSpace(r.Header.Get("X-User-Name")),
	}

	task, err := h.svc.Complete(r.Context(), req, scopeFromRequest(r))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, task)
	case errors.Is(err, schedule.ErrInvalidIdentity), errors.Is(err, ErrInvalidStatus):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, techcard.ErrNotFound):
		writeErr(w, http.StatusNotFound, "tech card not found")
	case errors.Is(err, access.ErrDenied):
		writeErr(w, http.StatusForbidden, "access denied")
	case errors.Is(err, record.ErrAlreadyMaterialized):
		writeErr(w, http.StatusConflict, "task already completed for this day")
	default:
		h.log.ErrorContext(r.Context(), "complete failed", "err", err, "id", body.ID)
		writeErr(w, http.StatusInternalServerError, "complete failed")
	}
}
