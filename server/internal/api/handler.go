package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
	"github.com/fibermonitor/fibermonitor/server/internal/metrics"
	"github.com/fibermonitor/fibermonitor/server/internal/store"
)

// maxBodyBytes caps submission bodies; a filled-in form is well under 1 KiB.
const maxBodyBytes = 64 << 10

const sessionsPrefix = "/api/v1/sessions/"

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store   *store.Store
	metrics *metrics.Registry
	mux     *http.ServeMux
}

// New creates a Handler wired to the session store and metrics registry and
// registers all routes.
func New(st *store.Store, m *metrics.Registry) http.Handler {
	h := &Handler{store: st, metrics: m, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/zones", h.zones)
	h.mux.HandleFunc("/api/v1/assess", h.assess)
	h.mux.HandleFunc("/api/v1/sessions", h.createSession)
	h.mux.HandleFunc(sessionsPrefix, h.session) // subtree: extracts {id}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", Sessions: h.store.Count()})
}

// zones returns GET /api/v1/zones, the ratio band table.
func (h *Handler) zones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, toZoneResponses(fiber.Bands()))
}

// assess handles POST /api/v1/assess: a stateless one-shot assessment.
func (h *Handler) assess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sub, err := decodeSubmission(w, r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.Assess(sub)
	if err != nil {
		jsonResp(w, http.StatusUnprocessableEntity, NewErrorResponse(err))
		return
	}
	jsonResp(w, http.StatusOK, a)
}

// createSession handles POST /api/v1/sessions.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := h.store.Create()
	e, _ := h.store.Get(id)
	slog.Debug("api: session created", "session_id", id)
	jsonResp(w, http.StatusCreated, toSessionResponse(e))
}

// session dispatches GET, PUT and DELETE on /api/v1/sessions/{id}.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, sessionsPrefix)
	if id == "" {
		h.createSession(w, r)
		return
	}
	if strings.Contains(id, "/") {
		jsonErr(w, http.StatusNotFound, "session not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, ok := h.store.Get(id)
		if !ok {
			jsonErr(w, http.StatusNotFound, "session not found")
			return
		}
		jsonResp(w, http.StatusOK, toSessionResponse(e))

	case http.MethodPut, http.MethodPost:
		if _, ok := h.store.Get(id); !ok {
			jsonErr(w, http.StatusNotFound, "session not found")
			return
		}
		sub, err := decodeSubmission(w, r)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, err.Error())
			return
		}
		a, err := h.Assess(sub)
		if err != nil {
			// A rejected submission leaves the previous assessment in place.
			jsonResp(w, http.StatusUnprocessableEntity, NewErrorResponse(err))
			return
		}
		if err := h.store.Put(id, a); err != nil {
			jsonErr(w, http.StatusNotFound, "session not found")
			return
		}
		e, _ := h.store.Get(id)
		jsonResp(w, http.StatusOK, toSessionResponse(e))

	case http.MethodDelete:
		if err := h.store.Reset(id); errors.Is(err, store.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "session not found")
			return
		}
		e, _ := h.store.Get(id)
		jsonResp(w, http.StatusOK, toSessionResponse(e))

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Assess validates and assesses one submission and records the outcome.
func (h *Handler) Assess(sub form.Submission) (fiber.Assessment, error) {
	a, err := form.Assess(sub)
	h.metrics.Observe(a, err)
	if err != nil {
		slog.Debug("api: submission rejected", "err", err)
		return fiber.Assessment{}, err
	}
	slog.Debug("api: assessment computed",
		"zone", a.Zone,
		"suggested_target", a.Target.SuggestedTarget,
		"ratio", a.Target.Ratio,
	)
	return a, nil
}

// --- helpers ----------------------------------------------------------------

// decodeSubmission reads a URL-encoded form post or a JSON body.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (form.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return form.Submission{}, fmt.Errorf("parse form: %w", err)
		}
		return form.FromValues(r.Form), nil
	}

	var sub form.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		return form.Submission{}, fmt.Errorf("decode json: %w", err)
	}
	return sub, nil
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, ErrorResponse{Error: msg})
}

func toSessionResponse(e store.Entry) SessionResponse {
	return SessionResponse{
		ID:         e.ID,
		Assessment: e.Assessment,
		UpdatedAt:  e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
