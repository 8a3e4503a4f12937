// Package twin is an in-memory stand-in for the messaging service's admin API,
// used for local runs of the console and for end-to-end tests of the client.
package twin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

var (
	errUnknownUser   = errors.New("user not found")
	errLimitExceeded = errors.New("limit exceeded")
)

type Config struct {
	// Token, when set, must match the Authorization header (raw or "Bearer <token>").
	Token string
	// Envelope wraps list and user responses in {"data": ...}.
	Envelope bool
	// MaxActive caps how many users may have forwarding active; 0 means no cap.
	MaxActive int
	// FailStatus makes every set-forward-status call come back with success:false.
	FailStatus bool
	Latency    time.Duration
}

type Handler struct {
	store  *MemoryStore
	cfg    Config
	logger *slog.Logger
}

func NewHandler(s *MemoryStore, cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, cfg: cfg, logger: logger}
}

// Router returns the full route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.requestLog)
	r.Use(h.latency)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/admin/all-form-data", h.listForms)
		r.Get("/api/admin/all-save-data", h.listUsers)
		r.Get("/api/admin/user/{id}", h.getUser)
		r.Post("/api/save-data", h.saveData)
		r.Post("/api/set-forward-status", h.setForwardStatus)
		r.Post("/api/add-to-and-message", h.relay)
	})
	return r
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) latency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.Latency > 0 {
			select {
			case <-time.After(h.cfg.Latency):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing authorization token.")
			return
		}
		if h.cfg.Token != "" {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token != h.cfg.Token {
				writeMessage(w, http.StatusUnauthorized, "Invalid authorization token.")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) listForms(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.store.Forms())
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.store.Users())
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, ok := h.store.User(chi.URLParam(r, "id"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	h.writeData(w, http.StatusOK, u)
}

func (h *Handler) saveData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MobileNumber       string `json:"mobileNumber"`
		ForwardPhoneNumber string `json:"forwardPhoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.MobileNumber == "" || req.ForwardPhoneNumber == "" {
		writeMessage(w, http.StatusBadRequest, "mobileNumber and forwardPhoneNumber are required.")
		return
	}
	u := h.store.SaveForwardNumber(req.MobileNumber, req.ForwardPhoneNumber)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": u})
}

func (h *Handler) setForwardStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MobileNumber string `json:"mobileNumber"`
		IsForwarded  string `json:"isForwarded"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.IsForwarded != "active" && req.IsForwarded != "deactive" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": fmt.Sprintf("isForwarded must be \"active\" or \"deactive\", got %q", req.IsForwarded),
		})
		return
	}

	if h.cfg.FailStatus {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Forwarding updates are disabled."})
		return
	}

	err := h.store.SetForwardStatus(req.MobileNumber, req.IsForwarded, h.cfg.MaxActive)
	switch {
	case errors.Is(err, errUnknownUser):
		writeMessage(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, errLimitExceeded):
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": err.Error()})
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func (h *Handler) relay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNo string `json:"phoneNo"`
		To      string `json:"to"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.PhoneNo == "" || req.To == "" || req.Message == "" {
		writeMessage(w, http.StatusBadRequest, "phoneNo, to and message are required.")
		return
	}
	f := h.store.Relay(req.PhoneNo, req.To, req.Message)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": f})
}

func (h *Handler) writeData(w http.ResponseWriter, status int, v any) {
	if h.cfg.Envelope {
		writeJSON(w, status, map[string]any{"data": v})
		return
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// Serve runs the twin on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting twin", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down twin")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
