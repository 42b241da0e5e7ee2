package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rviscarra/desktop-capture/internal/capture"
	"github.com/rviscarra/desktop-capture/internal/preview"
	"github.com/rviscarra/desktop-capture/internal/rdisplay"
	"github.com/rviscarra/desktop-capture/internal/store"
)

// Options configures the HTTP surface
type Options struct {
	// Sink, when set, receives every successful capture.
	Sink store.Sink
	// Preview is the default thumbnail size for /capture/preview.
	Preview preview.Options
	Logger  *slog.Logger
}

type handler struct {
	pipeline *capture.Pipeline
	display  rdisplay.Service
	opts     Options
	log      *slog.Logger
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.handleError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func (h *handler) handleError(w http.ResponseWriter, status int, err error) {
	h.log.Error("request failed", "status", status, "error", err)
	payload, _ := json.Marshal(errorResponse{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// MakeHandler returns an HTTP handler driving the capture pipeline
func MakeHandler(pipeline *capture.Pipeline, display rdisplay.Service, opts Options) http.Handler {
	h := &handler{
		pipeline: pipeline,
		display:  display,
		opts:     opts,
		log:      opts.Logger,
	}
	if h.log == nil {
		h.log = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/capture", h.capture)
	mux.HandleFunc("/capture/latest", h.latest)
	mux.HandleFunc("/capture/preview", h.preview)
	mux.HandleFunc("/status", h.status)
	mux.HandleFunc("/screens", h.screens)
	return mux
}

func (h *handler) capture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	img, err := h.pipeline.Capture(r.Context())
	if errors.Is(err, capture.ErrBusy) {
		h.handleError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		h.handleError(w, http.StatusInternalServerError, err)
		return
	}

	resp := captureResponse{
		ID:          img.ID.String(),
		Width:       img.Width,
		Height:      img.Height,
		Screens:     img.Screens,
		ContentType: img.ContentType,
		Size:        len(img.Bytes),
		CapturedAt:  img.CapturedAt,
	}
	if h.opts.Sink != nil {
		loc, err := h.opts.Sink.Save(r.Context(), img)
		if err != nil {
			h.handleError(w, http.StatusInternalServerError, err)
			return
		}
		resp.Location = loc
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *handler) latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	img := h.pipeline.Last()
	if img == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Bytes)))
	w.Header().Set("X-Capture-Id", img.ID.String())
	w.Write(img.Bytes)
}

func (h *handler) preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	img := h.pipeline.Last()
	if img == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	opts := h.opts.Preview
	q := r.URL.Query()
	for key, dst := range map[string]*uint{"width": &opts.MaxWidth, "height": &opts.MaxHeight} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || v == 0 {
			h.handleError(w, http.StatusBadRequest, errors.New("invalid "+key))
			return
		}
		*dst = uint(v)
	}
	if zoom := q.Get("zoom"); zoom != "" {
		z, err := strconv.ParseBool(zoom)
		if err != nil {
			h.handleError(w, http.StatusBadRequest, errors.New("invalid zoom"))
			return
		}
		opts.Zoom = z
	}

	payload, _, err := preview.Render(img.Bytes, opts)
	if err != nil {
		h.handleError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Capture-Id", img.ID.String())
	w.Write(payload)
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s := h.pipeline.Status()
	resp := statusResponse{
		Status:      s.String(),
		Description: s.Describe(),
		Message:     h.pipeline.Message(),
	}
	if err := h.pipeline.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	if img := h.pipeline.Last(); img != nil {
		resp.LastID = img.ID.String()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) screens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	screens, err := h.display.Screens()
	if err != nil {
		h.handleError(w, http.StatusInternalServerError, err)
		return
	}

	screensPayload := make([]screenPayload, len(screens))
	for i, s := range screens {
		screensPayload[i] = screenPayload{
			Index: s.Index,
			Bounds: boundsPayload{
				X:      s.Bounds.Min.X,
				Y:      s.Bounds.Min.Y,
				Width:  s.Bounds.Dx(),
				Height: s.Bounds.Dy(),
			},
		}
	}
	h.writeJSON(w, http.StatusOK, screensResponse{Screens: screensPayload})
}
