package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"eventline/internal/chart"
	"eventline/internal/config"
	"eventline/internal/geometry"
	"eventline/internal/interact"
	appLog "eventline/internal/log"
	"eventline/internal/render"
	"eventline/internal/source"
	"eventline/internal/surface"
)

// Server exposes one chart over HTTP: rendered frames, pointer and pan input,
// and the tooltip signal as JSON.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	// mu guards chart and raster; the chart itself is single-threaded.
	mu     sync.Mutex
	chart  *chart.Chart
	raster *surface.Raster
}

// embeddedStatic holds the small browser client that forwards pointer events
// and reloads /frame.svg.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server around a chart drawn onto raster.
func NewServer(cfg *config.Config, c *chart.Chart, raster *surface.Raster) *Server {
	s := &Server{
		cfg:    cfg,
		mux:    http.NewServeMux(),
		chart:  c,
		raster: raster,
	}
	s.registerRoutes()
	return s
}

// Apply swaps in freshly loaded data. It is the Refresher's apply hook.
func (s *Server) Apply(d source.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart.SetData(d.EventTypes, d.Events, d.Lines)
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials disable auth.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="eventline", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /frame.png", s.handleFramePNG)
	s.mux.HandleFunc("GET /frame.svg", s.handleFrameSVG)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/tooltip", s.handleTooltip)
	s.mux.HandleFunc("GET /api/extents", s.handleExtents)
	s.mux.HandleFunc("POST /api/pointer", s.handlePointer)
	s.mux.HandleFunc("POST /api/pan", s.handlePan)
	s.mux.HandleFunc("POST /api/width", s.handleWidth)

	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded client. /api/* never falls through
// to it.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func (s *Server) handleFramePNG(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	s.mu.Lock()
	err := s.raster.EncodePNG(&buf)
	s.mu.Unlock()
	if err != nil {
		appLog.Error("frame encode failed", err)
		writeError(w, http.StatusInternalServerError, "failed to encode frame")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handleFrameSVG replays the current scene onto an SVG surface. Geometry is
// shared with the PNG frame; labels are truncated with SVG text metrics.
func (s *Server) handleFrameSVG(w http.ResponseWriter, _ *http.Request) {
	svg := surface.NewSVG()
	s.mu.Lock()
	render.Render(svg, s.chart.Scene(), s.chart.Resolution(), s.chart.Style())
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := svg.WriteTo(w); err != nil {
		appLog.Error("failed to write SVG frame", err)
	}
}

type pointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// tooltipDTO keeps the tooltip's own field names, camelCase included.
type tooltipDTO struct {
	Type          string    `json:"type"`
	Key           string    `json:"key,omitempty"`
	Title         string    `json:"title,omitempty"`
	Desc          string    `json:"desc,omitempty"`
	Location      *pointDTO `json:"location,omitempty"`
	PointLocation *pointDTO `json:"pointLocation,omitempty"`
	GuideTop      float64   `json:"guideTop,omitempty"`
	GuideHeight   float64   `json:"guideHeight,omitempty"`
}

type stateResponse struct {
	Pan       float64    `json:"pan"`
	PanMin    float64    `json:"pan_min"`
	PanMax    float64    `json:"pan_max"`
	Status    string     `json:"status"`
	ActiveKey string     `json:"active_key,omitempty"`
	Pointer   *pointDTO  `json:"pointer,omitempty"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Frames    int        `json:"frames"`
	Tooltip   tooltipDTO `json:"tooltip"`
}

type extentsResponse struct {
	AxisXStart time.Time `json:"axis_x_start"`
	AxisXEnd   time.Time `json:"axis_x_end"`
	Days       int       `json:"days"`
	AxisXWidth float64   `json:"axis_x_width"`
	AxisYMin   float64   `json:"axis_y_min"`
	AxisYMax   float64   `json:"axis_y_max"`
	Empty      bool      `json:"empty"`
}

func toPointDTO(p geometry.Point) *pointDTO {
	return &pointDTO{X: p.X, Y: p.Y}
}

func toTooltipDTO(t interact.Tooltip) tooltipDTO {
	dto := tooltipDTO{Type: t.Status.String()}
	if t.Status == interact.TooltipNothing {
		return dto
	}
	p := t.Payload
	dto.Key = p.Key
	dto.Title = p.Title
	dto.Desc = p.Desc
	dto.Location = toPointDTO(p.Location)
	if p.HasPointLocation {
		dto.PointLocation = toPointDTO(p.PointLocation)
	}
	dto.GuideTop = p.GuideLine.Top
	dto.GuideHeight = p.GuideLine.Height
	return dto
}

// snapshot must be called with mu held.
func (s *Server) snapshot() stateResponse {
	st := s.chart.State()
	lo, hi := s.chart.PanBounds()
	w, h := s.chart.Size()
	resp := stateResponse{
		Pan:       st.Pan,
		PanMin:    lo,
		PanMax:    hi,
		Status:    st.Status.String(),
		ActiveKey: st.ActiveKey,
		Width:     w,
		Height:    h,
		Frames:    s.chart.Frames(),
		Tooltip:   toTooltipDTO(s.chart.Tooltip()),
	}
	if st.Pointer != nil {
		resp.Pointer = toPointDTO(*st.Pointer)
	}
	return resp
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := s.snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTooltip(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	t := s.chart.Tooltip()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, toTooltipDTO(t))
}

func (s *Server) handleExtents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ext := s.chart.Extents()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, extentsResponse{
		AxisXStart: ext.AxisXStart,
		AxisXEnd:   ext.AxisXEnd,
		Days:       ext.Days,
		AxisXWidth: ext.AxisXWidth,
		AxisYMin:   ext.AxisYMin,
		AxisYMax:   ext.AxisYMax,
		Empty:      ext.Empty,
	})
}

type pointerRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// handlePointer feeds one pointer event into the chart.
//
// POST /api/pointer {"type":"move|down|up|leave","x":..,"y":..}
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch req.Type {
	case "move":
		s.chart.PointerMove(req.X, req.Y)
	case "down":
		s.chart.PointerDown(req.X, req.Y)
	case "up":
		s.chart.PointerUp(req.X, req.Y)
	case "leave":
		s.chart.PointerLeave()
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown pointer event %q", req.Type))
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

type panRequest struct {
	DX  *float64 `json:"dx"`
	Pan *float64 `json:"pan"`
}

// handlePan scrolls by dx or jumps to an absolute pan offset.
func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if (req.DX == nil) == (req.Pan == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of dx or pan is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.DX != nil {
		s.chart.PanBy(*req.DX)
	} else {
		s.chart.SetPan(*req.Pan)
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

type widthRequest struct {
	Width float64 `json:"width"`
}

func (s *Server) handleWidth(w http.ResponseWriter, r *http.Request) {
	var req widthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Width <= 0 {
		writeError(w, http.StatusBadRequest, "width must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chart.SetWidth(req.Width)
	writeJSON(w, http.StatusOK, s.snapshot())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
