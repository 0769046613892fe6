package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/penwyp/go-vessel-trail/internal/application/view"
	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/maphost"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/presentation/formatter"
	"github.com/penwyp/go-vessel-trail/internal/presentation/tooltip"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

//go:embed assets/index.html.tmpl
var assets embed.FS

var indexTemplate = template.Must(template.New("index.html.tmpl").ParseFS(assets, "assets/index.html.tmpl"))

// ErrBadParameter marks malformed query parameters.
var ErrBadParameter = errors.New("bad parameter")

// criteriaFrom reads filter criteria from the query string.
func (s *Server) criteriaFrom(q url.Values) (filter.Criteria, error) {
	return filter.Parse(filter.Raw{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Company:  q["company"],
		Vessel:   q.Get("vessel"),
		HullJobs: q["hullJob"],
	}, s.now())
}

// modeFrom reads the display mode, falling back to the server default.
func (s *Server) modeFrom(q url.Values) (model.DisplayMode, error) {
	raw := q.Get("mode")
	if raw == "" {
		return s.config.Mode, nil
	}
	mode, err := model.ParseDisplayMode(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadParameter, err)
	}
	return mode, nil
}

// statusFor maps request errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadParameter),
		errors.Is(err, filter.ErrInvalidDate),
		errors.Is(err, filter.ErrInvalidRange),
		errors.Is(err, filter.ErrUnknownCompany),
		errors.Is(err, filter.ErrUnknownHullJob),
		errors.Is(err, filter.ErrUnknownVessel),
		errors.Is(err, filter.ErrVesselScope):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// load parses criteria and mode and returns the matching samples.
func (s *Server) load(req *http.Request) (filter.Criteria, model.DisplayMode, []model.Sample, error) {
	q := req.URL.Query()
	criteria, err := s.criteriaFrom(q)
	if err != nil {
		return filter.Criteria{}, 0, nil, err
	}
	mode, err := s.modeFrom(q)
	if err != nil {
		return filter.Criteria{}, 0, nil, err
	}
	samples, err := s.provider.Load(req.Context(), criteria)
	if err != nil {
		return filter.Criteria{}, 0, nil, fmt.Errorf("failed to load samples: %w", err)
	}
	return criteria, mode, samples, nil
}

// handleTrail returns the trail model, or GeoJSON with format=geojson.
func (s *Server) handleTrail(w http.ResponseWriter, req *http.Request) {
	criteria, mode, samples, err := s.load(req)
	if err != nil {
		writeError(w, req, statusFor(err), err)
		return
	}
	report := formatter.NewReport(s.provider.Source(), criteria, samples, mode)
	if req.URL.Query().Get("format") == model.FormatGeoJSON {
		writeJSON(w, req, http.StatusOK, ContentTypeGeoJSON, formatter.BuildGeoJSON(report.Trail))
		return
	}
	writeResponse(w, req, http.StatusOK, formatter.NewTrailDocument(report))
}

// HoverResponse is the answer of /api/hover.
type HoverResponse struct {
	Hover   trail.HoverResult    `json:"hover"`
	Text    string               `json:"text"`
	HTML    string               `json:"html"`
	Tooltip maphost.OverlayState `json:"tooltip"`
	View    HoverView            `json:"view"`
}

// HoverView describes the canvas the hover was evaluated on.
type HoverView struct {
	Center model.Position `json:"center"`
	Zoom   float64        `json:"zoom"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > MaxCanvasSide {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadParameter, name, raw)
	}
	return v, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	v, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadParameter, name, q.Get(name))
	}
	return v, nil
}

// handleHover mounts the trail on an in-process canvas of the caller's size
// and reports what a pointer at (x, y) would show.
func (s *Server) handleHover(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	width, err := intParam(q, "width", DefaultHoverWidth)
	if err != nil {
		writeError(w, req, http.StatusBadRequest, err)
		return
	}
	height, err := intParam(q, "height", DefaultHoverHeight)
	if err != nil {
		writeError(w, req, http.StatusBadRequest, err)
		return
	}
	x, err := floatParam(q, "x")
	if err != nil {
		writeError(w, req, http.StatusBadRequest, err)
		return
	}
	y, err := floatParam(q, "y")
	if err != nil {
		writeError(w, req, http.StatusBadRequest, err)
		return
	}
	_, mode, samples, err := s.load(req)
	if err != nil {
		writeError(w, req, statusFor(err), err)
		return
	}

	v := view.New(maphost.NewCanvasHost(width, height))
	defer func() {
		if err := v.Unmount(); err != nil {
			util.LogCtx(req.Context()).Warn("Failed to unmount hover view", util.F("error", err.Error()))
		}
	}()
	if _, err := v.Render(samples, mode); err != nil {
		writeError(w, req, http.StatusInternalServerError, err)
		return
	}

	result := v.Hover(model.Pixel{X: x, Y: y})
	resp := HoverResponse{
		Hover:   result,
		Text:    tooltip.Format(result),
		HTML:    tooltip.FormatHTML(result),
		Tooltip: v.Tooltip(),
	}
	if c, ok := v.Map().(*maphost.Canvas); ok {
		vp := c.Viewport()
		resp.View = HoverView{Center: maphost.ToLonLat(vp.Center), Zoom: vp.Zoom, Width: vp.Width, Height: vp.Height}
	}
	writeResponse(w, req, http.StatusOK, resp)
}

// FiltersResponse is the answer of /api/filters.
type FiltersResponse struct {
	Companies []filter.Company `json:"companies"`
	HullJobs  []filter.HullJob `json:"hullJobs"`
	Defaults  filter.Criteria  `json:"defaults"`
	Vessels   []string         `json:"vessels"`
}

// handleFilters returns the filter catalog. Vessels are listed only when
// exactly one company is given.
func (s *Server) handleFilters(w http.ResponseWriter, req *http.Request) {
	vessels := filter.VesselsFor(req.URL.Query()["company"])
	if vessels == nil {
		vessels = []string{}
	}
	writeResponse(w, req, http.StatusOK, FiltersResponse{
		Companies: filter.Companies,
		HullJobs:  filter.HullJobs,
		Defaults:  filter.Defaults(s.now()),
		Vessels:   vessels,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, req, http.StatusOK, ContentTypeJSON, map[string]string{"status": "ok", "source": s.provider.Source()})
}

type indexData struct {
	Title    string
	Tokens   theme.Tokens
	Dark     bool
	Query    string
	Criteria string
	Zoom     float64
}

// handleIndex serves the map page. The page fetches /api/trail with its own query string.
func (s *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	mode, err := s.modeFrom(q)
	if err != nil {
		writeError(w, req, http.StatusBadRequest, err)
		return
	}
	criteria, err := s.criteriaFrom(q)
	if err != nil {
		writeError(w, req, statusFor(err), err)
		return
	}
	q.Set("mode", mode.String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{
		Title:    model.AppTitle,
		Tokens:   theme.For(mode),
		Dark:     mode == model.ModeDark,
		Query:    q.Encode(),
		Criteria: criteria.String(),
		Zoom:     constants.DefaultZoom,
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		util.LogCtx(req.Context()).Error("Failed to render index", util.F("error", err.Error()))
	}
}
