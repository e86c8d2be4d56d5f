// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gridoverlay/internal/geo"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/projection"
)

const etagCap = 32

// EncodeResponse is returned by HandleEncode.
type EncodeResponse struct {
	MGRS      string `json:"mgrs"`
	CRS       string `json:"crs"`
	Precision int    `json:"precision"`
}

// DecodeResponse is returned by HandleDecode.
type DecodeResponse struct {
	Ref       mgrs.GridRef `json:"ref"`
	Point     []float64    `json:"point,omitempty"` // cell centre [lon, lat]
	Latitude  string       `json:"lat,omitempty"`
	Longitude string       `json:"lon,omitempty"`
}

// AngleResponse is returned by HandleAngle.
type AngleResponse struct {
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
	Format  string  `json:"format"`
	Degrees int     `json:"degrees"`
	Minutes int     `json:"minutes"`
	Seconds int     `json:"seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleEncode converts ?x=&y=[&crs=][&precision=] to a grid reference.
func (s *ServerContext) HandleEncode(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, errors.New("x and y must be numbers"))
		return
	}

	crs := q.Get("crs")
	if crs == "" {
		crs = mgrs.TargetCRS
	}

	precision := s.Codec.Precision()
	if p := q.Get("precision"); p != "" {
		var err error
		if precision, err = strconv.Atoi(p); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("precision must be an integer"))
			return
		}
	}

	code, err := s.Codec.EncodeWithPrecision(orb.Point{x, y}, crs, precision)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, EncodeResponse{MGRS: code, CRS: crs, Precision: precision})
}

// HandleDecode parses ?mgrs= and returns its parts and, when the codec
// supports it, the cell centre.
func (s *ServerContext) HandleDecode(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	code := r.URL.Query().Get("mgrs")
	ref, err := s.Codec.Decode(code)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := DecodeResponse{Ref: ref}
	p, err := s.Codec.ToPoint(code)
	switch {
	case err == nil:
		resp.Point = []float64{p.Lon(), p.Lat()}
		resp.Latitude = s.Labels.Latitude.Render(geo.NewLatitude(p.Lat()))
		resp.Longitude = s.Labels.Longitude.Render(geo.NewLongitude(p.Lon()))
	case errors.Is(err, mgrs.ErrUnsupported):
	default:
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleAngle renders ?value= degrees through ?format=. The kind parameter
// selects the hemisphere letters and default template: lat, lon or angle.
func (s *ServerContext) HandleAngle(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	q := r.URL.Query()
	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("value must be a number"))
		return
	}

	var a geo.Angle
	format := q.Get("format")
	switch q.Get("kind") {
	case "", "lat":
		a = geo.NewLatitude(value)
		if format == "" {
			format = s.Config.Formats.Latitude
		}
	case "lon":
		a = geo.NewLongitude(value)
		if format == "" {
			format = s.Config.Formats.Longitude
		}
	case "angle":
		a = geo.NewAngle(value)
		if format == "" {
			format = s.Config.Formats.Rotation
		}
	default:
		writeError(w, http.StatusBadRequest, errors.New("kind must be lat, lon or angle"))
		return
	}

	text, err := a.Format(format)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, AngleResponse{
		Value:   a.Value(),
		Text:    text,
		Format:  format,
		Degrees: a.Degrees(),
		Minutes: a.Minutes(),
		Seconds: a.Seconds(),
	})
}

// HandleGridsList serves the JSON configuration of available grids.
func (s *ServerContext) HandleGridsList(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.gridList)
}

// HandleGrid serves the overlay of one grid as GeoJSON.
// Path: /api/grids/{name} or /api/grids/{name}.geojson
func (s *ServerContext) HandleGrid(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/grids/")
	name = strings.TrimSuffix(name, ".geojson")
	if name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	data, ok, err := s.overlayJSON(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("grid", name).Msg("Failed to build overlay")
		writeError(w, statusFor(err), err)
		return
	}

	etag := etagFor(data)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(data)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	return false
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mgrs.ErrMalformedGridRef),
		errors.Is(err, mgrs.ErrOddDigitRun),
		errors.Is(err, mgrs.ErrPrecision),
		errors.Is(err, geo.ErrInvalidFormatSpecifier),
		errors.Is(err, projection.ErrUnknownCRS):
		return http.StatusBadRequest
	case errors.Is(err, mgrs.ErrOutsideGrid),
		errors.Is(err, mgrs.ErrReprojection),
		errors.Is(err, mgrs.ErrEncode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mgrs.ErrUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func etagFor(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendUint(buf, h.Sum64(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, int64(len(data)), 16)
	buf = append(buf, '"')
	return string(buf)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
