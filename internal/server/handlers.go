package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/docsmith/scanprep/internal/deskew"
	"github.com/docsmith/scanprep/internal/imaging"
	"github.com/docsmith/scanprep/internal/rasterize"
)

// ConvertResponse is the /convert reply: one base64 PNG per page of the
// uploaded document, in page order.
type ConvertResponse struct {
	ImagesBase64 []string `json:"images_base64"`
	Count        int      `json:"count"`
	Success      bool     `json:"success"`
}

// LineInfo describes the line the rotation angle was derived from.
type LineInfo struct {
	Start         [2]int  `json:"start"`
	End           [2]int  `json:"end"`
	Length        float64 `json:"length"`
	DetectedAngle float64 `json:"detected_angle"`
	RotationAngle float64 `json:"rotation_angle"`
}

// RotateResponse is the /rotate reply. LineInfo is null when no usable
// line was found; the image is then returned unrotated with a zero angle.
type RotateResponse struct {
	RotatedImageBase64 string    `json:"rotated_image_base64"`
	RotationAngle      float64   `json:"rotation_angle"`
	LineInfo           *LineInfo `json:"line_info"`
	Success            bool      `json:"success"`
}

// HealthResponse is the /health reply.
type HealthResponse struct {
	Status        string  `json:"status"`
	Timestamp     float64 `json:"timestamp"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ErrorResponse is the uniform error shape for every route.
type ErrorResponse struct {
	Success   bool    `json:"success"`
	Error     string  `json:"error"`
	ErrorKind string  `json:"error_kind"`
	Timestamp float64 `json:"timestamp"`
}

// Machine-readable error kinds surfaced to callers.
const (
	kindUnsupportedFormat = "unsupported_format"
	kindInvalidThreshold  = "invalid_threshold"
	kindInvalidConfig     = "invalid_config"
	kindUnsupportedFile   = "unsupported_file"
	kindBadRequest        = "bad_request"
	kindInternal          = "internal"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, kindBadRequest, errors.New("method not allowed"))
		return
	}

	if err := s.parseForm(w, r); err != nil {
		writeError(w, statusFor(err), kindOf(err), err)
		return
	}

	threshold := s.cfg.DefaultThreshold
	if v := r.FormValue("threshold"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidThreshold,
				fmt.Errorf("threshold must be an integer: %w", err))
			return
		}
		threshold = parsed
	}
	if threshold < 0 || threshold > 255 {
		writeError(w, http.StatusBadRequest, kindInvalidThreshold,
			fmt.Errorf("%w: %d", imaging.ErrInvalidThreshold, threshold))
		return
	}

	pages, err := s.readUpload(r)
	if err != nil {
		writeError(w, statusFor(err), kindOf(err), err)
		return
	}

	encoded := make([]string, 0, len(pages))
	for i, page := range pages {
		gray, err := imaging.Grayscale(page)
		if err != nil {
			writeError(w, statusFor(err), kindOf(err), fmt.Errorf("page %d: %w", i+1, err))
			return
		}
		binary, err := imaging.Binarize(gray, threshold)
		if err != nil {
			writeError(w, statusFor(err), kindOf(err), fmt.Errorf("page %d: %w", i+1, err))
			return
		}
		b64, err := rasterize.EncodeBase64PNG(binary)
		if err != nil {
			writeError(w, http.StatusInternalServerError, kindInternal, err)
			return
		}
		encoded = append(encoded, b64)
	}

	log.Printf("convert: %d page(s), threshold=%d", len(encoded), threshold)
	writeJSON(w, http.StatusOK, ConvertResponse{
		ImagesBase64: encoded,
		Count:        len(encoded),
		Success:      true,
	})
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, kindBadRequest, errors.New("method not allowed"))
		return
	}

	if err := s.parseForm(w, r); err != nil {
		writeError(w, statusFor(err), kindOf(err), err)
		return
	}

	cfg := deskew.Config{
		MinLineLength:          s.cfg.DefaultMinLineLength,
		MaxLineGap:             s.cfg.DefaultMaxLineGap,
		HorizontalToleranceDeg: s.cfg.HorizontalToleranceDeg,
		FallbackToAnyLine:      s.cfg.FallbackToAnyLine,
		Background:             s.background,
	}
	if v := r.FormValue("min_line_length"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidConfig,
				fmt.Errorf("min_line_length must be a number: %w", err))
			return
		}
		cfg.MinLineLength = parsed
	}
	if v := r.FormValue("max_line_gap"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidConfig,
				fmt.Errorf("max_line_gap must be a number: %w", err))
			return
		}
		cfg.MaxLineGap = parsed
	}
	if v := r.FormValue("use_morphology"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidConfig,
				fmt.Errorf("use_morphology must be a boolean: %w", err))
			return
		}
		cfg.UseMorphology = parsed
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidConfig, err)
		return
	}

	pages, err := s.readUpload(r)
	if err != nil {
		writeError(w, statusFor(err), kindOf(err), err)
		return
	}

	// Deskew operates on a single image; a multi-page document is
	// represented by its first page.
	result, err := s.engine.Deskew(pages[0], cfg)
	if err != nil {
		writeError(w, statusFor(err), kindOf(err), err)
		return
	}

	b64, err := rasterize.EncodeBase64PNG(result.Rotated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, kindInternal, err)
		return
	}

	resp := RotateResponse{
		RotatedImageBase64: b64,
		RotationAngle:      result.RotationAngle,
		Success:            true,
	}
	if result.Line != nil {
		resp.LineInfo = &LineInfo{
			Start:         [2]int{result.Line.Start.X, result.Line.Start.Y},
			End:           [2]int{result.Line.End.X, result.Line.End.Y},
			Length:        result.Line.Length,
			DetectedAngle: result.Line.Angle,
			RotationAngle: result.RotationAngle,
		}
	}

	log.Printf("rotate: angle=%.2f line_found=%t", result.RotationAngle, result.Line != nil)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Timestamp:     now(),
		Version:       s.version,
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, kindBadRequest, fmt.Errorf("no such route: %s", r.URL.Path))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "scanprep " + s.version,
		"endpoints": map[string]string{
			"/convert": "POST - binarize document pages",
			"/rotate":  "POST - deskew by dominant horizontal line",
			"/health":  "GET - service health",
		},
	})
}

// parseForm enforces the upload size limit and parses the multipart body.
// It must run before any form field is read.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return fmt.Errorf("%w: %s", rasterize.ErrUnsupportedFile, err)
	}
	return nil
}

// readUpload extracts and decodes the multipart "file" field.
func (s *Server) readUpload(r *http.Request) ([]image.Image, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field: %s", rasterize.ErrUnsupportedFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return s.decoder.Decode(data, header.Filename)
}

// kindOf maps a core error to its machine-readable kind.
func kindOf(err error) string {
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return kindUnsupportedFormat
	case errors.Is(err, imaging.ErrInvalidThreshold):
		return kindInvalidThreshold
	case errors.Is(err, deskew.ErrInvalidConfig):
		return kindInvalidConfig
	case errors.Is(err, rasterize.ErrUnsupportedFile):
		return kindUnsupportedFile
	default:
		return kindInternal
	}
}

// statusFor maps a core error to an HTTP status: caller-input errors are
// 400, everything else is 500.
func statusFor(err error) int {
	if kindOf(err) == kindInternal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	log.Printf("request failed (%s): %v", kind, err)
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Error:     err.Error(),
		ErrorKind: kind,
		Timestamp: now(),
	})
}

// now returns the current time as fractional seconds since the epoch, the
// timestamp format used in API responses.
func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
