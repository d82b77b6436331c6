package server

import (
	"fmt"
	"image/color"
	"log"
	"net/http"
	"time"

	"github.com/docsmith/scanprep/internal/config"
	"github.com/docsmith/scanprep/internal/deskew"
	"github.com/docsmith/scanprep/internal/rasterize"
)

// Server wires the core pipeline to the HTTP routes.
type Server struct {
	cfg        *config.Config
	engine     *deskew.Engine
	decoder    *rasterize.Decoder
	background color.Color
	version    string
	started    time.Time
}

// New builds a Server from the loaded configuration. It fails only on
// configuration that cannot be interpreted, such as an unparsable
// background color.
func New(cfg *config.Config, version string) (*Server, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		engine: deskew.New(),
		decoder: &rasterize.Decoder{
			PdftoppmPath: cfg.PdftoppmPath,
			DPI:          cfg.PdfDPI,
		},
		background: bg,
		version:    version,
		started:    time.Now(),
	}, nil
}

// Handler returns the route multiplexer. Exposed separately from Run so
// tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/convert", s.handleConvert)
	mux.HandleFunc("/rotate", s.handleRotate)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// Run starts the HTTP listener and blocks until it fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// Pixel work is CPU-bound with no internal cancellation; the write
		// timeout is the wall-clock bound on adversarial inputs.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	log.Printf("scanprep %s listening on %s", s.version, addr)
	return srv.ListenAndServe()
}
