package tileproxy

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Server is a local HTTP proxy for the base-map raster tiles. The frontend
// map talks only to 127.0.0.1; the proxy substitutes into the configured
// XYZ template, caches tiles on disk and adds the CORS headers the Wails
// webview origin needs.
type Server struct {
	template string
	cache    *Cache
	client   *http.Client
	url      string
}

// NewServer creates a proxy for the given XYZ template URL. cache may be
// nil, in which case every tile is fetched upstream.
func NewServer(template string, cache *Cache) *Server {
	return &Server{
		template: template,
		cache:    cache,
		client:   &http.Client{},
	}
}

// URL returns the proxy's base URL, empty until Start has run.
func (s *Server) URL() string {
	return s.url
}

// TemplateURL returns the XYZ template the frontend should use, pointing
// at the local proxy.
func (s *Server) TemplateURL() string {
	return s.url + "/tiles/{z}/{x}/{y}"
}

// Start listens on a random local port and serves until the listener is
// closed. It blocks; run it on its own goroutine.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/tiles/", s.handleTile)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to start tile proxy: %w", err)
	}

	port := listener.Addr().(*net.TCPAddr).Port
	s.url = fmt.Sprintf("http://127.0.0.1:%d", port)
	log.Printf("[TileProxy] serving on %s", s.url)

	server := &http.Server{
		Handler: corsMiddleware(mux),
	}
	return server.Serve(listener)
}

// handleTile serves /tiles/{z}/{x}/{y}.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tiles/"), "/")
	if len(parts) != 3 {
		http.Error(w, "Invalid tile path", http.StatusBadRequest)
		return
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			http.Error(w, "Invalid tile coordinates", http.StatusBadRequest)
			return
		}
	}
	z, x, y := parts[0], parts[1], parts[2]

	cacheKey := fmt.Sprintf("tile:%s:%s:%s:%s", s.template, z, x, y)
	if s.cache != nil {
		if data, found := s.cache.Get(cacheKey); found {
			writeTile(w, data)
			return
		}
	}

	data, err := s.fetch(z, x, y)
	if err != nil {
		log.Printf("[TileProxy] fetch %s/%s/%s failed: %v", z, x, y, err)
		http.Error(w, "Tile fetch failed", http.StatusBadGateway)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, data); err != nil {
			log.Printf("[TileProxy] cache write failed: %v", err)
		}
	}
	writeTile(w, data)
}

// fetch pulls one tile from the upstream template.
func (s *Server) fetch(z, x, y string) ([]byte, error) {
	url := strings.NewReplacer("{z}", z, "{x}", x, "{y}", y).Replace(s.template)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// Public tile services reject requests without an identifying agent
	req.Header.Set("User-Agent", "changescope-desktop")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func writeTile(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

// corsMiddleware adds CORS headers to allow requests from the Wails
// frontend. On macOS/Linux, Wails uses the wails://wails origin which
// requires them.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
