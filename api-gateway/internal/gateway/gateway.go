package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	ShopSvcURL  string
	StatsSvcURL string
	// StaticDir holds the built frontend. Unknown non-API paths fall back to
	// its index.html so client-side routes work on reload.
	StaticDir string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *slog.Logger
}

func NewGateway(config Config, client HTTPClient, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

// Hop-by-hop headers are meaningful for a single connection only.
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.logger.Debug("proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error("build upstream request", "url", url, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	req.ContentLength = r.ContentLength

	for k, v := range r.Header {
		if hopHeaders[k] {
			continue
		}
		req.Header[k] = v
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		req.Header.Set("X-Forwarded-For", host)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("proxy failed", "target", targetURL, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusBadGateway, "upstream service unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		// CORS is answered here, not by the services behind the gateway.
		if hopHeaders[k] || strings.HasPrefix(k, "Access-Control-") {
			continue
		}
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warn("copy upstream response", "path", r.URL.Path, "error", err)
	}
}

// RouteHandler sends /api/stats to stats-svc and every other /api path to
// shop-svc.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path

	switch {
	case p == "/api/stats" || strings.HasPrefix(p, "/api/stats/"):
		g.ProxyRequest(w, r, g.config.StatsSvcURL)
	case strings.HasPrefix(p, "/api/"):
		g.ProxyRequest(w, r, g.config.ShopSvcURL)
	default:
		g.ServeFrontend(w, r)
	}
}

func (g *Gateway) ServeFrontend(w http.ResponseWriter, r *http.Request) {
	if g.config.StaticDir == "" {
		http.NotFound(w, r)
		return
	}

	name := filepath.Join(g.config.StaticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}

	index := filepath.Join(g.config.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/").HandlerFunc(g.ServeFrontend)
	return r
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
