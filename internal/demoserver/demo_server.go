package demoserver

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// DemoServer serves a small calculator site in two variants so audits can
// be tried against a well prepared site and against a bare one.
type DemoServer struct {
	cfg      Config
	variants map[string]Variant
	current  string
	mu       sync.RWMutex
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	variants := Variants()
	current := cfg.InitialVariant
	if _, ok := variants[current]; !ok {
		current = VariantOptimized
	}
	return &DemoServer{
		cfg:      cfg,
		variants: variants,
		current:  current,
	}
}

// Handler returns the demo site handler. It is usable with httptest.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Control panel for variant switching
	mux.HandleFunc("/_control", s.controlPanelHandler)
	mux.HandleFunc("/_switch", s.switchHandler)
	mux.HandleFunc("/_variants", s.variantsHandler)

	mux.HandleFunc("/", s.siteHandler)
	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	fmt.Printf("Control panel at http://localhost%s/_control\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Variant returns the name of the variant being served.
func (s *DemoServer) Variant() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetVariant switches the served variant.
func (s *DemoServer) SetVariant(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.variants[name]; !ok {
		return fmt.Errorf("unknown variant %q", name)
	}
	s.current = name
	return nil
}

func (s *DemoServer) siteHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	variant := s.variants[s.current]
	s.mu.RUnlock()

	for _, res := range variant.Resources {
		if res.Path != r.URL.Path {
			continue
		}
		w.Header().Set("Content-Type", res.ContentType)
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write([]byte(strings.ReplaceAll(res.Body, "{{base}}", baseURL(r))))
		}
		return
	}
	http.NotFound(w, r)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// switchHandler changes the variant given by ?variant=.
func (s *DemoServer) switchHandler(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("variant")
	if err := s.SetVariant(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"variant": name,
	})
}

// variantsHandler lists the available variants.
func (s *DemoServer) variantsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type VariantInfo struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Current     bool     `json:"current"`
		Paths       []string `json:"paths"`
	}

	var out []VariantInfo
	for _, name := range s.variantNames() {
		v := s.variants[name]
		info := VariantInfo{Name: name, Description: v.Description, Current: name == s.current}
		for _, res := range v.Resources {
			info.Paths = append(info.Paths, res.Path)
		}
		out = append(out, info)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *DemoServer) variantNames() []string {
	names := make([]string, 0, len(s.variants))
	for n := range s.variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// controlPanelHandler serves the control panel for variant management.
func (s *DemoServer) controlPanelHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var variants []Variant
	for _, n := range s.variantNames() {
		variants = append(variants, s.variants[n])
	}

	tmpl := template.Must(template.New("control").Parse(controlPanelHTML))
	data := struct {
		Variants []Variant
		Current  string
	}{
		Variants: variants,
		Current:  s.current,
	}
	w.Header().Set("Content-Type", "text/html")
	_ = tmpl.Execute(w, data)
}

const controlPanelHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Demo Site Control Panel</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; max-width: 1000px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        h1 { color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px; }
        .card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .card.active { border-left: 4px solid #28a745; }
        .name { font-size: 1.2em; font-weight: bold; color: #007bff; }
        .desc { color: #666; margin: 5px 0; }
        .btn { padding: 8px 16px; border: none; border-radius: 4px; cursor: pointer; background: #007bff; color: white; }
        .info-box { background: #e7f3ff; padding: 15px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #007bff; }
        code { background: #eee; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1>Demo Site Control Panel</h1>

    <div class="info-box">
        <strong>How to use:</strong> pick a variant, then run
        <code>geo audit --url http://localhost:PORT</code> and compare the scores.
    </div>

    {{range .Variants}}
    <div class="card {{if eq .Name $.Current}}active{{end}}">
        <div class="name">{{.Name}}{{if eq .Name $.Current}} (serving){{end}}</div>
        <div class="desc">{{.Description}}</div>
        <ul>{{range .Resources}}<li><a href="{{.Path}}" target="_blank">{{.Path}}</a></li>{{end}}</ul>
        <button class="btn" onclick="switchTo('{{.Name}}')">Serve {{.Name}}</button>
    </div>
    {{end}}

    <script>
        function switchTo(name) {
            fetch('/_switch?variant=' + encodeURIComponent(name), {method: 'POST'})
            .then(r => r.json())
            .then(data => { if (data.success) location.reload(); });
        }
    </script>
</body>
</html>`
