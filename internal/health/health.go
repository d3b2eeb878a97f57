// Package health: process status snapshot for the /health endpoint.
package health

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

var (
	startTime time.Time
	version   = "dev"
	initOnce  sync.Once
)

// Init records the start time and version. Call once at startup.
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Response: standard /health body.
type Response struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
}

// Get returns the current snapshot.
func Get() Response {
	return Response{
		Status:     "ok",
		Version:    version,
		Uptime:     time.Since(startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}
}

// Register mounts GET /health on the mux.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Get())
	})
}
