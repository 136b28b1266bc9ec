package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fileserver-gateway/middleware/ratelimit/domain"
	"fileserver-gateway/middleware/ratelimit/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newAdminServer expõe /metrics (Prometheus) e /stats (JSON) em um listener
// separado do tráfego de conteúdo.
func newAdminServer(addr string, reg *prometheus.Registry, stats *infra.MemoryStatsStore, counter domain.Counter) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		total := stats.Total()
		out := struct {
			Received int64                     `json:"received"`
			Allowed  int64                     `json:"allowed"`
			Denied   int64                     `json:"denied"`
			ByRoute  map[string]infra.Counters `json:"by_route"`
		}{
			Received: counter.Value(),
			Allowed:  total.Allowed,
			Denied:   total.Denied,
			ByRoute:  stats.ByRoute(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Printf("stats encode error: %v", err)
		}
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
