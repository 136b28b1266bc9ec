package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fileserver-gateway/middleware/observe"
	"fileserver-gateway/middleware/ratelimit"
	"fileserver-gateway/middleware/ratelimit/domain"
	"fileserver-gateway/middleware/ratelimit/infra"
	"fileserver-gateway/staticfiles"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := readConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// limitador global: uma instância, compartilhada por todas as conexões
	var limiter domain.Limiter
	if cfg.rateEnabled {
		switch cfg.rateStrategy {
		case "tokenbucket":
			limiter = infra.NewTokenBucket(cfg.rateMax, cfg.rateWindow, cfg.rateBurst)
		default:
			limiter = infra.NewFixedWindow(cfg.rateMax, cfg.rateWindow)
		}
	}

	counter := infra.NewRequestCounter()

	// acessos por caminho: memória, ou SQLite quando HITS_DB aponta para um arquivo
	var hitStore domain.HitStore = infra.NewMemoryHitStore()
	if cfg.hitsDB != "" {
		s, err := infra.NewSQLiteHitStore(cfg.hitsDB)
		if err != nil {
			log.Fatalf("hits db error: %v", err)
		}
		defer func() { _ = s.Close() }()
		hitStore = s
	}

	// stats: memória sempre; Redis e Prometheus opcionais
	memStats := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.rateStatsTrackKeys))
	stats := infra.MultiStats{memStats}
	if cfg.rateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.rateStatsRedisAddr,
			Password: cfg.rateStatsRedisPassword,
			DB:       cfg.rateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		stats = append(stats, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		))
	}
	var promReg *prometheus.Registry
	if cfg.adminAddr != "" {
		promReg = prometheus.NewRegistry()
		stats = append(stats, infra.NewPromStats(promReg))
	}

	// regras da listagem / allow-list de extensões, com hot reload opcional
	rules := staticfiles.NewRulesStore(staticfiles.DefaultRules())
	if cfg.rulesFile != "" {
		r, err := staticfiles.LoadRules(cfg.rulesFile)
		if err != nil {
			log.Fatalf("rules error: %v", err)
		}
		rules.Replace(r)
		if cfg.rulesWatch {
			if err := staticfiles.WatchRules(ctx, cfg.rulesFile, rules, nil); err != nil {
				log.Fatalf("rules watcher error: %v", err)
			}
		}
	}

	files, err := staticfiles.NewHandler(cfg.contentDir,
		staticfiles.WithRules(rules),
		staticfiles.WithHits(hitStore),
	)
	if err != nil {
		log.Fatalf("content error: %v", err)
	}

	h := buildHandler(cfg, nil, limiter, counter, stats, files)

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	var adminSrv *http.Server
	if cfg.adminAddr != "" {
		adminSrv = newAdminServer(cfg.adminAddr, promReg, memStats, counter)
		go func() {
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("admin server error: %v", err)
			}
		}()
	}

	// resumo periódico das estatísticas no log
	if cfg.statsReportEvery > 0 {
		c := cron.New()
		_, err := c.AddFunc("@every "+cfg.statsReportEvery.String(), func() {
			total := memStats.Total()
			log.Printf("stats: received=%d allowed=%d denied=%d", counter.Value(), total.Allowed, total.Denied)
		})
		if err != nil {
			log.Fatalf("stats report schedule error: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
		if adminSrv != nil {
			_ = adminSrv.Shutdown(shutdownCtx)
		}
	}()

	log.Printf("fileserver listening on %s serving %s", cfg.listenAddr, cfg.contentDir)
	log.Printf("rate: enabled=%v strategy=%s max=%d window=%s retryAfter=%s", cfg.rateEnabled, cfg.rateStrategy, cfg.rateMax, cfg.rateWindow, cfg.retryAfter)
	log.Printf("rate-stats: redis=%v addr=%q bucket=%q ttl=%s trackKeys=%v", cfg.rateStatsEnabled, cfg.rateStatsRedisAddr, cfg.rateStatsBucket, cfg.rateStatsTTL, cfg.rateStatsTrackKeys)
	log.Printf("concurrency: max=%d acquireTimeout=%s", cfg.concurrencyMax, cfg.concurrencyTimeout)
	if cfg.adminAddr != "" {
		log.Printf("admin: listening on %s (/metrics, /stats)", cfg.adminAddr)
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// buildHandler monta a cadeia de middlewares na ordem: request-id, access log,
// contenção de panic, contagem + admissão, limite de concorrência e, por fim,
// o servidor de arquivos.
func buildHandler(cfg config, logger *log.Logger, limiter domain.Limiter, counter domain.Counter, stats domain.StatsStore, files http.Handler) http.Handler {
	h := files
	h = ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	})(h)
	h = ratelimit.Middleware(ratelimit.Options{
		Limiter:             limiter,
		Counter:             counter,
		Stats:               stats,
		TrustXForwardedFor:  cfg.trustXFF,
		RejectStatus:        http.StatusTooManyRequests,
		RetryAfter:          cfg.retryAfter,
		AddRateLimitHeaders: cfg.addHeaders,
	})(h)
	h = observe.RecoverMiddleware(logger)(h)
	h = observe.LogMiddleware(logger)(h)
	h = observe.RequestIDMiddleware()(h)
	return h
}

type config struct {
	contentDir string
	listenAddr string

	rateEnabled  bool
	rateStrategy string
	rateMax      int
	rateWindow   time.Duration
	rateBurst    int
	retryAfter   time.Duration
	addHeaders   bool
	trustXFF     bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	rulesFile  string
	rulesWatch bool
	hitsDB     string

	adminAddr        string
	statsReportEvery time.Duration

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
	rateStatsTrackKeys     bool
}

func readConfig(args []string) (config, error) {
	cfg := config{}

	cfg.contentDir = getenvDefault("CONTENT_DIR", "")
	if len(args) > 0 {
		cfg.contentDir = args[0]
	}
	if strings.TrimSpace(cfg.contentDir) == "" {
		return config{}, errors.New("usage: fileserver <content-dir> (or set CONTENT_DIR)")
	}

	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8001")
	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateStrategy = strings.ToLower(getenvDefault("RATE_STRATEGY", "fixedwindow"))
	cfg.rateMax = getenvIntDefault("RATE_MAX", 5)
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", 1*time.Second)
	cfg.rateBurst = getenvIntDefault("RATE_BURST", 0)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)

	// o backstop de admissão é o rate limiter; por padrão a concorrência é
	// ilimitada (uma goroutine por conexão)
	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 0)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.rulesFile = getenvDefault("RULES_FILE", "")
	cfg.rulesWatch = getenvBoolDefault("RULES_WATCH", true)
	cfg.hitsDB = getenvDefault("HITS_DB", "")

	cfg.adminAddr = getenvDefault("ADMIN_ADDR", "")
	cfg.statsReportEvery = getenvDurationDefault("STATS_REPORT_EVERY", 1*time.Minute)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "fileserver:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.rateEnabled {
		if cfg.rateMax <= 0 {
			return config{}, errors.New("RATE_MAX must be > 0")
		}
		if cfg.rateWindow <= 0 {
			return config{}, errors.New("RATE_WINDOW must be > 0")
		}
		if cfg.rateStrategy != "fixedwindow" && cfg.rateStrategy != "tokenbucket" {
			return config{}, fmt.Errorf("RATE_STRATEGY must be fixedwindow or tokenbucket, got %q", cfg.rateStrategy)
		}
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
