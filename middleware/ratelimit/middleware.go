package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"fileserver-gateway/middleware/ratelimit/application"
	"fileserver-gateway/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	// Limiter é o limitador global do processo. Nil desliga a admissão.
	Limiter domain.Limiter
	// Counter conta toda requisição bem-formada que chega aqui, antes da
	// decisão de admissão. Nil desliga a contagem.
	Counter domain.Counter
	Stats   domain.StatsStore

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool

	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
}

type limitInfo interface {
	Limit() int
	Window() time.Duration
}

// página devolvida no 429, sem nenhum acesso ao filesystem
const throttledBody = `<!DOCTYPE html>
<html>
<head>
    <title>429 Too Many Requests</title>
</head>
<body>
    <h1>429 Too Many Requests</h1>
    <p>Please slow down and try again later.</p>
</body>
</html>
`

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return ip
					}
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.Service{
		Limiter:    opts.Limiter,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.Counter != nil {
				opts.Counter.Inc()
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if li, ok := opts.Limiter.(limitInfo); ok {
					w.Header().Set("X-RateLimit-Limit", formatInt(li.Limit()))
					w.Header().Set("X-RateLimit-Window", li.Window().String())
				}
			}

			dec := svc.Decide()
			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}
			if !dec.Allowed {
				w.Header().Set("Retry-After", formatInt(int(dec.RetryAfter.Seconds())))
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(opts.RejectStatus)
				_, _ = w.Write([]byte(throttledBody))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
