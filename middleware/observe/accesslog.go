package observe

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"
)

// statusRecorder captura o status escrito para o access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wrote {
		rec.status = code
		rec.wrote = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	if !rec.wrote {
		rec.status = http.StatusOK
		rec.wrote = true
	}
	return rec.ResponseWriter.Write(p)
}

// LogMiddleware escreve uma linha por requisição: método, path, status, duração
// e request-id. Se logger for nil usa o logger padrão do processo.
func LogMiddleware(logger *log.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			begin := time.Now()

			next.ServeHTTP(rec, r)

			logger.Printf("%s %s -> %d (%s) reqid=%s",
				r.Method, r.URL.Path, rec.status, time.Since(begin).Round(time.Microsecond), r.Header.Get(RequestIDHeader))
		})
	}
}

// RecoverMiddleware contém panics do handler: loga com stack e responde 500,
// se ainda der tempo de escrever o status.
func RecoverMiddleware(logger *log.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				if p := recover(); p != nil {
					logger.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
					if !rec.wrote {
						http.Error(rec, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					}
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
