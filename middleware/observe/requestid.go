package observe

import (
	"net/http"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware garante um identificador único por requisição: reaproveita
// o X-Request-Id de quem chamou (ex: proxy na frente) ou gera um UUID novo.
// O id vai no header da requisição e da resposta, e o access log o inclui.
func RequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)

			next.ServeHTTP(w, r)
		})
	}
}
