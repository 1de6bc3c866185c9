package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/authly/authly/infrastructure/service/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationIDMiddleware ensures every request/response carries a correlation ID
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if cid == "" {
			cid = generateCorrelationID()
		}
		// propagate header to response and context so log lines can be joined
		w.Header().Set(CorrelationIDHeader, cid)
		ctx := logger.WithCorrelationID(r.Context(), cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateCorrelationID() string {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		// fallback to a static value in worst case (should not happen)
		return "unknown"
	}
	return hex.EncodeToString(b)
}