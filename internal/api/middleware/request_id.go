package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader заголовок корреляции запросов
const RequestIDHeader = "X-Request-ID"

type ctxKeyRequestID struct{}

// RequestID пробрасывает X-Request-ID от шлюза или генерирует новый
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID ID текущего запроса, пустая строка вне RequestID
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return requestID
}
