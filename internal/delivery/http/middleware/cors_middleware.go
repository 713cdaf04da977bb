package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// How long browsers may cache a preflight answer.
const corsPreflightMaxAge = 5 * time.Minute

// CORSMiddleware answers browser preflights for the staff dashboard.
// Origins stay open; access control lives in the JWT layer behind it.
type CORSMiddleware struct {
	allowedMethods string
	allowedHeaders string
}

func NewCORSMiddleware() *CORSMiddleware {
	return &CORSMiddleware{
		allowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
		allowedHeaders: "Content-Type, Authorization",
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	maxAge := strconv.Itoa(int(corsPreflightMaxAge.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if req.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", m.allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", m.allowedHeaders)
			w.Header().Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
