package server

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the request ID stored on ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withMiddleware adds request IDs, logging, recovery, CORS, rate limiting,
// security headers and a body size limit.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := s.clientAddr(r)

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		rw.Header().Set("X-Request-ID", requestID)
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")
		rw.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(ctx, "Panic while serving request",
					"request_id", requestID,
					"panic", rec,
					"stack", string(debug.Stack()))
				if !rw.wroteHeader {
					writeError(rw, http.StatusInternalServerError, "Internal server error")
				}
			}

			level := s.logger.Info
			if rw.statusCode >= http.StatusInternalServerError {
				level = s.logger.Warn
			}
			level("Request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", clientIP)
		}()

		if s.applyCORS(rw, r) && r.Method == http.MethodOptions {
			rw.WriteHeader(http.StatusNoContent)
			return
		}

		if r.Method == http.MethodPost && s.limiter != nil && !s.limiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "path", r.URL.Path)
			rw.Header().Set("Retry-After", "60")
			writeError(rw, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		if r.Body != nil {
			r.Body = http.MaxBytesReader(rw, r.Body, s.maxBody)
		}

		next.ServeHTTP(rw, r)
	})
}

// applyCORS sets CORS headers for allowed origins and reports whether it did.
func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || !(s.allowAll || s.origins[origin]) {
		return false
	}

	h := w.Header()
	if s.allowAll {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	h.Set("Access-Control-Max-Age", "600")
	return true
}

// clientAddr identifies the caller for rate limiting. Forwarding headers
// are honoured only when the direct peer is a trusted proxy.
func (s *Server) clientAddr(r *http.Request) string {
	host := remoteHost(r.RemoteAddr)
	if !s.trustedProxy(host) {
		return host
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	return host
}

func (s *Server) trustedProxy(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s.proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// parseProxy accepts a single address or a CIDR range.
func parseProxy(raw string) (netip.Prefix, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/") {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return netip.Prefix{}, err
		}
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
