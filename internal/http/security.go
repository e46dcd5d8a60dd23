package http

import (
	"net/http"
	"strconv"
)

// SecurityHeaders holds the response headers applied to every API response.
type SecurityHeaders struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginResource string
	HSTSMaxAge          int
}

// DefaultSecurityHeaders returns defaults for a JSON-only API.
func DefaultSecurityHeaders() SecurityHeaders {
	return SecurityHeaders{
		CSP:                 "default-src 'none'; frame-ancestors 'none'",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "no-referrer",
		PermissionsPolicy:   "geolocation=(), microphone=(), camera=(), payment=()",
		CrossOriginResource: "same-origin",
		HSTSMaxAge:          31536000,
	}
}

func (h SecurityHeaders) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		if h.CSP != "" {
			hdr.Set("Content-Security-Policy", h.CSP)
		}
		if h.XFrameOptions != "" {
			hdr.Set("X-Frame-Options", h.XFrameOptions)
		}
		if h.XContentTypeOptions != "" {
			hdr.Set("X-Content-Type-Options", h.XContentTypeOptions)
		}
		if h.ReferrerPolicy != "" {
			hdr.Set("Referrer-Policy", h.ReferrerPolicy)
		}
		if h.PermissionsPolicy != "" {
			hdr.Set("Permissions-Policy", h.PermissionsPolicy)
		}
		if h.CrossOriginResource != "" {
			hdr.Set("Cross-Origin-Resource-Policy", h.CrossOriginResource)
		}
		// HSTS only makes sense over TLS.
		if r.TLS != nil && h.HSTSMaxAge > 0 {
			hdr.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(h.HSTSMaxAge)+"; includeSubDomains")
		}
		hdr.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
