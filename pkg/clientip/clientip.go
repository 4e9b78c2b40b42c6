package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the submitter's network origin, best-effort: the first
// X-Forwarded-For entry when the app sits behind a proxy, then X-Real-IP,
// then the direct connection address. Returns "" when nothing usable is
// present; callers store that as absent.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
