package middlewares

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPMiddleware resolves the client address and sets RemoteAddr to "IP:port"
// for consistency throughout the application. Forwarding headers are only honored
// when the connecting peer is inside trustedProxies.
func ClientIPMiddleware(trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractClientIP(r, trustedProxies)

			if clientIP != "" {
				_, port, err := net.SplitHostPort(r.RemoteAddr)
				if err == nil && port != "" {
					r.RemoteAddr = net.JoinHostPort(clientIP, port)
				} else {
					r.RemoteAddr = net.JoinHostPort(clientIP, "0")
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the address ClientIPMiddleware resolved for the request, without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func extractClientIP(r *http.Request, trustedProxies []netip.Prefix) string {
	peer, ok := peerAddr(r.RemoteAddr)
	if !ok {
		return ""
	}

	if !isTrustedProxy(peer, trustedProxies) {
		return peer.String()
	}

	if ip := r.Header.Get("True-Client-IP"); ip != "" {
		if parsed := net.ParseIP(strings.TrimSpace(ip)); parsed != nil {
			return parsed.String()
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if parsed := net.ParseIP(strings.TrimSpace(ip)); parsed != nil {
			return parsed.String()
		}
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if parsed := net.ParseIP(ip); parsed != nil {
				return parsed.String()
			}
		}
	}

	return peer.String()
}

func peerAddr(remoteAddr string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func isTrustedProxy(peer netip.Addr, trustedProxies []netip.Prefix) bool {
	for _, prefix := range trustedProxies {
		if prefix.Contains(peer) {
			return true
		}
	}
	return false
}
