package proxy

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Parse validates a proxy URL. Only absolute http, https and socks5 URLs are accepted.
func Parse(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
		return u, true
	default:
		return nil, false
	}
}

// Transport builds the outbound transport shared by all HTTP clients.
// An invalid proxy is logged and the transport connects directly.
func Transport(raw string, log *slog.Logger) *http.Transport {
	tr := &http.Transport{
		Proxy:                 nil,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	if strings.TrimSpace(raw) == "" {
		return tr
	}

	u, ok := Parse(raw)
	if !ok {
		log.Warn("invalid proxy url, connecting directly", "proxy", raw)
		return tr
	}

	tr.Proxy = http.ProxyURL(u)
	log.Info("using proxy", "proxy", u.Redacted())
	return tr
}
