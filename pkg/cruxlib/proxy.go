package cruxlib

import (
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

var (
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
)

var supportedProxySchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// NewHTTPClientWithProxy creates the HTTP client used for manifest and
// artifact fetches. The client never carries a cookie jar. If proxyURL
// is empty, proxy settings are taken from the environment.
func NewHTTPClientWithProxy(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		}, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrInvalidProxyURL
	}
	if !supportedProxySchemes[parsed.Scheme] {
		return nil, ErrUnsupportedScheme
	}

	transport := &http.Transport{}
	if parsed.Scheme == "socks5" {
		var auth *proxy.Auth
		if parsed.User != nil {
			pass, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: pass,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, err
		}
		transport.Dial = dialer.Dial
	} else {
		transport.Proxy = http.ProxyURL(parsed)
	}

	return &http.Client{Transport: transport}, nil
}
