// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/scolaria/internal/platform/constants"
	requestutil "github.com/taibuivan/scolaria/internal/platform/request"
)

// CookieScoper builds every auth cookie with one shared Domain decision.
//
// In production, a request served from an establishment subdomain such as
// "lycee-moulin.example.org" gets cookies scoped to ".example.org" so the
// session follows the user across tenants. Everywhere else cookies stay
// host-only.
type CookieScoper struct {
	rootDomain string
	baseURL    string
	production bool
	trustProxy bool
	logger     *slog.Logger
}

// NewCookieScoper creates a scoper. rootDomain is expected in normalized form
// (lowercase, no leading or trailing dot).
func NewCookieScoper(rootDomain, baseURL string, production bool, logger *slog.Logger) *CookieScoper {
	if logger == nil {
		logger = slog.Default()
	}
	return &CookieScoper{
		rootDomain: rootDomain,
		baseURL:    baseURL,
		production: production,
		logger:     logger,
	}
}

// WithTrustedProxy makes [CookieScoper.RequestURL] honor the forwarded
// headers set by the edge proxy.
func (scoper *CookieScoper) WithTrustedProxy(trusted bool) *CookieScoper {
	scoper.trustProxy = trusted
	return scoper
}

// RequestURL returns the absolute URL that drives the Domain decision.
func (scoper *CookieScoper) RequestURL(request *http.Request) string {
	return requestutil.FullURL(request, scoper.trustProxy)
}

/*
ResolveCookieDomain decides the Domain attribute for a request URL.

Description: Returns the root domain when the hostname is a strict subdomain
of it and the scoper runs in production. An empty result means host-only.
An unparsable URL is logged and falls back to BASE_URL with a host-only
cookie; the base URL never widens the Domain.

Parameters:
  - requestURL: string (absolute URL of the incoming request)

Returns:
  - string: Root domain or ""
*/
func (scoper *CookieScoper) ResolveCookieDomain(requestURL string) string {
	if !scoper.production || scoper.rootDomain == "" {
		return ""
	}

	hostname, ok := hostnameOf(requestURL)
	if !ok {
		scoper.logger.Warn("cookie_domain_parse_failed",
			slog.String("url", requestURL),
			slog.String("fallback", scoper.baseURL),
		)
		return ""
	}

	if strings.HasSuffix(hostname, "."+scoper.rootDomain) {
		return scoper.rootDomain
	}
	return ""
}

// Name returns the cookie name for base, prefixed when cookies are Secure.
func (scoper *CookieScoper) Name(base string) string {
	if scoper.production {
		return constants.SecureCookiePrefix + base
	}
	return base
}

/*
Cookie builds an auth cookie.

Parameters:
  - name: string (unprefixed base name)
  - value: string
  - requestURL: string (drives the Domain attribute)
  - expires: time.Time (zero makes a browser-session cookie)

Returns:
  - *http.Cookie: HttpOnly, SameSite=Lax, Path=/, Secure in production
*/
func (scoper *CookieScoper) Cookie(name, value, requestURL string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     scoper.Name(name),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   scoper.production,
		SameSite: http.SameSiteLaxMode,
	}

	if domain := scoper.ResolveCookieDomain(requestURL); domain != "" {
		cookie.Domain = "." + domain
	}

	if !expires.IsZero() {
		cookie.Expires = expires
	}

	return cookie
}

// Set writes the cookie built by [CookieScoper.Cookie] to the response.
func (scoper *CookieScoper) Set(writer http.ResponseWriter, name, value, requestURL string, expires time.Time) {
	http.SetCookie(writer, scoper.Cookie(name, value, requestURL, expires))
}

// Clear expires a cookie using the same Domain it was set with.
func (scoper *CookieScoper) Clear(writer http.ResponseWriter, name, requestURL string) {
	cookie := scoper.Cookie(name, "", requestURL, time.Time{})
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(writer, cookie)
}

// Read returns the value of an auth cookie, or "" when it is absent.
func (scoper *CookieScoper) Read(request *http.Request, name string) string {
	cookie, err := request.Cookie(scoper.Name(name))
	if err != nil {
		return ""
	}
	return cookie.Value
}

func hostnameOf(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return "", false
	}
	return hostname, true
}
