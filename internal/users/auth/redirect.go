// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/url"
	"strings"
)

// safeCallbackURL keeps raw when it points back into the platform and falls
// back to baseURL otherwise.
//
// Accepted: relative paths, the BASE_URL host, the root domain and any of its
// subdomains. Protocol-relative paths ("//host") are rejected.
func safeCallbackURL(raw, baseURL, rootDomain string) string {
	if raw == "" {
		return baseURL
	}

	if strings.HasPrefix(raw, "/") {
		if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
			return baseURL
		}
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return baseURL
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return baseURL
	}

	if baseHost, ok := hostnameOf(baseURL); ok && host == baseHost {
		return raw
	}

	if rootDomain != "" && (host == rootDomain || strings.HasSuffix(host, "."+rootDomain)) {
		return raw
	}

	return baseURL
}
