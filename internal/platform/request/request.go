// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/scolaria/internal/platform/apperr"
	"github.com/taibuivan/scolaria/internal/platform/constants"
	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
	"github.com/taibuivan/scolaria/internal/platform/sec"
	"github.com/taibuivan/scolaria/internal/platform/validate"
)

// maxBodyBytes caps auth payloads; credentials never need more.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the decoded session from the request context.

Returns nil if the request is not authenticated.
*/
func Session(request *http.Request) *sec.Session {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns its session.

Returns:
  - *sec.Session: The decoded session
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*sec.Session, error) {
	session := ctxutil.GetSession(request.Context())
	if session == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return session, nil
}

/*
FullURL reconstructs the absolute URL the client used to reach the server.

X-Forwarded-Proto and X-Forwarded-Host are only read when trustProxy is set,
that is when an edge proxy overwrites them on every request. A request
forwarded for "lycee-moulin.example.org" then keeps that hostname.
*/
func FullURL(request *http.Request, trustProxy bool) string {
	scheme := "http"
	if request.TLS != nil {
		scheme = "https"
	}

	host := request.Host
	if trustProxy {
		if forwarded := request.Header.Get(constants.HeaderXForwardedProt); forwarded != "" {
			scheme = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		if forwarded := request.Header.Get(constants.HeaderXForwardedHost); forwarded != "" {
			host = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}

	full := url.URL{Scheme: scheme, Host: host, Path: request.URL.Path}
	return full.String()
}
