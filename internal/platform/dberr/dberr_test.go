// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/scolaria/internal/platform/apperr"
	"github.com/taibuivan/scolaria/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "get_etablissement", "Etablissement"))

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"malformed_key", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, http.StatusNotFound},
		{"other_pg_error", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, http.StatusInternalServerError},
		{"connection", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appError := apperr.As(dberr.Wrap(tt.err, "get_etablissement", "Etablissement"))
			require.NotNil(t, appError)
			assert.Equal(t, tt.status, appError.HTTPStatus)
		})
	}
}
