// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranc1ngpegasus/docata/services/docata/relation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(svc *Service, config HandlerConfig) *gin.Engine {
	router := gin.New()
	handlers := NewHandlers(svc, config)
	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

// builtCatalog writes validDocs and its catalog, returning both locations.
func builtCatalog(t *testing.T) (root, location string) {
	t.Helper()
	root = validDocs(t)
	location = filepath.Join(t.TempDir(), "catalog.json")
	_, err := newTestService().WriteCatalog(context.Background(), root, location)
	require.NoError(t, err)
	return root, location
}

func doGet(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router := setupTestRouter(newTestService(), HandlerConfig{})

	w := doGet(t, router, "/v1/docata/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceVersion, resp.Version)
}

func TestHandleDeps(t *testing.T) {
	_, location := builtCatalog(t)
	router := setupTestRouter(newTestService(), HandlerConfig{CatalogLocation: location})

	w := doGet(t, router, "/v1/docata/deps/a")
	require.Equal(t, http.StatusOK, w.Code)

	var resp relation.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, relation.KindDeps, resp.Command)
	assert.Equal(t, "a", resp.QueryID)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"b"}, resp.IDs())
	assert.True(t, resp.Items[0].Resolved)
}

func TestHandleRefs(t *testing.T) {
	_, location := builtCatalog(t)
	router := setupTestRouter(newTestService(), HandlerConfig{CatalogLocation: location})

	w := doGet(t, router, "/v1/docata/refs/c")
	require.Equal(t, http.StatusOK, w.Code)

	var resp relation.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, relation.KindRefs, resp.Command)
	assert.Equal(t, []string{"b"}, resp.IDs())
}

func TestHandleRelation_UnknownID(t *testing.T) {
	_, location := builtCatalog(t)
	router := setupTestRouter(newTestService(), HandlerConfig{CatalogLocation: location})

	t.Run("lenient", func(t *testing.T) {
		w := doGet(t, router, "/v1/docata/deps/zzz")
		require.Equal(t, http.StatusOK, w.Code)
		var resp relation.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
	})

	t.Run("strict", func(t *testing.T) {
		w := doGet(t, router, "/v1/docata/deps/zzz?strict=true")
		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeQueryIDNotFound, resp.Code)
	})

	t.Run("invalid strict", func(t *testing.T) {
		w := doGet(t, router, "/v1/docata/refs/a?strict=maybe")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeInvalidParameter, resp.Code)
	})
}

func TestHandleRelation_SlashInID(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "adr/001.md", "---\nid: adr/001\ndeps: [adr/002]\n---\n")
	writeDoc(t, root, "adr/002.md", "---\nid: adr/002\n---\n")
	location := filepath.Join(t.TempDir(), "catalog.json")
	_, err := newTestService().WriteCatalog(context.Background(), root, location)
	require.NoError(t, err)
	router := setupTestRouter(newTestService(), HandlerConfig{CatalogLocation: location})

	tests := []struct {
		name string
		url  string
		want []string
	}{
		{"deps", "/v1/docata/deps/adr/001?strict=true", []string{"adr/002"}},
		{"deps escaped", "/v1/docata/deps/adr%2F001?strict=true", []string{"adr/002"}},
		{"refs", "/v1/docata/refs/adr/002?strict=true", []string{"adr/001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(t, router, tt.url)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var resp relation.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.IDs())
		})
	}

	t.Run("empty id", func(t *testing.T) {
		w := doGet(t, router, "/v1/docata/deps/")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeInvalidParameter, resp.Code)
	})
}

func TestHandleRelation_MissingCatalog(t *testing.T) {
	router := setupTestRouter(newTestService(), HandlerConfig{
		CatalogLocation: filepath.Join(t.TempDir(), "none.json"),
	})

	w := doGet(t, router, "/v1/docata/deps/a")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeCatalogUnavailable, resp.Code)
	assert.Contains(t, resp.Error, "catalog not found")
}

func TestHandleCheck(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		root, location := builtCatalog(t)
		router := setupTestRouter(newTestService(), HandlerConfig{DocsDir: root, CatalogLocation: location})

		w := doGet(t, router, "/v1/docata/check")
		require.Equal(t, http.StatusOK, w.Code)
		var resp CheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
	})

	t.Run("drift", func(t *testing.T) {
		root, location := builtCatalog(t)
		writeDoc(t, root, "d.md", "---\nid: d\n---\n")
		router := setupTestRouter(newTestService(), HandlerConfig{DocsDir: root, CatalogLocation: location})

		w := doGet(t, router, "/v1/docata/check")
		require.Equal(t, http.StatusConflict, w.Code)
		var resp DriftResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeCatalogDrift, resp.Code)
		assert.Equal(t, location, resp.Location)
		require.Len(t, resp.Diff.AddedNodes, 1)
		assert.Equal(t, "d", resp.Diff.AddedNodes[0].ID)
	})

	t.Run("validation", func(t *testing.T) {
		root, location := builtCatalog(t)
		writeDoc(t, root, "e.md", "---\nid: e\ndeps: [ghost]\n---\n")
		router := setupTestRouter(newTestService(), HandlerConfig{DocsDir: root, CatalogLocation: location})

		w := doGet(t, router, "/v1/docata/check")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp ValidationFailedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeValidationFailed, resp.Code)
		require.Len(t, resp.Report.UnresolvedDependencies, 1)
		assert.Equal(t, "ghost", resp.Report.UnresolvedDependencies[0].To)
	})

	t.Run("missing catalog", func(t *testing.T) {
		router := setupTestRouter(newTestService(), HandlerConfig{
			DocsDir:         validDocs(t),
			CatalogLocation: filepath.Join(t.TempDir(), "none.json"),
		})

		w := doGet(t, router, "/v1/docata/check")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		router := setupTestRouter(newTestService(), HandlerConfig{})

		w := doGet(t, router, "/v1/docata/check")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter(newTestService(), HandlerConfig{})

	req, err := http.NewRequest(http.MethodGet, "/v1/docata/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = doGet(t, router, "/v1/docata/health")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewRouter(t *testing.T) {
	handlers := NewHandlers(newTestService(), HandlerConfig{Version: "9.9.9"})
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("docata_build_total 1\n"))
	})

	router := NewRouter(handlers, metrics)

	w := doGet(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "docata_build_total")

	w = doGet(t, router, "/v1/docata/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "9.9.9")

	bare := NewRouter(handlers, nil)
	w = doGet(t, bare, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
