// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranc1ngpegasus/docata/services/docata"
	"github.com/pranc1ngpegasus/docata/services/docata/relation"
)

func TestExecuteServe(t *testing.T) {
	root := docsTree(t)
	catalogPath := filepath.Join(t.TempDir(), "catalog.json")
	svc := docata.NewService(docata.DefaultServiceConfig())
	_, err := svc.WriteCatalog(context.Background(), root, catalogPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan int, 1)
	var stderr bytes.Buffer
	go func() {
		done <- executeServe(ctx, svc, serveOptions{
			Addr:    "127.0.0.1:0",
			Handler: docata.HandlerConfig{DocsDir: root, CatalogLocation: catalogPath},
			ready:   ready,
		}, &stderr)
	}()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get("http://" + addr + "/v1/docata/refs/glossary")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var refs relation.Response
	require.NoError(t, json.Unmarshal(body, &refs))
	assert.Equal(t, []string{"adr-1", "guide"}, refs.IDs())

	resp, err = client.Get("http://" + addr + "/v1/docata/check")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitSuccess, code, stderr.String())
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestExecuteServe_BadAddress(t *testing.T) {
	var stderr bytes.Buffer
	code := executeServe(context.Background(), docata.NewService(docata.DefaultServiceConfig()), serveOptions{
		Addr: "256.0.0.1:-1",
	}, &stderr)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr.String(), "error:")
}
