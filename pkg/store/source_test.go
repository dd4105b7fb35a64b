package store

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableflip.dev/medview/pkg/logging"
)

func TestDirSourceReadsCollections(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reportsIndex.json"), []byte(`[]`), 0o644))

	src, err := NewDirSource(dir)
	require.NoError(t, err)

	data, err := src.Fetch(context.Background(), SourceReports)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))

	_, err = src.Fetch(context.Background(), SourceBloodwork)
	require.Error(t, err)

	_, err = src.Fetch(context.Background(), "../etc/passwd")
	require.Error(t, err)
}

func TestDirSourceRequiresDirectory(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrSourceUnavailable)

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))
	_, err = NewDirSource(file)
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestHTTPSourceFetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/data/reportsIndex.json":
			_, _ = w.Write([]byte(`{"reports":[]}`))
		case "/data/bloodwork.json":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/data", time.Second, 1, logging.Discard())
	require.NoError(t, err)

	data, err := src.Fetch(context.Background(), SourceReports)
	require.NoError(t, err)
	require.JSONEq(t, `{"reports":[]}`, string(data))

	hits.Store(0)
	_, err = src.Fetch(context.Background(), SourceBloodwork)
	require.Error(t, err)
	require.Equal(t, int32(2), hits.Load(), "server errors should be retried once")

	hits.Store(0)
	_, err = src.Fetch(context.Background(), SourcePatient)
	require.Error(t, err)
	require.Equal(t, int32(1), hits.Load(), "not found is not retried")
}

func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestHTTPSourceUnreachableHost(t *testing.T) {
	src, err := NewHTTPSource("http://"+closedAddr(t)+"/data", time.Second, 0, logging.Discard())
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), SourceReports)
	require.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = NewLoader(src, DefaultSources(), logging.Discard()).LoadAll(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestHTTPSourceServerErrorsStayPerCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, time.Second, 0, logging.Discard())
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), SourceReports)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSourceUnavailable)

	data, err := NewLoader(src, DefaultSources(), logging.Discard()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, data.Loaded())
	require.Len(t, data.Failed(), len(DefaultSources()))
}

func TestLoadAllStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := SourceFunc(func(ctx context.Context, _ string) ([]byte, error) {
		return nil, ctx.Err()
	})
	_, err := NewLoader(src, DefaultSources(), logging.Discard()).LoadAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewSourcePicksBackend(t *testing.T) {
	dir := t.TempDir()
	src, err := NewSource(&Config{Location: dir}, logging.Discard())
	require.NoError(t, err)
	require.IsType(t, &DirSource{}, src)

	src, err = NewSource(&Config{Location: "https://example.test/records"}, logging.Discard())
	require.NoError(t, err)
	require.IsType(t, &HTTPSource{}, src)

	_, err = NewSource(&Config{Location: "  "}, logging.Discard())
	require.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = NewSource(nil, logging.Discard())
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoadAllFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reportsIndex.json"),
		[]byte(`{"reports":[{"id":"R1","category":"imaging","subcategory":"ct","date":"2025-02-01","title":"CT chest"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patient.json"), []byte(`{"name":"A. Patient"}`), 0o644))

	src, err := NewDirSource(dir)
	require.NoError(t, err)
	data, err := NewLoader(src, DefaultSources(), logging.Discard()).LoadAll(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{SourceReports, SourcePatient}, data.Loaded())

	reports, err := data.Reports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "CT chest", reports[0].Title)
}
