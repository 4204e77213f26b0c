package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const sample = `L 10/30/2021 - 19:42:00: World triggered "Match_Start" on "de_inferno"
L 10/30/2021 - 19:42:00: World triggered "Round_Start"
`

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
	}{
		{"plain.log", []byte(sample)},
		{"match.log.gz", gzipped(t, sample)},
		{"match.log.zst", zstded(t, sample)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			require.NoError(t, os.WriteFile(path, tc.data, 0o600))

			got, err := New().Load(context.Background(), path)
			require.NoError(t, err)
			require.Equal(t, sample, got)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.log"))
	require.Error(t, err)
}

func TestLoadStdin(t *testing.T) {
	l := New()
	l.stdin = strings.NewReader(sample)

	got, err := l.Load(context.Background(), Stdin)
	require.NoError(t, err)
	require.Equal(t, sample, got)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/match.log.zst":
			_, _ = w.Write(zstded(t, sample))
		case "/match.log":
			_, _ = w.Write([]byte(sample))
		default:
			http.Error(w, "not here", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	l := New()
	for _, path := range []string{"/match.log", "/match.log.zst"} {
		got, err := l.Load(context.Background(), srv.URL+path)
		require.NoError(t, err)
		require.Equal(t, sample, got)
	}

	_, err := l.Load(context.Background(), srv.URL+"/missing")
	require.ErrorContains(t, err, "HTTP 404")
}

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("https://example.com/a.log"))
	require.True(t, IsRemote("http://example.com/a.log"))
	require.False(t, IsRemote("/tmp/a.log"))
	require.False(t, IsRemote(Stdin))
}
