// Package loader fetches raw server logs from disk, stdin or HTTP, undoing
// gzip, bzip2 or zstd compression when present.
package loader

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Stdin is the source name that reads from standard input.
const Stdin = "-"

// maxLogSize caps how much a single log may decompress to.
const maxLogSize = 512 << 20

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte("BZh")
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Loader resolves log sources. The zero value is not usable; use New.
type Loader struct {
	httpClient *http.Client
	stdin      io.Reader
}

// New returns a Loader with a 30s HTTP timeout reading stdin from os.Stdin.
func New() *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stdin:      os.Stdin,
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the decompressed text of source: "-" for stdin, an http(s)
// URL, or a file path.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	switch {
	case source == Stdin:
		return readAll(l.stdin)
	case IsRemote(source):
		return l.fetch(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return "", fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		return readAll(f)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	slog.Info("Downloading log", slog.String("url", url))
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("download log: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return readAll(resp.Body)
}

// readAll sniffs the compression format from the leading bytes and returns
// the decoded text.
func readAll(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)

	var src io.Reader = br
	switch {
	case bytes.HasPrefix(head, magicGzip):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	case bytes.HasPrefix(head, magicBzip2):
		src = bzip2.NewReader(br)
	case bytes.HasPrefix(head, magicZstd):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	data, err := io.ReadAll(io.LimitReader(src, maxLogSize+1))
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	if len(data) > maxLogSize {
		return "", fmt.Errorf("read log: larger than %d bytes", maxLogSize)
	}
	return string(data), nil
}
