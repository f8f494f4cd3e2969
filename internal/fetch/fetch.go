// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads newspaper edition PDFs from e-paper URLs into the
// raw directory that the archive stage reads from.
package fetch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/news-archive/internal/httputil"
	"github.com/pdiddy/news-archive/internal/logger"
	"github.com/pdiddy/news-archive/pkg/types"
)

const (
	defaultRawDir    = "newspapers/raw"
	defaultUserAgent = "news-archive/1.0"
)

var pdfMagic = []byte("%PDF-")

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Paths      []string
}

// Total returns the total number of URLs processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any download failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Fetcher downloads PDFs over HTTP.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	log    *logger.Logger
}

// New returns a Fetcher. A nil client gets one with cfg.Timeout.
func New(client *http.Client, cfg types.FetchConfig, log *logger.Logger) *Fetcher {
	if cfg.RawDir == "" {
		cfg.RawDir = defaultRawDir
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Fetcher{client: client, cfg: cfg, log: log}
}

// FileName derives the local file name from the last URL path segment.
// It returns "" when the segment does not name a PDF.
func FileName(u *url.URL) string {
	base := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	if !strings.EqualFold(filepath.Ext(base), ".pdf") {
		return ""
	}
	return filepath.Base(base)
}

// dispositionName returns the attachment file name from a
// Content-Disposition header, or "".
func dispositionName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == string(filepath.Separator) || !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return ""
	}
	return name
}

// Fetch downloads rawURL into the raw directory and returns the local
// path. An existing file with the same name is kept and skipped is true.
// The download goes to a temporary file that is renamed only after the
// body has been verified to start with the PDF signature.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, w io.Writer) (dest string, skipped bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false, fmt.Errorf("unsupported URL %q: need http or https", rawURL)
	}

	name := FileName(u)
	if name != "" {
		dest = filepath.Join(f.cfg.RawDir, name)
		if _, err := os.Stat(dest); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			return dest, true, nil
		}
	}

	if err := os.MkdirAll(f.cfg.RawDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", f.cfg.RawDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.log)
	if err != nil {
		return "", false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	if name == "" {
		name = dispositionName(resp.Header.Get("Content-Disposition"))
		if name == "" {
			return "", false, fmt.Errorf("cannot derive a PDF file name from %s", rawURL)
		}
		dest = filepath.Join(f.cfg.RawDir, name)
		if _, err := os.Stat(dest); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			return dest, true, nil
		}
	}

	fmt.Fprintf(w, "downloading: %s\n", name)
	if err := download(resp.Body, dest); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", name, err)
	}
	f.log.Debug("downloaded edition", "url", rawURL, "path", dest)
	return dest, false, nil
}

// download copies body to destPath through a temporary file.
func download(body io.Reader, destPath string) error {
	br := bufio.NewReader(body)
	head, err := br.Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("response is not a PDF")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, br)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FetchBatch downloads each URL in turn, printing per-item status and
// returning a summary. It continues after individual failures and waits
// DownloadDelay between consecutive downloads.
func (f *Fetcher) FetchBatch(ctx context.Context, urls []string, w io.Writer) BatchResult {
	var result BatchResult
	for i, u := range urls {
		if i > 0 && f.cfg.DownloadDelay > 0 {
			if !sleep(ctx, f.cfg.DownloadDelay) {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}
		dest, wasSkipped, err := f.Fetch(ctx, u, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", u, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Paths = append(result.Paths, dest)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
