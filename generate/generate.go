// Package generate produces synthetic encoded corpora for exercising the
// indexer at scale. Seed bytes come from an HTTP download or from random
// data, then get encoded and appended repeatedly until the output reaches
// a target size.
package generate

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	xrate "golang.org/x/time/rate"

	"github.com/flatdex/flatdex/codec"
)

const (
	// DefaultTargetSize is used when no target is given.
	DefaultTargetSize = 100 * 1024 * 1024 * 1024
	// randomSeedSize is the amount of random seed data generated when no
	// source URL is supplied.
	randomSeedSize = 1024 * 1024
)

// ErrEncodingRequired is returned when no encoding (or the identity
// encoding) is requested; an unencoded corpus needs no generator.
var ErrEncodingRequired = errors.New("an encoding other than none is required")

// Options configures a generation run.
type Options struct {
	// URL is an optional source to download seed data from. URLs ending
	// in .zip are extracted and their members concatenated. When empty,
	// random seed data is used.
	URL string
	// Encoding names the codec applied to each repetition. Required.
	Encoding string
	// TargetSize is the minimum output size in bytes.
	TargetSize int64
	// Output is the destination path. Empty means a temp file.
	Output string
	// Client overrides the HTTP client used for downloads.
	Client *http.Client
	Logger *slog.Logger
}

// Run generates the corpus and returns the path of the written file.
func Run(ctx context.Context, opts Options) (string, error) {
	if opts.Encoding == "" || opts.Encoding == "none" {
		return "", ErrEncodingRequired
	}
	c, err := codec.ByName(opts.Encoding)
	if err != nil {
		return "", err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	target := opts.TargetSize
	if target <= 0 {
		target = DefaultTargetSize
	}

	seed, err := seedData(ctx, opts, logger)
	if err != nil {
		return "", err
	}
	logger.Info("seed data ready", "size", humanize.IBytes(uint64(len(seed))))

	// Every repetition encodes identically, so encode once up front.
	encoded, err := c.Encode(seed)
	if err != nil {
		return "", err
	}

	path := opts.Output
	var f *os.File
	if path == "" {
		f, err = os.CreateTemp("", "flatdex_*.bin")
		if err != nil {
			return "", err
		}
		path = f.Name()
	} else {
		f, err = os.Create(path)
		if err != nil {
			return "", err
		}
	}

	logger.Info("writing corpus",
		"output", path,
		"target", humanize.IBytes(uint64(target)),
		"encoding", c.Name(),
	)
	progress := xrate.NewLimiter(xrate.Every(time.Second), 1)
	var written int64
	for written < target {
		if err := ctx.Err(); err != nil {
			f.Close()
			return "", err
		}
		n, err := f.Write(encoded)
		written += int64(n)
		if err != nil {
			f.Close()
			return "", fmt.Errorf("write corpus: %w", err)
		}
		if progress.Allow() {
			logger.Info("generation progress",
				"written", humanize.IBytes(uint64(written)),
				"percent", fmt.Sprintf("%.1f", float64(written)/float64(target)*100),
			)
		}
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	logger.Info("corpus generated", "output", path, "size", humanize.IBytes(uint64(written)))
	return path, nil
}

// seedData resolves the bytes each repetition of the corpus encodes.
func seedData(ctx context.Context, opts Options, logger *slog.Logger) ([]byte, error) {
	if opts.URL == "" {
		logger.Info("generating random seed data")
		seed := make([]byte, randomSeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, err
		}
		return seed, nil
	}

	data, err := download(ctx, opts.Client, opts.URL, logger)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(opts.URL, ".zip") {
		logger.Info("extracting zip archive")
		zc, err := codec.ByName("zip")
		if err != nil {
			return nil, err
		}
		return zc.Decode(data)
	}
	return data, nil
}

func download(ctx context.Context, client *http.Client, url string, logger *slog.Logger) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	logger.Info("downloading seed data", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	logger.Info("download complete", "size", humanize.IBytes(uint64(len(data))))
	return data, nil
}
