package generate

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresEncoding(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrEncodingRequired)

	_, err = Run(context.Background(), Options{Encoding: "none"})
	assert.ErrorIs(t, err, ErrEncodingRequired)
}

func TestRunUnknownEncoding(t *testing.T) {
	_, err := Run(context.Background(), Options{Encoding: "nope"})
	require.Error(t, err)
}

func TestRunRandomSeed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "corpus.bin")
	path, err := Run(context.Background(), Options{
		Encoding:   "hex",
		TargetSize: 64 * 1024,
		Output:     out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, path)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fi.Size(), int64(64*1024))
}

func TestRunTempOutput(t *testing.T) {
	path, err := Run(context.Background(), Options{
		Encoding:   "base64",
		TargetSize: 1024,
	})
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fi.Size(), int64(1024))
}

func TestRunDownloadedSeed(t *testing.T) {
	seed := bytes.Repeat([]byte("alpha beta gamma\n"), 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(seed)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "corpus.bin")
	_, err := Run(context.Background(), Options{
		URL:        srv.URL + "/seed.txt",
		Encoding:   "gzip",
		TargetSize: 1024,
		Output:     out,
		Client:     srv.Client(),
	})
	require.NoError(t, err)

	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fi.Size(), int64(1024))
}

func TestRunZipSeedExtracted(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range []struct{ name, body string }{
		{"a.txt", "first member "},
		{"b.txt", "second member"},
	} {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "corpus.bin")
	_, err := Run(context.Background(), Options{
		URL:        srv.URL + "/seed.zip",
		Encoding:   "hex",
		TargetSize: 16,
		Output:     out,
		Client:     srv.Client(),
	})
	require.NoError(t, err)

	// One hex repetition of the concatenated members.
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "6669727374206d656d6265722073")
}

func TestRunDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Run(context.Background(), Options{
		URL:      srv.URL + "/seed.txt",
		Encoding: "gzip",
		Client:   srv.Client(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{
		Encoding:   "hex",
		TargetSize: 1024,
		Output:     filepath.Join(t.TempDir(), "corpus.bin"),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
