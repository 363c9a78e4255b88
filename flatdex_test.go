package flatdex_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatdex/flatdex"
	"github.com/flatdex/flatdex/index"
)

func newEngine(t *testing.T, optFns ...flatdex.Option) *flatdex.Engine {
	t.Helper()
	fx, err := flatdex.Open(filepath.Join(t.TempDir(), "index.db"), optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { fx.Close() })
	return fx
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestImportAndSearch(t *testing.T) {
	fx := newEngine(t)
	path := writeFile(t, "plain.txt", []byte("error timeout on node a\nall good\nerror disk full"))

	stats, err := fx.ImportFile(context.Background(), path, "none", flatdex.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Records)

	matches, err := fx.Search(context.Background(), "error", "")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "error timeout on node a", matches[0].Text)
	assert.Equal(t, "error disk full", matches[1].Text)
}

func TestImportBase64Source(t *testing.T) {
	plain := "alpha one\nbeta two\nalpha three"
	encoded := base64.StdEncoding.EncodeToString([]byte(plain))

	fx := newEngine(t)
	path := writeFile(t, "data.b64", []byte(encoded))

	_, err := fx.ImportFile(context.Background(), path, "base64", flatdex.ImportOptions{})
	require.NoError(t, err)

	matches, err := fx.Search(context.Background(), "alpha", "")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "alpha one", matches[0].Text)
	assert.Equal(t, "alpha three", matches[1].Text)
}

func TestImportGzipSource(t *testing.T) {
	plain := "alpha one\nbeta two\nalpha three"
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	fx := newEngine(t)
	path := writeFile(t, "data.gz", buf.Bytes())

	_, err = fx.ImportFile(context.Background(), path, "gzip", flatdex.ImportOptions{})
	require.NoError(t, err)

	matches, err := fx.Search(context.Background(), "beta", "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "beta two", matches[0].Text)
}

func TestImportAcuityFilter(t *testing.T) {
	lines := make([]string, 0, 6)
	for i := 0; i < 5; i++ {
		lines = append(lines, "common word")
	}
	lines = append(lines, "rare singleton")

	fx := newEngine(t)
	path := writeFile(t, "plain.txt", []byte(strings.Join(lines, "\n")))

	stats, err := fx.ImportFile(context.Background(), path, "none", flatdex.ImportOptions{Acuity: 3})
	require.NoError(t, err)
	// "rare" and "singleton" occur once each and are pruned.
	assert.Equal(t, int64(2), stats.Tokens)

	matches, err := fx.Search(context.Background(), "rare", "")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = fx.Search(context.Background(), "common", "")
	require.NoError(t, err)
	assert.Len(t, matches, 5)
}

func TestImportCustomSeparator(t *testing.T) {
	fx := newEngine(t)
	path := writeFile(t, "data.txt", []byte("alpha one;;beta two;;alpha three"))

	_, err := fx.ImportFile(context.Background(), path, "none", flatdex.ImportOptions{Separator: ";;"})
	require.NoError(t, err)

	matches, err := fx.Search(context.Background(), "beta", "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "beta two", matches[0].Text)
}

func TestImportReplacesIndex(t *testing.T) {
	fx := newEngine(t)
	first := writeFile(t, "first.txt", []byte("alpha one"))
	second := writeFile(t, "second.txt", []byte("beta two"))

	_, err := fx.ImportFile(context.Background(), first, "none", flatdex.ImportOptions{})
	require.NoError(t, err)
	_, err = fx.ImportFile(context.Background(), second, "none", flatdex.ImportOptions{})
	require.NoError(t, err)

	matches, err := fx.Search(context.Background(), "alpha", "")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = fx.Search(context.Background(), "beta", "")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearchEmptyIndex(t *testing.T) {
	fx := newEngine(t)
	_, err := fx.Search(context.Background(), "anything", "")
	assert.ErrorIs(t, err, flatdex.ErrIndexEmpty)
}

func TestImportUnknownEncoding(t *testing.T) {
	fx := newEngine(t)
	_, err := fx.Import(context.Background(), strings.NewReader("x"), "x.txt", "nope", flatdex.ImportOptions{})
	assert.ErrorIs(t, err, flatdex.ErrUnknownEncoding)
}

func TestStdinImportNeedsOverride(t *testing.T) {
	fx := newEngine(t)
	_, err := fx.Import(context.Background(), strings.NewReader("alpha one"), index.StdinName, "none", flatdex.ImportOptions{})
	require.NoError(t, err)

	_, err = fx.Search(context.Background(), "alpha", "")
	assert.ErrorIs(t, err, flatdex.ErrNoSourcePath)

	copyPath := writeFile(t, "copy.txt", []byte("alpha one"))
	matches, err := fx.Search(context.Background(), "alpha", copyPath)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestPrune(t *testing.T) {
	fx := newEngine(t)
	path := writeFile(t, "plain.txt", []byte("aa aa aa\nbb\naa"))

	_, err := fx.ImportFile(context.Background(), path, "none", flatdex.ImportOptions{})
	require.NoError(t, err)

	removed, _, err := fx.Prune(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stats, err := fx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Tokens)
}
