package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowAppendCovers(t *testing.T) {
	var w window
	w.append([]byte("hello "))
	w.append([]byte("world"))

	assert.Equal(t, int64(11), w.end())
	assert.True(t, w.covers(0, 11))
	assert.True(t, w.covers(6, 11))
	assert.False(t, w.covers(0, 12))
	assert.Equal(t, []byte("world"), w.slice(6, 11))
}

func TestWindowTrim(t *testing.T) {
	var w window
	w.append([]byte("0123456789"))

	w.trim(4)
	assert.Equal(t, int64(4), w.origin)
	assert.Equal(t, int64(10), w.end())
	assert.False(t, w.covers(3, 5))
	assert.Equal(t, []byte("456789"), w.slice(4, 10))
}

func TestWindowTrimBeforeOrigin(t *testing.T) {
	var w window
	w.append([]byte("0123456789"))
	w.trim(4)

	// Trimming below the current origin must not move it backwards.
	w.trim(2)
	assert.Equal(t, int64(4), w.origin)
	assert.Equal(t, []byte("456789"), w.slice(4, 10))
}

func TestWindowTrimAll(t *testing.T) {
	var w window
	w.append([]byte("0123456789"))

	w.trim(10)
	assert.Equal(t, int64(10), w.origin)
	assert.Equal(t, int64(10), w.end())

	w.append([]byte("ab"))
	require.True(t, w.covers(10, 12))
	assert.Equal(t, []byte("ab"), w.slice(10, 12))
}

func TestWindowSliceCopies(t *testing.T) {
	var w window
	w.append([]byte("abcdef"))

	got := w.slice(0, 3)
	w.trim(6)
	w.append([]byte("xyzxyz"))
	assert.Equal(t, []byte("abc"), got)
}
