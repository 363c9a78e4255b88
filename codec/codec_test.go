package codec

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []byte("Hello, World! This is a test message with numbers 12345 and symbols @#$%")

func TestRoundTrip(t *testing.T) {
	names := []string{
		"none", "base64", "ascii85", "hex",
		"gzip", "zlib", "bz2", "brotli", "zstd", "lz4",
		"rot13", "rot7", "caesar:3", "caesar:-5",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)

			for _, input := range [][]byte{sample, {}} {
				encoded, err := c.Encode(input)
				require.NoError(t, err)

				decoded, err := c.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, input, decoded, "input %q", input)
			}
		})
	}
}

func TestByNameAliases(t *testing.T) {
	tests := map[string]string{
		"GZ":          "gzip",
		"bzip2":       "bz2",
		"a85":         "ascii85",
		"base16":      "hex",
		"hexadecimal": "hex",
		"uu":          "uuencode",
		"xx":          "xxencode",
		"rot":         "rot13",
		"caesar":      "caesar:3",
		" Base64 ":    "base64",
	}
	for alias, canonical := range tests {
		c, err := ByName(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, canonical, c.Name(), alias)
	}
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("morse")
	require.ErrorIs(t, err, ErrUnknown)
}

func TestRot13SelfInverse(t *testing.T) {
	c, err := ByName("rot13")
	require.NoError(t, err)

	once, err := c.Decode(sample)
	require.NoError(t, err)
	twice, err := c.Decode(once)
	require.NoError(t, err)
	assert.Equal(t, sample, twice)
}

func TestRotLeavesNonLettersAlone(t *testing.T) {
	c, err := ByName("rot13")
	require.NoError(t, err)

	out, err := c.Decode([]byte("abc XYZ 123 !?\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("nop KLM 123 !?\n"), out)
}

func TestCaesarShiftsLeftOnDecode(t *testing.T) {
	c, err := ByName("caesar:3")
	require.NoError(t, err)

	out, err := c.Decode([]byte("Khoor"))
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), out)
}

func TestZipDecodeConcatenatesMembers(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range []struct{ name, body string }{
		{"a.txt", "first "},
		{"b.txt", "second"},
	} {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	c, err := ByName("zip")
	require.NoError(t, err)

	out, err := c.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []byte("first second"), out)

	_, err = c.Encode(nil)
	require.Error(t, err)
}

func TestTarDecodeConcatenatesMembers(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, m := range []struct{ name, body string }{
		{"a.txt", "alpha "},
		{"b.txt", "beta"},
	} {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: m.name,
			Mode: 0o644,
			Size: int64(len(m.body)),
		}))
		_, err := tw.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	c, err := ByName("tar")
	require.NoError(t, err)

	out, err := c.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha beta"), out)
}

func TestUudecode(t *testing.T) {
	// "Cat" uuencoded: length 3, then one quad.
	encoded := "begin 644 data\n#0V%T\n`\nend\n"

	c, err := ByName("uuencode")
	require.NoError(t, err)

	out, err := c.Decode([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, []byte("Cat"), out)

	_, err = c.Encode([]byte("Cat"))
	require.Error(t, err)
}

func TestDecodeCorruptInput(t *testing.T) {
	for _, name := range []string{"base64", "hex", "gzip", "zlib", "zip"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)

			_, err = c.Decode([]byte("!!! definitely not " + name + " !!!"))
			require.Error(t, err)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.NotNil(t, de.Unwrap())
		})
	}
}

func TestStreamDecodeMatchesFullDecode(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 1000)

	for _, name := range []string{"base64", "hex", "gzip", "zlib", "bz2", "brotli", "zstd", "lz4", "rot13"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)

			sd, ok := c.(StreamDecoder)
			require.True(t, ok, "%s should support streaming decode", name)

			encoded, err := c.Encode(payload)
			require.NoError(t, err)

			full, err := c.Decode(encoded)
			require.NoError(t, err)

			r, err := sd.DecodeStream(bytes.NewReader(encoded))
			require.NoError(t, err)
			defer r.Close()

			streamed, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, full, streamed)
		})
	}
}

func TestZipHasNoStreamingDecode(t *testing.T) {
	c, err := ByName("zip")
	require.NoError(t, err)

	_, ok := c.(StreamDecoder)
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "none")
	assert.Contains(t, names, "gzip")
	assert.Contains(t, names, "zip")
	assert.NotContains(t, names, "morse")
	assert.IsType(t, []string{}, names)
}
