package codec

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func init() {
	register(func(string) Codec { return gzipCodec{} }, "gzip", "gz")
	register(func(string) Codec { return zlibCodec{} }, "zlib")
	register(func(string) Codec { return bzip2Codec{} }, "bz2", "bzip2")
	register(func(string) Codec { return brotliCodec{} }, "brotli")
	register(func(string) Codec { return zstdCodec{} }, "zstd")
	register(func(string) Codec { return lz4Codec{} }, "lz4")
}

// decodeAll runs a streaming decoder over an in-memory payload.
func decodeAll(name string, data []byte, open func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	r, err := open(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: name, cause: err}
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Format: name, cause: err}
	}
	return out, nil
}

// encodeAll compresses an in-memory payload through a streaming writer.
func encodeAll(name string, data []byte, open func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	var buf bytes.Buffer
	w, err := open(&buf)
	if err != nil {
		return nil, &EncodeError{Format: name, cause: err}
	}
	if _, err := w.Write(data); err != nil {
		return nil, &EncodeError{Format: name, cause: err}
	}
	if err := w.Close(); err != nil {
		return nil, &EncodeError{Format: name, cause: err}
	}
	return buf.Bytes(), nil
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return "gzip" }

func (c gzipCodec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (c gzipCodec) Encode(data []byte) ([]byte, error) {
	return encodeAll(c.Name(), data, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	})
}

func (gzipCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	// Multistream mode is the gzip.Reader default, so sources built by
	// concatenating independently compressed members decode as one stream.
	return gzip.NewReader(r)
}

var _ StreamDecoder = gzipCodec{}

type zlibCodec struct{}

func (zlibCodec) Name() string { return "zlib" }

func (c zlibCodec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (c zlibCodec) Encode(data []byte) ([]byte, error) {
	return encodeAll(c.Name(), data, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriter(w), nil
	})
}

func (zlibCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

var _ StreamDecoder = zlibCodec{}

type bzip2Codec struct{}

func (bzip2Codec) Name() string { return "bz2" }

func (c bzip2Codec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (c bzip2Codec) Encode(data []byte) ([]byte, error) {
	return encodeAll(c.Name(), data, func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, nil)
	})
}

func (bzip2Codec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, nil)
}

var _ StreamDecoder = bzip2Codec{}

type brotliCodec struct{}

func (brotliCodec) Name() string { return "brotli" }

func (c brotliCodec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (c brotliCodec) Encode(data []byte) ([]byte, error) {
	return encodeAll(c.Name(), data, func(w io.Writer) (io.WriteCloser, error) {
		return brotli.NewWriter(w), nil
	})
}

func (brotliCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

var _ StreamDecoder = brotliCodec{}

type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }

func (c zstdCodec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (c zstdCodec) Encode(data []byte) ([]byte, error) {
	return encodeAll(c.Name(), data, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w)
	})
}

func (zstdCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

var _ StreamDecoder = zstdCodec{}

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }

func (c lz4Codec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (c lz4Codec) Encode(data []byte) ([]byte, error) {
	return encodeAll(c.Name(), data, func(w io.Writer) (io.WriteCloser, error) {
		return lz4.NewWriter(w), nil
	})
}

func (lz4Codec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

var _ StreamDecoder = lz4Codec{}
