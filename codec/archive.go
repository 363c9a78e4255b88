package codec

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
)

func init() {
	register(func(string) Codec { return zipCodec{} }, "zip")
	register(func(string) Codec { return tarCodec{} }, "tar")
}

// zipCodec extracts a ZIP archive by concatenating every member's bytes in
// archive order. ZIP needs random access to its central directory, so there
// is no streaming decode, and re-creating archives is out of scope.
type zipCodec struct{}

func (zipCodec) Name() string { return "zip" }

func (zipCodec) Decode(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: "zip", cause: err}
	}
	var out bytes.Buffer
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &DecodeError{Format: "zip", cause: err}
		}
		_, err = io.Copy(&out, rc)
		rc.Close()
		if err != nil {
			return nil, &DecodeError{Format: "zip", cause: err}
		}
	}
	return out.Bytes(), nil
}

func (zipCodec) Encode([]byte) ([]byte, error) {
	return nil, &EncodeError{Format: "zip", cause: errUnsupported}
}

// tarCodec extracts a TAR archive by concatenating every regular member's
// bytes in archive order. TAR is sequential, so it decodes as a stream.
type tarCodec struct{}

func (tarCodec) Name() string { return "tar" }

func (c tarCodec) Decode(data []byte) ([]byte, error) {
	return decodeAll(c.Name(), data, c.DecodeStream)
}

func (tarCodec) Encode([]byte) ([]byte, error) {
	return nil, &EncodeError{Format: "tar", cause: errUnsupported}
}

func (tarCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return &tarStream{tr: tar.NewReader(r)}, nil
}

var _ StreamDecoder = tarCodec{}

// tarStream walks a tar archive entry by entry, exposing the concatenated
// contents of its regular files as one reader.
type tarStream struct {
	tr     *tar.Reader
	inFile bool
}

func (t *tarStream) Read(p []byte) (int, error) {
	for {
		if !t.inFile {
			if err := t.next(); err != nil {
				return 0, err
			}
		}
		n, err := t.tr.Read(p)
		if err == io.EOF {
			t.inFile = false
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// next advances to the next regular file entry, returning io.EOF at the end
// of the archive.
func (t *tarStream) next() error {
	for {
		hdr, err := t.tr.Next()
		if err != nil {
			return err
		}
		if hdr.Typeflag == tar.TypeReg {
			t.inFile = true
			return nil
		}
	}
}

func (t *tarStream) Close() error { return nil }
