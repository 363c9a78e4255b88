package codec

import (
	"bytes"
	"encoding/ascii85"
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"
)

func init() {
	register(func(string) Codec { return base64Codec{} }, "base64")
	register(func(string) Codec { return ascii85Codec{} }, "ascii85", "a85")
	register(func(string) Codec { return hexCodec{} }, "hex", "hexadecimal", "base16")
	register(func(string) Codec { return uuCodec{} }, "uuencode", "uu")
	register(func(string) Codec { return xxCodec{} }, "xxencode", "xx")
}

// stripSpace removes ASCII whitespace so that line-wrapped armored input
// decodes the same as unwrapped input.
func stripSpace(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, c := range data {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			out = append(out, c)
		}
	}
	return out
}

// spaceFilter is a reader that drops ASCII whitespace, the streaming
// counterpart of stripSpace.
type spaceFilter struct {
	r io.Reader
}

func (f spaceFilter) Read(p []byte) (int, error) {
	for {
		n, err := f.r.Read(p)
		kept := 0
		for _, c := range p[:n] {
			switch c {
			case ' ', '\t', '\n', '\r':
			default:
				p[kept] = c
				kept++
			}
		}
		if kept > 0 || err != nil {
			return kept, err
		}
	}
}

type base64Codec struct{}

func (base64Codec) Name() string { return "base64" }

func (base64Codec) Decode(data []byte) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(string(stripSpace(data)))
	if err != nil {
		return nil, &DecodeError{Format: "base64", cause: err}
	}
	return out, nil
}

func (base64Codec) Encode(data []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out, nil
}

func (base64Codec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(base64.NewDecoder(base64.StdEncoding, spaceFilter{r})), nil
}

var _ StreamDecoder = base64Codec{}

type ascii85Codec struct{}

func (ascii85Codec) Name() string { return "ascii85" }

func (ascii85Codec) Decode(data []byte) ([]byte, error) {
	out, err := io.ReadAll(ascii85.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return nil, &DecodeError{Format: "ascii85", cause: err}
	}
	return out, nil
}

func (ascii85Codec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := ascii85.NewEncoder(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, &EncodeError{Format: "ascii85", cause: err}
	}
	if err := w.Close(); err != nil {
		return nil, &EncodeError{Format: "ascii85", cause: err}
	}
	return buf.Bytes(), nil
}

func (ascii85Codec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(ascii85.NewDecoder(r)), nil
}

var _ StreamDecoder = ascii85Codec{}

type hexCodec struct{}

func (hexCodec) Name() string { return "hex" }

func (hexCodec) Decode(data []byte) ([]byte, error) {
	out, err := hex.DecodeString(string(stripSpace(data)))
	if err != nil {
		return nil, &DecodeError{Format: "hex", cause: err}
	}
	return out, nil
}

func (hexCodec) Encode(data []byte) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(data)))
	hex.Encode(out, data)
	return out, nil
}

func (hexCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(hex.NewDecoder(spaceFilter{r})), nil
}

var _ StreamDecoder = hexCodec{}

// uuCodec decodes classic uuencoded text. Encoding is not supported; the
// format survives only for reading legacy archives.
type uuCodec struct{}

func (uuCodec) Name() string { return "uuencode" }

func (uuCodec) Decode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "begin") || strings.HasPrefix(line, "end") {
			continue
		}
		n := int(line[0]) - 32
		if n < 0 || n > 45 {
			continue
		}
		decoded := decodeQuads(line[1:], func(c byte) (int, bool) {
			v := int(c) - 32
			return v & 0x3F, v >= 0 && v <= 64
		})
		if len(decoded) > n {
			decoded = decoded[:n]
		}
		out.Write(decoded)
	}
	return out.Bytes(), nil
}

func (uuCodec) Encode([]byte) ([]byte, error) {
	return nil, &EncodeError{Format: "uuencode", cause: errUnsupported}
}

const xxChars = "+-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// xxCodec decodes xxencoded text, a uuencode variant with a different
// 64-character alphabet. Encoding is not supported.
type xxCodec struct{}

func (xxCodec) Name() string { return "xxencode" }

func (xxCodec) Decode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "begin") || strings.HasPrefix(line, "end") {
			continue
		}
		n := strings.IndexByte(xxChars, line[0])
		if n < 0 {
			continue
		}
		decoded := decodeQuads(line[1:], func(c byte) (int, bool) {
			v := strings.IndexByte(xxChars, c)
			return v, v >= 0
		})
		if len(decoded) > n {
			decoded = decoded[:n]
		}
		out.Write(decoded)
	}
	return out.Bytes(), nil
}

func (xxCodec) Encode([]byte) ([]byte, error) {
	return nil, &EncodeError{Format: "xxencode", cause: errUnsupported}
}

// decodeQuads expands groups of four 6-bit characters into three bytes,
// dropping any trailing group shorter than four characters.
func decodeQuads(line string, value func(byte) (int, bool)) []byte {
	out := make([]byte, 0, len(line)/4*3)
	for i := 0; i+4 <= len(line); i += 4 {
		c1, ok1 := value(line[i])
		c2, ok2 := value(line[i+1])
		c3, ok3 := value(line[i+2])
		c4, ok4 := value(line[i+3])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			break
		}
		out = append(out,
			byte(c1<<2|c2>>4),
			byte(c2<<4|c3>>2),
			byte(c3<<6|c4),
		)
	}
	return out
}
