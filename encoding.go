package webserver

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog/log"
)

// Encoding is a content coding negotiated through the Accept-Encoding
// header.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingGzip
	EncodingDeflate
	EncodingBr
)

// String returns the token used for the coding in Content-Encoding
// headers, or the empty string for EncodingNone.
func (e Encoding) String() string {
	switch e {
	case EncodingGzip:
		return "gzip"
	case EncodingDeflate:
		return "deflate"
	case EncodingBr:
		return "br"
	}
	return ""
}

// incompressible lists MIME type prefixes whose payloads are already
// compressed and gain nothing from another pass.
var incompressible = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/x-icon",
	"video/",
	"audio/",
	"application/zip",
	"application/x-rar",
	"application/x-7z-compressed",
	"application/gzip",
	"application/x-gzip",
	"font/woff",
	"font/woff2",
	"application/vnd.ms-fontobject",
}

// shouldSkipCompression reports whether files of the given MIME type are
// served without any content coding at all.
func shouldSkipCompression(mimeType string) bool {
	for _, prefix := range incompressible {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}

// decideEncoding picks the content coding for a response: gzip when the
// client accepts it, deflate as the fallback. Brotli is decoded from
// requests and supported by compress, but never chosen here.
func decideEncoding(accepted []Encoding) Encoding {
	for _, e := range accepted {
		if e == EncodingGzip {
			return EncodingGzip
		}
	}
	for _, e := range accepted {
		if e == EncodingDeflate {
			return EncodingDeflate
		}
	}
	return EncodingNone
}

// compress applies the given coding to data. EncodingNone returns data
// untouched.
func compress(data []byte, encoding Encoding) ([]byte, error) {
	var buf bytes.Buffer
	switch encoding {
	case EncodingGzip:
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case EncodingDeflate:
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case EncodingBr:
		w := brotli.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	default:
		return data, nil
	}
	log.Debug().
		Stringer("encoding", encoding).
		Int("from", len(data)).
		Int("to", buf.Len()).
		Msg("compressed payload")
	return buf.Bytes(), nil
}
