package webserver

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Method is an HTTP request method the decoder understands.
type Method uint8

const (
	MethodGet Method = iota
	MethodHead
	MethodOptions
	MethodPost
)

// String returns the method name in its canonical uppercase form.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodOptions:
		return "OPTIONS"
	case MethodPost:
		return "POST"
	}
	return ""
}

// Version is an HTTP protocol version.
type Version uint8

// Version11 is the only protocol version the server speaks.
const Version11 Version = iota

func (v Version) String() string {
	return "HTTP/1.1"
}

// ByteRange is the byte interval asked for through a Range header. End is
// only meaningful when HasEnd is set; otherwise the range runs to the end
// of the file.
type ByteRange struct {
	Start  int64
	End    int64
	HasEnd bool
}

// Request is the decoded form of a raw HTTP/1.1 request. Only the headers
// the server acts on are retained.
type Request struct {
	Method         Method
	Path           string
	Version        Version
	UserAgent      string
	AcceptEncoding []Encoding
	Accept         string
	Range          *ByteRange
}

// ParseRequest decodes the raw bytes read from a client connection.
//
// The request line yields the method, path and version; a path containing
// spaces is stitched back together from the surrounding tokens. Header
// lines are matched by case-insensitive name prefix, and the first
// occurrence of each recognized header wins.
func ParseRequest(buf []byte) (*Request, error) {
	if !utf8.Valid(buf) {
		return nil, ErrNotUTF8
	}
	lines := strings.Split(string(buf), crlf)

	parts := strings.Split(lines[0], " ")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: malformed request line %q", ErrUnsupportedMethod, lines[0])
	}

	var method Method
	switch strings.ToUpper(parts[0]) {
	case "GET":
		method = MethodGet
	case "HEAD":
		method = MethodHead
	case "OPTIONS":
		method = MethodOptions
	case "POST":
		method = MethodPost
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, parts[0])
	}

	if strings.ToUpper(parts[len(parts)-1]) != "HTTP/1.1" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, parts[len(parts)-1])
	}

	path := parts[1]
	if len(parts) > 3 {
		path = strings.Join(parts[1:len(parts)-1], " ")
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Version: Version11,
	}

	var haveAgent, haveAccept, haveRange bool
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "user-agent"):
			if haveAgent {
				continue
			}
			if value, ok := headerValue(line); ok {
				req.UserAgent = value
				haveAgent = true
			}
		case strings.HasPrefix(lower, "accept:"):
			if haveAccept {
				continue
			}
			if value, ok := headerValue(line); ok {
				req.Accept = value
				haveAccept = true
			}
		case strings.HasPrefix(lower, "range:"):
			if haveRange {
				continue
			}
			if value, ok := headerValue(line); ok {
				req.Range = parseRange(value)
				haveRange = true
			}
		}
	}

	for _, line := range lines {
		if !strings.HasPrefix(strings.ToLower(line), "accept-encoding") {
			continue
		}
		if value, ok := headerValue(line); ok {
			if strings.Contains(value, "gzip") {
				req.AcceptEncoding = append(req.AcceptEncoding, EncodingGzip)
			}
			if strings.Contains(value, "deflate") {
				req.AcceptEncoding = append(req.AcceptEncoding, EncodingDeflate)
			}
			if strings.Contains(value, "br") {
				req.AcceptEncoding = append(req.AcceptEncoding, EncodingBr)
			}
		}
		break
	}

	return req, nil
}

// headerValue returns the text between the first and second ": "
// separators of a header line.
func headerValue(line string) (string, bool) {
	parts := strings.Split(line, ": ")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// parseRange interprets a Range header value of the form "bytes=start-end".
// A missing or malformed start drops the range entirely; a missing or
// malformed end leaves the range open towards the end of the file.
func parseRange(value string) *ByteRange {
	if !strings.HasPrefix(value, "bytes=") {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(value, "bytes="), "-")
	if len(parts) != 2 {
		return nil
	}
	start, err := strconv.ParseUint(parts[0], 10, 63)
	if err != nil {
		return nil
	}
	rng := &ByteRange{Start: int64(start)}
	if parts[1] != "" {
		if end, err := strconv.ParseUint(parts[1], 10, 63); err == nil {
			rng.End = int64(end)
			rng.HasEnd = true
		}
	}
	return rng
}
