package webserver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shaneyale2005/webserver/cache"
	"github.com/shaneyale2005/webserver/pkg/htmlbuilder"
)

// Response carries everything needed to serialize one HTTP/1.1 reply.
// The builder branches fill it in; Bytes renders the wire form.
type Response struct {
	version       Version
	statusCode    int
	information   string
	contentType   string
	contentLength int64
	date          time.Time
	encoding      Encoding
	serverName    string
	allow         []string
	content       []byte
	contentRange  string
	acceptRanges  string
}

// newResponse returns a 200 OK response with no body.
func newResponse() *Response {
	return &Response{
		version:     Version11,
		statusCode:  200,
		information: "OK",
		date:        time.Now(),
		serverName:  serverName,
		allow:       allowedMethods,
	}
}

func (r *Response) setDate(date time.Time) *Response {
	r.date = date
	return r
}

func (r *Response) setVersion(version Version) *Response {
	r.version = version
	return r
}

func (r *Response) setServerName(name string) *Response {
	r.serverName = name
	return r
}

// setCode sets the status code together with its reason phrase. A code
// outside the status table is a programming error and panics.
func (r *Response) setCode(code int) *Response {
	text, ok := statusCodes[code]
	if !ok {
		panic(fmt.Sprintf("unknown status code %d", code))
	}
	r.statusCode = code
	r.information = text
	return r
}

// StatusCode returns the response status code.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Information returns the reason phrase matching the status code.
func (r *Response) Information() string {
	return r.information
}

// ContentLength returns the value of the Content-Length header.
func (r *Response) ContentLength() int64 {
	return r.contentLength
}

// IsStreaming reports whether the body was deliberately left out of the
// response so the transport can send it straight from disk.
func (r *Response) IsStreaming() bool {
	return r.content == nil && r.contentType != "" && r.contentLength > 0
}

// headerBytes renders the status line and headers, ending with the blank
// line that separates them from the body.
func (r *Response) headerBytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d %s%s", r.version, r.statusCode, r.information, crlf)
	if r.contentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s%s", r.contentType, crlf)
	}
	if r.encoding != EncodingNone {
		fmt.Fprintf(&b, "Content-encoding: %s%s", r.encoding, crlf)
	}
	fmt.Fprintf(&b, "Content-Length: %d%s", r.contentLength, crlf)
	fmt.Fprintf(&b, "Date: %s%s", r.date.UTC().Format(time.RFC1123Z), crlf)
	fmt.Fprintf(&b, "Server: %s%s", r.serverName, crlf)
	if r.allow != nil {
		fmt.Fprintf(&b, "Allow: %s%s", strings.Join(r.allow, ", "), crlf)
	}
	if r.acceptRanges != "" {
		fmt.Fprintf(&b, "Accept-Ranges: %s%s", r.acceptRanges, crlf)
	}
	if r.contentRange != "" {
		fmt.Fprintf(&b, "Content-Range: %s%s", r.contentRange, crlf)
	}
	b.WriteString(crlf)
	return []byte(b.String())
}

// Bytes serializes the complete response, body included.
func (r *Response) Bytes() []byte {
	header := r.headerBytes()
	if r.content == nil {
		return header
	}
	return append(header, r.content...)
}

// buildResponse turns a decoded request and its resolved filesystem path
// into a Response. Every branch produces a complete response owning its
// own status code; the caller only stamps date and server identity
// afterwards.
func (s *Server) buildResponse(req *Request, path string, logger zerolog.Logger) *Response {
	switch req.Method {
	case MethodGet, MethodHead, MethodOptions:
	default:
		return s.statusResponse(405, req.AcceptEncoding, logger)
	}
	if req.Method == MethodOptions {
		return s.statusResponse(204, req.AcceptEncoding, logger)
	}
	headonly := req.Method == MethodHead

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("could not stat path")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}

	if info.IsDir() {
		isJSON := strings.Contains(req.Accept, "application/json")
		return s.dirResponse(path, req, headonly, isJSON, logger)
	}

	base := filepath.Base(path)
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		logger.Error().Str("path", path).Msg("could not determine file extension")
		return s.statusResponse(404, req.AcceptEncoding, logger)
	}
	extension := base[dot+1:]

	if extension == "php" {
		html, err := runPHP(path, logger)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("php execution failed")
			return s.statusResponse(500, req.AcceptEncoding, logger)
		}
		return s.htmlResponse(html, req, headonly, logger)
	}

	return s.fileResponse(path, req, info, headonly, contentTypeFor(extension), logger)
}

// statusResponse builds a response carrying a generated status page. 204
// responses have no body at all. The Allow header is kept only for the
// codes that need it.
func (s *Server) statusResponse(code int, accepted []Encoding, logger zerolog.Logger) *Response {
	resp := newResponse()
	resp.encoding = decideEncoding(accepted)

	if code == 204 {
		resp.content = nil
		resp.encoding = EncodingNone
		resp.contentType = ""
		resp.allow = allowedMethods
		resp.setCode(code)
		return resp
	}

	if code == 405 {
		resp.allow = allowedMethods
	} else {
		resp.allow = nil
	}

	page := []byte(htmlbuilder.FromStatusCode(code, statusNote(code)).Build())
	body, err := compress(page, resp.encoding)
	if err != nil {
		logger.Error().Err(err).Msg("compressing status page failed, sending it uncompressed")
		resp.encoding = EncodingNone
		body = page
	}
	resp.contentLength = int64(len(body))
	resp.content = body
	resp.contentType = "text/html;charset=utf-8"
	resp.setCode(code)
	return resp
}

// fileResponse serves a regular file. Byte ranges, large-file streaming,
// compression and the content cache are all decided here.
func (s *Server) fileResponse(path string, req *Request, info os.FileInfo, headonly bool, mime string, logger zerolog.Logger) *Response {
	resp := newResponse()
	resp.allow = nil

	size := info.Size()
	modified := info.ModTime()

	if s.cfg.EnableRangeRequests {
		resp.acceptRanges = "bytes"
	}

	if req.Range != nil {
		return s.rangeResponse(resp, path, req, size, mime, headonly, logger)
	}

	if size > s.cfg.StreamingThreshold && !headonly {
		logger.Debug().Int64("size", size).Msg("file exceeds streaming threshold, body will be sent in chunks")
		resp.contentType = mime
		resp.contentLength = size
		resp.content = nil
		return resp
	}

	if headonly || shouldSkipCompression(mime) {
		resp.encoding = EncodingNone
	} else {
		resp.encoding = decideEncoding(req.AcceptEncoding)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if cached, ok := s.cache.Find(path, modified); ok {
		logger.Debug().Int("size", len(cached)).Msg("cache hit")
		body := cached
		if resp.encoding != EncodingNone {
			compressed, err := compress(cached, resp.encoding)
			if err != nil {
				logger.Error().Err(err).Msg("compressing cached file failed, sending it uncompressed")
				resp.encoding = EncodingNone
				compressed = cached
			}
			body = compressed
		}
		resp.contentLength = int64(len(body))
		if !headonly {
			resp.content = body
		}
		resp.contentType = mime
		return resp
	}

	logger.Debug().Str("path", path).Msg("cache miss")
	if headonly {
		resp.contentType = mime
		resp.contentLength = size
		return resp
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("could not read file")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}

	body, err := compress(contents, resp.encoding)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("compressing file failed, sending it uncompressed")
		resp.encoding = EncodingNone
		body = contents
	}
	resp.contentLength = int64(len(body))
	resp.contentType = mime
	resp.content = body

	if cache.ShouldCache(size, s.cfg.StreamingThreshold) {
		s.cache.Push(path, contents, modified)
		logger.Debug().Str("path", path).Msg("file added to cache")
	} else {
		logger.Debug().Int64("size", size).Msg("file too large for cache")
	}
	return resp
}

// rangeResponse answers a Range request with 206 Partial Content, or 416
// when the interval does not fit the file. Range responses are never
// compressed or cached.
func (s *Server) rangeResponse(resp *Response, path string, req *Request, size int64, mime string, headonly bool, logger zerolog.Logger) *Response {
	rng := req.Range
	end := size - 1
	if rng.HasEnd {
		end = rng.End
	}
	if rng.Start >= size || end >= size || rng.Start > end {
		logger.Error().
			Int64("start", rng.Start).
			Int64("end", end).
			Int64("size", size).
			Msg("range not satisfiable")
		resp.setCode(416)
		resp.contentRange = fmt.Sprintf("bytes */%d", size)
		resp.contentLength = 0
		return resp
	}

	length := end - rng.Start + 1
	resp.setCode(206)
	resp.contentRange = fmt.Sprintf("bytes %d-%d/%d", rng.Start, end, size)
	resp.contentType = mime
	resp.contentLength = length

	if headonly {
		return resp
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("could not open file for range read")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}
	defer file.Close()

	if _, err := file.Seek(rng.Start, io.SeekStart); err != nil {
		logger.Error().Err(err).Int64("offset", rng.Start).Msg("could not seek to range start")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(file, buf); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("could not read range from file")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}
	resp.content = buf
	return resp
}

// dirEntry is the JSON shape of one directory listing row.
type dirEntry struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	RawSize int64  `json:"raw_size"`
	Date    string `json:"date"`
}

// dirResponse serves a directory listing, as JSON when the Accept header
// asks for it and as an HTML page otherwise. The uncompressed rendering
// is cached under the directory's own modification time; JSON and HTML
// renderings get distinct cache keys.
func (s *Server) dirResponse(path string, req *Request, headonly, isJSON bool, logger zerolog.Logger) *Response {
	resp := newResponse()
	resp.allow = nil
	if headonly {
		resp.encoding = EncodingNone
	} else {
		resp.encoding = decideEncoding(req.AcceptEncoding)
	}
	switch {
	case headonly:
		resp.contentType = ""
	case isJSON:
		resp.contentType = "application/json"
	default:
		resp.contentType = "text/html;charset=utf-8"
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("could not stat directory")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}
	modified := info.ModTime()

	key := path
	if isJSON {
		key = path + ":json"
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if cached, ok := s.cache.Find(key, modified); ok {
		logger.Debug().Int("size", len(cached)).Msg("cache hit")
		body := cached
		if resp.encoding != EncodingNone {
			compressed, err := compress(cached, resp.encoding)
			if err != nil {
				logger.Error().Err(err).Msg("compressing cached listing failed, sending it uncompressed")
				resp.encoding = EncodingNone
				compressed = cached
			}
			body = compressed
		}
		resp.contentLength = int64(len(body))
		if !headonly {
			resp.content = body
		}
		return resp
	}

	logger.Debug().Str("path", path).Msg("cache miss")
	entries, err := os.ReadDir(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("could not read directory")
		return s.statusResponse(500, req.AcceptEncoding, logger)
	}

	var listing []byte
	if isJSON {
		rows := make([]dirEntry, 0, len(entries))
		for _, entry := range entries {
			var size int64
			var date string
			if meta, err := entry.Info(); err == nil {
				size = meta.Size()
				date = meta.ModTime().UTC().Format(time.RFC3339)
			}
			row := dirEntry{
				Name:    entry.Name(),
				Type:    "file",
				Size:    htmlbuilder.FormatFileSize(size),
				RawSize: size,
				Date:    date,
			}
			if entry.IsDir() {
				row.Type = "dir"
				row.Size = "-"
			}
			rows = append(rows, row)
		}
		listing, err = json.Marshal(rows)
		if err != nil {
			logger.Error().Err(err).Msg("could not encode directory listing")
			return s.statusResponse(500, req.AcceptEncoding, logger)
		}
	} else {
		rows := make([]htmlbuilder.Entry, 0, len(entries))
		for _, entry := range entries {
			meta, err := entry.Info()
			if err != nil {
				continue
			}
			rows = append(rows, htmlbuilder.Entry{
				Name:     entry.Name(),
				Dir:      entry.IsDir(),
				Size:     meta.Size(),
				Modified: meta.ModTime(),
			})
		}
		listing = []byte(htmlbuilder.FromDir(path, rows).Build())
	}

	body, err := compress(listing, resp.encoding)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("compressing listing failed, sending it uncompressed")
		resp.encoding = EncodingNone
		body = listing
	}
	resp.contentLength = int64(len(body))
	if !headonly {
		resp.content = body
	}
	s.cache.Push(key, listing, modified)
	return resp
}

// htmlResponse wraps already-rendered HTML, typically PHP output. The
// result is never cached.
func (s *Server) htmlResponse(html string, req *Request, headonly bool, logger zerolog.Logger) *Response {
	resp := newResponse()
	resp.allow = nil
	if headonly {
		resp.encoding = EncodingNone
		resp.contentType = ""
		resp.content = nil
		return resp
	}
	resp.encoding = decideEncoding(req.AcceptEncoding)
	body, err := compress([]byte(html), resp.encoding)
	if err != nil {
		logger.Error().Err(err).Msg("compressing html failed, sending it uncompressed")
		resp.encoding = EncodingNone
		body = []byte(html)
	}
	resp.contentLength = int64(len(body))
	resp.contentType = "text/html;charset=utf-8"
	resp.content = body
	return resp
}
