// Package webserver implements a small static content server that speaks
// HTTP/1.1 over raw TCP connections. It serves files and directory
// listings from a configured root, negotiates gzip and deflate
// compression, answers byte-range requests and keeps small files in a
// bounded LRU cache.
package webserver

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shaneyale2005/webserver/accesslog"
	"github.com/shaneyale2005/webserver/cache"
)

// Server accepts TCP connections and serves files from the configured
// www root.
type Server struct {
	cfg      Config
	cache    *cache.FileCache
	cacheMu  sync.Mutex
	logs     accesslog.Store
	listener net.Listener

	active   atomic.Int64
	handled  atomic.Uint64
	nextID   atomic.Uint64
	started  time.Time
	stopOnce sync.Once
}

// CreateServer wires a Server from its configuration. The content cache
// is sized from CacheSize; a zero size is raised to the default, since
// the cache cannot be disabled.
func CreateServer(cfg Config) (*Server, error) {
	if cfg.CacheSize == 0 {
		log.Warn().Msg("cache_size is 0, but the cache cannot be disabled; using 5")
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if cfg.ChunkSize <= 0 {
		log.Warn().Msg("chunk_size must be positive; using 262144")
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	fileCache, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	var logs accesslog.Store
	if cfg.AccessLog != "" {
		logs, err = accesslog.NewSQLiteStore(cfg.AccessLog)
		if err != nil {
			return nil, err
		}
	} else {
		logs = accesslog.NewMemStore()
	}

	return &Server{
		cfg:   cfg,
		cache: fileCache,
		logs:  logs,
	}, nil
}

// Listen binds the configured port. Local mode binds the loopback
// interface only.
func (s *Server) Listen() error {
	host := "0.0.0.0"
	if s.cfg.Local {
		host = "127.0.0.1"
	}
	addr := net.JoinHostPort(host, strconv.Itoa(s.cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not bind %s: %w", addr, err)
	}
	s.listener = listener
	s.started = time.Now()
	log.Info().Str("addr", listener.Addr().String()).Msg("listening")
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until the server is shut down. Each
// connection is handled on its own goroutine.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn, s.nextID.Add(1))
	}
}

// Run listens and serves in one call.
func (s *Server) Run() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown stops accepting connections. Safe to call more than once.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		if s.listener != nil {
			s.listener.Close()
		}
	})
}

// Close shuts the server down and releases the access log store.
func (s *Server) Close() error {
	s.Shutdown()
	return s.logs.Close()
}

// handleConn reads a single request from conn, serves it and closes the
// connection.
func (s *Server) handleConn(conn net.Conn, id uint64) {
	defer conn.Close()
	s.active.Add(1)
	defer s.active.Add(-1)

	start := time.Now()
	logger := log.With().Uint64("conn", id).Logger()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		logger.Error().Err(err).Msg("could not read request")
		return
	}

	req, err := ParseRequest(buf[:n])
	if err != nil {
		logger.Warn().Err(err).Msg("could not decode request")
		conn.Write([]byte("HTTP/1.1 400 Bad Request\r\nContent-Length: 11\r\n\r\nBad Request"))
		return
	}

	isJSON := strings.Contains(req.Accept, "application/json")
	var resp *Response
	path, err := s.route(req.Path, isJSON, logger)
	switch {
	case err == nil:
		resp = s.buildResponse(req, path, logger)
	case errors.Is(err, ErrNotFound):
		logger.Warn().Str("path", req.Path).Msg("path does not exist")
		resp = s.statusResponse(404, req.AcceptEncoding, logger)
	default:
		logger.Warn().Err(err).Str("path", req.Path).Msg("path rejected")
		resp = s.statusResponse(400, req.AcceptEncoding, logger)
	}
	resp.setDate(time.Now()).setVersion(req.Version).setServerName(serverName)

	var bytesSent int64
	switch {
	case req.Method == MethodHead:
		if _, err := conn.Write(resp.headerBytes()); err != nil {
			logger.Error().Err(err).Msg("could not write response")
		}
	case resp.IsStreaming():
		bytesSent = s.streamFile(conn, req, resp, logger)
	default:
		if _, err := conn.Write(resp.Bytes()); err != nil {
			logger.Error().Err(err).Msg("could not write response")
		} else {
			bytesSent = resp.ContentLength()
		}
	}

	duration := time.Since(start)
	logger.Info().
		Str("method", req.Method.String()).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Str("user_agent", req.UserAgent).
		Dur("duration", duration).
		Msg("request handled")

	s.handled.Add(1)
	entry := accesslog.Entry{
		ID:         uuid.NewString(),
		Time:       time.Now(),
		RemoteAddr: conn.RemoteAddr().String(),
		Method:     req.Method.String(),
		Path:       req.Path,
		Status:     resp.StatusCode(),
		BytesSent:  bytesSent,
		DurationMs: duration.Milliseconds(),
		UserAgent:  req.UserAgent,
	}
	if err := s.logs.Save(entry); err != nil {
		logger.Error().Err(err).Msg("could not save access log entry")
	}
}

// streamFile sends resp's headers followed by the file body read from
// disk in chunks, for responses whose content was deliberately left out
// of memory. It returns the number of body bytes written.
func (s *Server) streamFile(conn net.Conn, req *Request, resp *Response, logger zerolog.Logger) int64 {
	if _, err := conn.Write(resp.headerBytes()); err != nil {
		logger.Error().Err(err).Msg("could not write response header")
		return 0
	}

	path, err := s.route(req.Path, false, logger)
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("could not resolve file for streaming")
		return 0
	}
	file, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("could not open file for streaming")
		return 0
	}
	defer file.Close()

	chunkSize := s.cfg.ChunkSize
	total := resp.ContentLength()
	logger.Debug().Int64("size", total).Int("chunk_size", chunkSize).Msg("streaming file")

	buf := make([]byte, chunkSize)
	var sent int64
	for {
		n, err := file.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				logger.Error().Err(werr).Msg("could not write chunk")
				return sent
			}
			sent += int64(n)
			if sent%int64(chunkSize*10) == 0 {
				logger.Debug().Int64("sent", sent).Int64("total", total).Msg("streaming progress")
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error().Err(err).Msg("could not read file chunk")
			}
			break
		}
	}
	logger.Debug().Int64("sent", sent).Msg("streaming finished")
	return sent
}
