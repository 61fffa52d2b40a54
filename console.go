package webserver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Console reads management commands from r and writes replies to w. It
// returns when the stream ends or the stop command shuts the server down.
func (s *Server) Console(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "":
			continue
		case "stop":
			fmt.Fprintln(w, "shutting down")
			s.Shutdown()
			return
		case "status":
			s.cacheMu.Lock()
			cached, capacity := s.cache.Len(), s.cache.Cap()
			s.cacheMu.Unlock()
			fmt.Fprintln(w, "== Webserver Status ==")
			fmt.Fprintf(w, "Active connections: %d\n", s.active.Load())
			fmt.Fprintf(w, "Requests handled: %d\n", s.handled.Load())
			fmt.Fprintf(w, "Cached files: %d / %d\n", cached, capacity)
			fmt.Fprintf(w, "Uptime: %s\n", time.Since(s.started).Round(time.Second))
			fmt.Fprintln(w, "====================")
		case "help":
			fmt.Fprintln(w, "== Webserver Help ==")
			fmt.Fprintln(w, "stop    shut the server down")
			fmt.Fprintln(w, "status  show connection and cache statistics")
			fmt.Fprintln(w, "help    show this message")
			fmt.Fprintln(w, "====================")
		default:
			fmt.Fprintf(w, "Invalid command: %s\n", cmd)
		}
	}
}
