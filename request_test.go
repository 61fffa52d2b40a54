package webserver

import (
	"errors"
	"testing"
)

func TestParseGetRequest(t *testing.T) {
	raw := "GET /index.html HTTP/1.1\r\nHost: localhost:7878\r\nUser-Agent: curl/7.81.0\r\nAccept: */*\r\n\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != MethodGet {
		t.Fatalf("Method is %s", req.Method)
	}
	if req.Path != "/index.html" {
		t.Fatalf("Path is %s", req.Path)
	}
	if req.Version != Version11 {
		t.Fatalf("Version is %s", req.Version)
	}
	if req.UserAgent != "curl/7.81.0" {
		t.Fatalf("User agent is %s", req.UserAgent)
	}
	if req.Accept != "*/*" {
		t.Fatalf("Accept is %s", req.Accept)
	}
}

func TestParseHeadRequest(t *testing.T) {
	req, err := ParseRequest([]byte("HEAD /page.html HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != MethodHead {
		t.Fatalf("Method is %s", req.Method)
	}
}

func TestParseOptionsRequest(t *testing.T) {
	req, err := ParseRequest([]byte("OPTIONS * HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != MethodOptions {
		t.Fatalf("Method is %s", req.Method)
	}
	if req.Path != "*" {
		t.Fatalf("Path is %s", req.Path)
	}
}

// POST is decoded by the parser; the response builder is what rejects it.
func TestParsePostRequest(t *testing.T) {
	req, err := ParseRequest([]byte("POST /form HTTP/1.1\r\nContent-Length: 0\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != MethodPost {
		t.Fatalf("Method is %s", req.Method)
	}
}

func TestParseLowercaseMethod(t *testing.T) {
	req, err := ParseRequest([]byte("get / HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != MethodGet {
		t.Fatalf("Method is %s", req.Method)
	}
}

func TestParseUnsupportedMethod(t *testing.T) {
	_, err := ParseRequest([]byte("DELETE /file HTTP/1.1\r\n\r\n"))
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("Error is %v", err)
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	_, err := ParseRequest([]byte("GET / HTTP/2.0\r\n\r\n"))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("Error is %v", err)
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := ParseRequest([]byte{0xFF, 0xFE, 0xFD})
	if !errors.Is(err, ErrNotUTF8) {
		t.Fatalf("Error is %v", err)
	}
}

func TestParseTruncatedRequestLine(t *testing.T) {
	_, err := ParseRequest([]byte("GET /\r\n\r\n"))
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("Error is %v", err)
	}
}

func TestParseQueryPath(t *testing.T) {
	req, err := ParseRequest([]byte("GET /page?id=123&name=test HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Path != "/page?id=123&name=test" {
		t.Fatalf("Path is %s", req.Path)
	}
}

func TestParsePathWithSpaces(t *testing.T) {
	req, err := ParseRequest([]byte("GET /my file name.txt HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Path != "/my file name.txt" {
		t.Fatalf("Path is %s", req.Path)
	}
}

func TestParseLowercaseHeaders(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nuser-agent: test-agent\r\naccept: text/html\r\n\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if req.UserAgent != "test-agent" {
		t.Fatalf("User agent is %s", req.UserAgent)
	}
	if req.Accept != "text/html" {
		t.Fatalf("Accept is %s", req.Accept)
	}
}

func TestParseFirstHeaderWins(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nUser-Agent: first\r\nUser-Agent: second\r\n\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if req.UserAgent != "first" {
		t.Fatalf("User agent is %s", req.UserAgent)
	}
}

func TestParseNoAcceptEncoding(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(req.AcceptEncoding) != 0 {
		t.Fatalf("Accepted encodings are %v", req.AcceptEncoding)
	}
}

func TestParseAcceptEncodingAll(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nAccept-Encoding: gzip, deflate, br\r\n\r\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(req.AcceptEncoding) != 3 {
		t.Fatalf("Accepted encodings are %v", req.AcceptEncoding)
	}
	if req.AcceptEncoding[0] != EncodingGzip || req.AcceptEncoding[1] != EncodingDeflate || req.AcceptEncoding[2] != EncodingBr {
		t.Fatalf("Accepted encodings are %v", req.AcceptEncoding)
	}
}

func TestParseAcceptEncodingGzipOnly(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nAccept-Encoding: gzip\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(req.AcceptEncoding) != 1 || req.AcceptEncoding[0] != EncodingGzip {
		t.Fatalf("Accepted encodings are %v", req.AcceptEncoding)
	}
}

func TestParseAcceptEncodingLowercaseName(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\naccept-encoding: deflate\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(req.AcceptEncoding) != 1 || req.AcceptEncoding[0] != EncodingDeflate {
		t.Fatalf("Accepted encodings are %v", req.AcceptEncoding)
	}
}

func TestParseRangeClosed(t *testing.T) {
	req, err := ParseRequest([]byte("GET /big.bin HTTP/1.1\r\nRange: bytes=100-499\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Range == nil {
		t.Fatal("Range is nil")
	}
	if req.Range.Start != 100 || req.Range.End != 499 || !req.Range.HasEnd {
		t.Fatalf("Range is %+v", req.Range)
	}
}

func TestParseRangeOpen(t *testing.T) {
	req, err := ParseRequest([]byte("GET /big.bin HTTP/1.1\r\nRange: bytes=500-\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Range == nil {
		t.Fatal("Range is nil")
	}
	if req.Range.Start != 500 || req.Range.HasEnd {
		t.Fatalf("Range is %+v", req.Range)
	}
}

// A garbled end bound degrades to an open-ended range, it does not drop
// the range.
func TestParseRangeBadEnd(t *testing.T) {
	rng := parseRange("bytes=0-abc")
	if rng == nil {
		t.Fatal("Range is nil")
	}
	if rng.Start != 0 || rng.HasEnd {
		t.Fatalf("Range is %+v", rng)
	}
}

func TestParseRangeBadStart(t *testing.T) {
	if rng := parseRange("bytes=abc-499"); rng != nil {
		t.Fatalf("Range is %+v", rng)
	}
}

func TestParseRangeNoUnit(t *testing.T) {
	if rng := parseRange("100-499"); rng != nil {
		t.Fatalf("Range is %+v", rng)
	}
}

func TestParseRangeTooManyParts(t *testing.T) {
	if rng := parseRange("bytes=0-100-200"); rng != nil {
		t.Fatalf("Range is %+v", rng)
	}
}
