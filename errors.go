package webserver

import "errors"

// Errors returned by ParseRequest when a raw request cannot be decoded.
var (
	ErrNotUTF8            = errors.New("request is not valid utf-8")
	ErrUnsupportedMethod  = errors.New("unsupported request method")
	ErrUnsupportedVersion = errors.New("unsupported http version")
)

// Errors returned while resolving a request path or running a PHP script.
var (
	ErrNotFound      = errors.New("file not found")
	ErrInvalidPath   = errors.New("invalid path")
	ErrPHPExecFailed = errors.New("could not invoke php interpreter")
	ErrPHPScript     = errors.New("php script failed")
)
