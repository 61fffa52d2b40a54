package webserver

// serverName is the value of the Server header on every response.
const serverName = "shaneyale-webserver"

// crlf separates the lines of an HTTP/1.1 message.
const crlf = "\r\n"

// allowedMethods is the Allow header value for OPTIONS and 405 responses.
var allowedMethods = []string{"GET", "HEAD", "OPTIONS"}

// statusCodes maps every status code the server can emit to its reason
// phrase, per RFC 9110.
var statusCodes = map[int]string{
	100: "Continue",
	101: "Switching Protocols",

	200: "OK",
	201: "Created",
	202: "Accepted",
	203: "Non-Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",

	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	305: "Use Proxy",
	307: "Temporary Redirect",
	308: "Permanent Redirect",

	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Content Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	416: "Range Not Satisfiable",
	417: "Expectation Failed",
	418: "I'm a teapot",
	421: "Misdirected Request",
	422: "Unprocessable Content",
	426: "Upgrade Required",

	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "HTTP Version Not Supported",
}

// statusText returns the reason phrase for code, or "Unknown" for codes
// outside the table.
func statusText(code int) string {
	if text, ok := statusCodes[code]; ok {
		return text
	}
	return "Unknown"
}

// statusNote returns the HTML snippet shown on generated pages for the
// error codes users actually run into. Other codes fall back to the bare
// reason phrase.
func statusNote(code int) string {
	switch code {
	case 404:
		return "<h2>Oops!</h2><p>The page you requested could not be found.</p>"
	case 405:
		return "<h2>Oops!</h2><p>The request method is not supported by this server.</p>"
	case 500:
		return "<h2>Oops!</h2><p>The server ran into an internal error.</p>"
	}
	return statusText(code)
}
