package web2md

import "strconv"

// statusDescriptions maps HTTP status codes to human-readable descriptions.
var statusDescriptions = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	102: "Processing",
	103: "Early Hints",
	200: "OK - Request successful",
	201: "Created - Resource created successfully",
	202: "Accepted - Request accepted for processing",
	203: "Non-Authoritative Information",
	204: "No Content - Request successful but no content to return",
	205: "Reset Content",
	206: "Partial Content",
	207: "Multi-Status",
	208: "Already Reported",
	226: "IM Used",
	300: "Multiple Choices - Multiple options available",
	301: "Moved Permanently - Resource permanently moved",
	302: "Found - Resource temporarily moved",
	303: "See Other - See other URL for resource",
	304: "Not Modified - Resource has not been modified",
	305: "Use Proxy - Use proxy to access resource",
	306: "(Unused)",
	307: "Temporary Redirect - Resource temporarily redirected",
	308: "Permanent Redirect - Resource permanently redirected",
	400: "Bad Request - Invalid request syntax",
	401: "Unauthorized - Authentication required",
	402: "Payment Required - Payment required for access",
	403: "Forbidden - Server refuses to fulfill request",
	404: "Not Found - Resource not found",
	405: "Method Not Allowed - Request method not allowed",
	406: "Not Acceptable - Request format not acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout - Server timed out waiting for request",
	409: "Conflict - Request conflict with current state",
	410: "Gone - Resource no longer available",
	411: "Length Required - Content-Length header required",
	412: "Precondition Failed",
	413: "Payload Too Large - Request entity too large",
	414: "URI Too Long - URI too long",
	415: "Unsupported Media Type",
	416: "Range Not Satisfiable",
	417: "Expectation Failed",
	418: "I'm a teapot",
	421: "Misdirected Request",
	422: "Unprocessable Entity",
	423: "Locked",
	424: "Failed Dependency",
	425: "Too Early",
	426: "Upgrade Required",
	428: "Precondition Required",
	429: "Too Many Requests - Rate limit exceeded",
	431: "Request Header Fields Too Large",
	451: "Unavailable For Legal Reasons",
	500: "Internal Server Error - Server encountered unexpected error",
	501: "Not Implemented - Server does not support request method",
	502: "Bad Gateway - Server received invalid response",
	503: "Service Unavailable - Server temporarily unavailable",
	504: "Gateway Timeout - Server gateway timeout",
	505: "HTTP Version Not Supported",
	506: "Variant Also Negotiates",
	507: "Insufficient Storage",
	508: "Loop Detected",
	510: "Not Extended",
	511: "Network Authentication Required",
}

// StatusDescription returns a human-readable description of an HTTP status code.
// Unknown codes are described as "Unknown Status Code: <code>".
func StatusDescription(code int) string {
	if desc, ok := statusDescriptions[code]; ok {
		return desc
	}
	return "Unknown Status Code: " + strconv.Itoa(code)
}

// IsSuccessStatus reports whether code is a 2xx status.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
