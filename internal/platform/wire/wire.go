package wire

// Request/response framing shared by the listener and the client. Both
// frames are line oriented: a first line, zero or more "Name: value"
// header lines, a blank line, then an optional body whose exact byte
// count rides in a Content-length header. Content-length is owned by
// the codec and never surfaces in the Headers map.

const (
	StatusOK                  = 200
	StatusResponseFollows     = 300
	StatusPermissionDenied    = 900
	StatusUnrecognisedCommand = 910
)

// StatusText returns the canonical reason text for a status code, or ""
// for a code outside the fixed enumeration.
func StatusText(code int) string {
	switch code {
	case StatusOK:
		return "OK"
	case StatusResponseFollows:
		return "Response follows"
	case StatusPermissionDenied:
		return "Permission denied"
	case StatusUnrecognisedCommand:
		return "Unrecognised command"
	}
	return ""
}

const (
	HeaderContentLength = "Content-length"
	HeaderAuthKey       = "Auth-Key"
	HeaderHostAlias     = "Host-Alias"
)

// Request is one client command frame. Filenames keep their command
// line order; they travel on the request line percent-escaped so the
// line still splits on single spaces.
type Request struct {
	Command   string
	Filenames []string
	Headers   map[string]string
	Body      []byte
}

func (r *Request) Header(name string) string {
	return r.Headers[name]
}

// Response is one server reply frame.
type Response struct {
	Status  int
	Text    string
	Headers map[string]string
	Body    []byte
}

// OK is the implicit success response sent when a handler finishes
// without writing one itself.
func OK() *Response {
	return &Response{Status: StatusOK, Text: StatusText(StatusOK)}
}

// Content builds a 300 response carrying body bytes.
func Content(body []byte) *Response {
	return &Response{
		Status: StatusResponseFollows,
		Text:   StatusText(StatusResponseFollows),
		Body:   body,
	}
}

func Denied() *Response {
	return &Response{Status: StatusPermissionDenied, Text: StatusText(StatusPermissionDenied)}
}

func Unrecognised() *Response {
	return &Response{Status: StatusUnrecognisedCommand, Text: StatusText(StatusUnrecognisedCommand)}
}
