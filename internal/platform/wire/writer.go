package wire

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const crlf = "\r\n"

// Writer encodes frames onto one connection. Header lines are emitted
// in sorted name order so encoded frames are deterministic.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteRequest(req *Request) error {
	if req.Command == "" || strings.ContainsAny(req.Command, " \r\n") {
		return fmt.Errorf("%w: command %q", ErrBadFraming, req.Command)
	}
	var b strings.Builder
	b.WriteString(req.Command)
	for _, name := range req.Filenames {
		b.WriteByte(' ')
		b.WriteString(escapeToken(name))
	}
	b.WriteString(crlf)
	writeHeaders(&b, req.Headers, len(req.Body))
	b.WriteString(crlf)
	b.Write(req.Body)
	_, err := io.WriteString(w.w, b.String())
	return err
}

func (w *Writer) WriteResponse(resp *Response) error {
	if resp.Status < 100 || resp.Status > 999 {
		return fmt.Errorf("%w: status %d", ErrBadFraming, resp.Status)
	}
	text := resp.Text
	if text == "" {
		text = StatusText(resp.Status)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%03d %s%s", resp.Status, text, crlf)
	writeHeaders(&b, resp.Headers, len(resp.Body))
	b.WriteString(crlf)
	b.Write(resp.Body)
	_, err := io.WriteString(w.w, b.String())
	return err
}

func writeHeaders(b *strings.Builder, headers map[string]string, bodyLen int) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		if name != HeaderContentLength {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(headers[name])
		b.WriteString(crlf)
	}
	if bodyLen > 0 {
		b.WriteString(HeaderContentLength)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(bodyLen))
		b.WriteString(crlf)
	}
}
