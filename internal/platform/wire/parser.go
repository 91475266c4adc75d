package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBadFraming reports a frame that violates the protocol shape. The
// connection it arrived on is unusable afterwards.
var ErrBadFraming = errors.New("malformed protocol framing")

// Parser decodes frames from one connection. It is not safe for
// concurrent use.
type Parser struct {
	r *bufio.Reader
}

func NewParser(r io.Reader) *Parser {
	return &Parser{r: bufio.NewReader(r)}
}

// ReadRequest decodes the next request frame. A clean close before the
// first byte yields io.EOF; a close mid-frame yields a framing error.
func (p *Parser) ReadRequest() (*Request, error) {
	line, err := p.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: request line: %v", ErrBadFraming, err)
	}
	if line == "" {
		return nil, fmt.Errorf("%w: empty request line", ErrBadFraming)
	}

	parts := strings.Split(line, " ")
	req := &Request{Command: parts[0]}
	for _, part := range parts[1:] {
		if part == "" {
			return nil, fmt.Errorf("%w: doubled space in request line %q", ErrBadFraming, line)
		}
		name, err := unescapeToken(part)
		if err != nil {
			return nil, err
		}
		req.Filenames = append(req.Filenames, name)
	}

	headers, body, err := p.readHeadersAndBody()
	if err != nil {
		return nil, err
	}
	req.Headers = headers
	req.Body = body
	return req, nil
}

// ReadResponse decodes the next response frame.
func (p *Parser) ReadResponse() (*Response, error) {
	line, err := p.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: status line: %v", ErrBadFraming, err)
	}

	code, text, ok := splitStatusLine(line)
	if !ok {
		return nil, fmt.Errorf("%w: status line %q", ErrBadFraming, line)
	}

	headers, body, err := p.readHeadersAndBody()
	if err != nil {
		return nil, err
	}
	return &Response{Status: code, Text: text, Headers: headers, Body: body}, nil
}

func splitStatusLine(line string) (int, string, bool) {
	digits, text, _ := strings.Cut(line, " ")
	if len(digits) != 3 {
		return 0, "", false
	}
	code, err := strconv.Atoi(digits)
	if err != nil || code < 100 {
		return 0, "", false
	}
	return code, text, true
}

func (p *Parser) readHeadersAndBody() (map[string]string, []byte, error) {
	headers := map[string]string{}
	length := -1
	for {
		line, err := p.readLine()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: header line: %v", ErrBadFraming, err)
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("%w: header line %q", ErrBadFraming, line)
		}
		if name == HeaderContentLength {
			length, err = strconv.Atoi(value)
			if err != nil || length < 0 {
				return nil, nil, fmt.Errorf("%w: content length %q", ErrBadFraming, value)
			}
			continue
		}
		headers[name] = value
	}

	if length <= 0 {
		return headers, nil, nil
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(p.r, body); err != nil {
		return nil, nil, fmt.Errorf("%w: body short by %v", ErrBadFraming, err)
	}
	return headers, body, nil
}

// readLine consumes up to the next LF and strips the line ending. An
// optional CR before the LF is tolerated.
func (p *Parser) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// escapeToken makes a filename safe for the space-delimited request
// line. Percent, space, CR and LF are the only bytes that break the
// framing, so only those are escaped.
func escapeToken(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%':
			b.WriteString("%25")
		case ' ':
			b.WriteString("%20")
		case '\r':
			b.WriteString("%0D")
		case '\n':
			b.WriteString("%0A")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func unescapeToken(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("%w: truncated escape in %q", ErrBadFraming, s)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: escape %q", ErrBadFraming, s[i:i+3])
		}
		b.WriteByte(byte(v))
		i += 2
	}
	return b.String(), nil
}
