package mangle

import "fmt"

// ParseError is a fatal, batch-aborting syntax error inside a recognized
// declaration head. There is no partial recovery: a half-rewritten block
// would silently under-mangle some symbols, which is worse than failing the
// whole unit.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed declaration batch at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// scanner is a byte-level cursor over the batch text with line and column
// tracking for diagnostics.
type scanner struct {
	src  string
	pos  int
	line int
	col  int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) next() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) lookingAt(prefix string) bool {
	return len(s.src)-s.pos >= len(prefix) && s.src[s.pos:s.pos+len(prefix)] == prefix
}

func (s *scanner) advance(n int) {
	for i := 0; i < n; i++ {
		s.next()
	}
}

// skipTrivia consumes whitespace and line comments.
func (s *scanner) skipTrivia() {
	for !s.eof() {
		switch {
		case s.peek() == ' ' || s.peek() == '\t' || s.peek() == '\n' || s.peek() == '\r':
			s.next()
		case s.lookingAt("//"):
			for !s.eof() && s.peek() != '\n' {
				s.next()
			}
		default:
			return
		}
	}
}

// ident consumes and returns the identifier at the cursor, or "" if the
// cursor is not at one.
func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() {
		c := s.peek()
		isStart := c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
		if !isStart && !(s.pos > start && '0' <= c && c <= '9') {
			break
		}
		s.next()
	}
	return s.src[start:s.pos]
}

// balanced consumes a span delimited by open and close, honoring nesting of
// the same delimiter pair, and returns it verbatim, delimiters included. The
// cursor must be at an open delimiter.
func (s *scanner) balanced(open, close byte) (string, error) {
	start := s.pos
	depth := 0
	for !s.eof() {
		c := s.next()
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s.src[start:s.pos], nil
			}
		}
	}
	return "", s.errorf("unterminated %c...%c span", open, close)
}

// typeSpan consumes a type up to the terminating top-level semicolon, which
// is left for the caller. Semicolons inside brackets, as in array lengths,
// do not terminate the span.
func (s *scanner) typeSpan() (string, error) {
	start := s.pos
	depth := 0
	for !s.eof() {
		c := s.peek()
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ';':
			if depth == 0 {
				return trimRightSpace(s.src[start:s.pos]), nil
			}
		}
		s.next()
	}
	return "", s.errorf("unterminated declaration, expected ;")
}

// passthroughItem consumes one item that is outside the declaration grammar,
// through its terminating top-level semicolon or the closing brace of its
// top-level block, and returns it verbatim. Semicolons inside brackets or
// line comments do not terminate the item.
func (s *scanner) passthroughItem() string {
	start := s.pos
	depth := 0
	for !s.eof() {
		if s.lookingAt("//") {
			for !s.eof() && s.peek() != '\n' {
				s.next()
			}
			continue
		}
		c := s.next()
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			depth--
			if depth == 0 {
				return s.src[start:s.pos]
			}
		case ';':
			if depth == 0 {
				return s.src[start:s.pos]
			}
		}
	}
	return s.src[start:s.pos]
}

func (s *scanner) errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Line: s.line, Col: s.col, Msg: fmt.Sprintf(format, args...)}
}

func trimRightSpace(v string) string {
	for len(v) > 0 {
		switch v[len(v)-1] {
		case ' ', '\t', '\n', '\r':
			v = v[:len(v)-1]
		default:
			return v
		}
	}
	return v
}
