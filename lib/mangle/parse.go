package mangle

// Parse classifies src into recognized declarations and passthrough items.
//
// Items are peeled off the front of the batch one at a time. An item that
// does not start a function or data declaration head is consumed up to its
// terminating semicolon or closing brace and kept verbatim, so ordinary
// declarations can share a batch with mangled ones. A recognized head with
// broken structure is a fatal ParseError: the batch is rewritten whole or
// not at all, since a half-rewritten block would silently under-mangle some
// of its symbols.
func Parse(src string) (*Batch, error) {
	s := newScanner(src)
	b := &Batch{}
	for {
		s.skipTrivia()
		if s.eof() {
			return b, nil
		}

		trial := *s
		d, ok, err := parseDecl(&trial)
		if err != nil {
			return nil, err
		}
		if !ok {
			b.Passthrough = append(b.Passthrough, s.passthroughItem())
			continue
		}
		*s = trial
		b.Decls = append(b.Decls, d)
	}
}

// parseDecl consumes one declaration. ok is false when the cursor is not at
// a recognized declaration head, in which case the caller discards the trial
// cursor and re-scans the item as passthrough.
func parseDecl(s *scanner) (Decl, bool, error) {
	var d Decl

	for s.lookingAt("#[") {
		attr, err := s.attr()
		if err != nil {
			return d, false, err
		}
		d.Attrs = append(d.Attrs, attr)
		s.skipTrivia()
	}

	kw := s.ident()
	if kw == "pub" {
		d.Pub = true
		s.skipTrivia()
		kw = s.ident()
	}

	switch kw {
	case "fn":
		err := parseFunc(s, &d)
		return d, err == nil, err
	case "static":
		err := parseData(s, &d)
		return d, err == nil, err
	default:
		return d, false, nil
	}
}

func parseFunc(s *scanner, d *Decl) error {
	d.Kind = KindFunc

	s.skipTrivia()
	if d.Name = s.ident(); d.Name == "" {
		return s.errorf("expected identifier after fn")
	}

	s.skipTrivia()
	if s.peek() != '(' {
		return s.errorf("expected parameter list after fn %s", d.Name)
	}
	params, err := s.balanced('(', ')')
	if err != nil {
		return err
	}
	d.Params = params

	s.skipTrivia()
	if s.lookingAt("->") {
		s.advance(2)
		s.skipTrivia()
		ret, err := s.typeSpan()
		if err != nil {
			return err
		}
		if ret == "" {
			return s.errorf("expected return type after ->")
		}
		d.Return = ret
	}

	return expectSemi(s)
}

func parseData(s *scanner, d *Decl) error {
	d.Kind = KindData

	s.skipTrivia()
	if d.Name = s.ident(); d.Name == "" {
		return s.errorf("expected identifier after static")
	}

	s.skipTrivia()
	if s.peek() != ':' {
		return s.errorf("expected : after static %s", d.Name)
	}
	s.next()

	s.skipTrivia()
	typ, err := s.typeSpan()
	if err != nil {
		return err
	}
	if typ == "" {
		return s.errorf("expected type after static %s:", d.Name)
	}
	d.Type = typ

	return expectSemi(s)
}

// attr consumes one #[...] annotation, verbatim. The cursor must be at "#[".
func (s *scanner) attr() (string, error) {
	s.next() // '#'
	span, err := s.balanced('[', ']')
	if err != nil {
		return "", err
	}
	return "#" + span, nil
}

func expectSemi(s *scanner) error {
	s.skipTrivia()
	if s.peek() != ';' {
		return s.errorf("expected ; after declaration")
	}
	s.next()
	return nil
}
