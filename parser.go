package jsonparser

// Parser is a single logical input stream's worth of state: the current
// grammar position, the container nesting stack, and anything needed to
// stitch a token that straddles an Exec call boundary. It is not safe for
// concurrent use; distinct Parsers share nothing and may run on separate
// goroutines freely.
type Parser struct {
	ctx    interface{}
	state  state
	frames *frameStack
	uchar  byte

	// numAccum holds the bytes of a number token that has not yet
	// terminated by the time an Exec call's buffer runs out. It is the
	// one place this parser is not zero-copy: a number spanning more
	// than one chunk must be reassembled, since the earlier chunk's
	// backing array is gone by the time the later one arrives.
	numAccum []byte

	closed bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithInitialDepth seeds the container-nesting stack's initial capacity.
// The default, matching the C original, is 16; smaller values are raised
// to 16.
func WithInitialDepth(n int) Option {
	return func(p *Parser) {
		p.frames = newFrameStack(n)
	}
}

// New creates a parser ready to scan a single JSON value. ctx is passed
// verbatim to every callback; the parser never dereferences it.
func New(ctx interface{}, opts ...Option) *Parser {
	p := &Parser{
		ctx:    ctx,
		state:  stateInit,
		frames: newFrameStack(defaultStackDepth),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsDead reports whether the parser has hit a syntactic/structural failure.
// It is sticky: once true, Exec will no longer make progress.
func (p *Parser) IsDead() bool {
	return p.state == stateDead
}

// Close releases the parser's resources. It never fails; it exists to give
// callers used to the paired new/del C API an explicit teardown point, and
// so a subsequent Exec call has somewhere to detect reuse-after-close.
func (p *Parser) Close() error {
	p.closed = true
	p.frames = nil
	p.numAccum = nil
	return nil
}

// nextAfterValue picks the post-value state from the top of the frame
// stack: inside an array, inside an object, or (empty stack) the document
// root.
func (p *Parser) nextAfterValue() state {
	top, ok := p.frames.top()
	if !ok {
		return stateDone
	}
	if top == FrameObject {
		return stateObjectNext
	}
	return stateNext
}

// emitNumber flushes the number token ending at buf[:end] (with mark as its
// start in this chunk), prepending any bytes carried over from a previous
// chunk. The callback sees a zero-copy view into buf when the whole number
// fit in a single Exec call.
func (p *Parser) emitNumber(cb *Callbacks, buf []byte, mark, end int) error {
	var data []byte
	if len(p.numAccum) == 0 {
		data = buf[mark:end]
	} else {
		data = append(p.numAccum, buf[mark:end]...)
		p.numAccum = nil
	}
	return cb.onNumber(p.ctx, data)
}

// numberEnd handles the fact that a number has no terminator character of
// its own: unlike a string's closing quote or a literal's fixed length, a
// number lexeme just ends at whichever byte can't extend it, and that byte
// has to be reprocessed as the start of whatever comes next (a comma, a
// closing bracket, more whitespace). terminated is false when c is a
// digit/'.'/'e'/'E' or plain invalid, in which case the caller falls through
// to the state's own digit-by-digit logic. dead distinguishes a structural
// failure (bytes_consumed = i+1) from a callback refusal (bytes_consumed =
// i).
func (p *Parser) numberEnd(cb *Callbacks, buf []byte, i, mark int, c byte) (terminated bool, err error, dead bool) {
	switch {
	case isSpace(c):
		if err := p.emitNumber(cb, buf, mark, i); err != nil {
			return true, err, false
		}
		p.state = p.nextAfterValue()
		return true, nil, false

	case c == '}':
		if err := p.emitNumber(cb, buf, mark, i); err != nil {
			return true, err, false
		}
		if perr := p.frames.pop(FrameObject); perr != nil {
			p.state = stateDead
			return true, syntaxErrorf(i, "%s", perr), true
		}
		if err := cb.onObjectEnd(p.ctx); err != nil {
			return true, err, false
		}
		p.state = p.nextAfterValue()
		return true, nil, false

	case c == ']':
		if err := p.emitNumber(cb, buf, mark, i); err != nil {
			return true, err, false
		}
		if perr := p.frames.pop(FrameArray); perr != nil {
			p.state = stateDead
			return true, syntaxErrorf(i, "%s", perr), true
		}
		if err := cb.onArrayEnd(p.ctx); err != nil {
			return true, err, false
		}
		p.state = p.nextAfterValue()
		return true, nil, false

	case c == ',':
		top, ok := p.frames.top()
		if !ok {
			p.state = stateDead
			return true, syntaxErrorf(i, "',' outside any container"), true
		}
		if err := p.emitNumber(cb, buf, mark, i); err != nil {
			return true, err, false
		}
		if err := cb.onSeparator(p.ctx); err != nil {
			return true, err, false
		}
		if top == FrameObject {
			p.state = stateObject
		} else {
			p.state = stateDelim
		}
		return true, nil, false
	}

	return false, nil, false
}

// scanSpan is the shared body of the string and object-key scanners: a key
// is lexically just a string that happens to be followed by a colon instead
// of being used as a value, so the two run the same quote/escape/control-byte
// checks. The only difference is which callback to invoke and which state to
// land in once the closing quote is seen.
func (p *Parser) scanSpan(cb *Callbacks, buf []byte, i, mark int, c byte, isKey bool) (err error, dead bool) {
	switch c {
	case '\\':
		if i != mark {
			if err := p.emitSpan(cb, buf[mark:i], isKey); err != nil {
				return err, false
			}
		}
		if isKey {
			p.state = stateObjectKeyEscape
		} else {
			p.state = stateStringEscape
		}
		return nil, false

	case '"':
		if i != mark {
			if err := p.emitSpan(cb, buf[mark:i], isKey); err != nil {
				return err, false
			}
		}
		if isKey {
			p.state = stateObjectKeyEnd
		} else {
			p.state = p.nextAfterValue()
		}
		return nil, false

	default:
		if !isPrintable(c) {
			return syntaxErrorf(i, "control byte %#02x in string", c), true
		}
		return nil, false
	}
}

func (p *Parser) emitSpan(cb *Callbacks, data []byte, isKey bool) error {
	if isKey {
		return cb.onObjectKey(p.ctx, data)
	}
	return cb.onString(p.ctx, data)
}

func (p *Parser) emitEscapeByte(cb *Callbacks, b byte, isKey bool) error {
	return p.emitSpan(cb, []byte{b}, isKey)
}

// Exec drives the state machine over buf and returns the number of bytes
// consumed:
//
//   - A dead parser returns (0, nil) immediately without touching buf.
//   - len(buf) == 0 is the end-of-input sentinel: it either accepts
//     (returning 0, flushing a pending trailing number first) or kills the
//     parser and returns 1.
//   - On success, consumed == len(buf).
//   - On a syntax failure, consumed is the offending byte's offset + 1 and
//     the returned error wraps ErrSyntax; the parser is now dead.
//   - On a callback refusal, consumed is the offset of the byte being
//     processed when the callback refused, the callback's error is
//     returned unwrapped, and the parser is NOT dead.
func (p *Parser) Exec(cb *Callbacks, buf []byte) (int, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if p.state == stateDead {
		return 0, nil
	}

	if len(buf) == 0 {
		switch {
		case p.state == stateDone:
			return 0, nil
		case p.state.numberAcceptState():
			data := p.numAccum
			p.numAccum = nil
			if err := cb.onNumber(p.ctx, data); err != nil {
				return 0, err
			}
			return 0, nil
		default:
			last := p.state
			p.state = stateDead
			return 1, syntaxErrorf(0, "end of input while in state %v", last)
		}
	}

	var mark int
	if p.state.spanBearing() {
		mark = 0
	}

	for i := 0; i < len(buf); i++ {
		c := buf[i]

		switch p.state {
		case stateDelim:
			if c == '}' || c == ']' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "value required after ',' or ':', got %q", c)
			}
			fallthrough
		case stateInit:
			switch {
			case c == '{':
				p.frames.push(FrameObject)
				if err := cb.onObjectStart(p.ctx); err != nil {
					return i, err
				}
				p.state = stateObjectStart
			case c == '}':
				if err := p.frames.pop(FrameObject); err != nil {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "%s", err)
				}
				if err := cb.onObjectEnd(p.ctx); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
			case c == '[':
				p.frames.push(FrameArray)
				if err := cb.onArrayStart(p.ctx); err != nil {
					return i, err
				}
				p.state = stateInit
			case c == ']':
				if err := p.frames.pop(FrameArray); err != nil {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "%s", err)
				}
				if err := cb.onArrayEnd(p.ctx); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
			case c == 'n':
				p.state = stateNullN
			case c == 't':
				p.state = stateTrueT
			case c == 'f':
				p.state = stateFalseF
			case c == '"':
				p.state = stateStringStart
			case c == '-':
				p.state = stateNumNeg
				mark = i
			case c == '0':
				p.state = stateNumZero
				mark = i
			case c >= '1' && c <= '9':
				p.state = stateNum
				mark = i
			case isSpace(c):
				// stay put
			default:
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "unexpected byte %q", c)
			}

		case stateNext:
			if isSpace(c) {
				break
			}
			switch c {
			case ',':
				if err := cb.onSeparator(p.ctx); err != nil {
					return i, err
				}
				p.state = stateDelim
			case '}':
				if err := p.frames.pop(FrameObject); err != nil {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "%s", err)
				}
				if err := cb.onObjectEnd(p.ctx); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
			case ']':
				if err := p.frames.pop(FrameArray); err != nil {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "%s", err)
				}
				if err := cb.onArrayEnd(p.ctx); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
			default:
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "expected ',' or a container close, got %q", c)
			}

		case stateDone:
			if isSpace(c) {
				break
			}
			p.state = stateDead
			return i + 1, syntaxErrorf(i, "unexpected trailing byte %q after value", c)

		case stateObjectStart:
			if isSpace(c) {
				break
			}
			switch c {
			case '"':
				p.state = stateObjectKeyStart
			case '}':
				if err := p.frames.pop(FrameObject); err != nil {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "%s", err)
				}
				if err := cb.onObjectEnd(p.ctx); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
			default:
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "expected an object key or '}', got %q", c)
			}

		case stateObjectNext:
			if isSpace(c) {
				break
			}
			switch c {
			case ',':
				if err := cb.onSeparator(p.ctx); err != nil {
					return i, err
				}
				p.state = stateObject
			case '}':
				if err := p.frames.pop(FrameObject); err != nil {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "%s", err)
				}
				if err := cb.onObjectEnd(p.ctx); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
			default:
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "expected ',' or '}', got %q", c)
			}

		case stateObject:
			if isSpace(c) {
				break
			}
			if c != '"' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "expected an object key, got %q", c)
			}
			p.state = stateObjectKeyStart

		case stateObjectKeyEnd:
			if isSpace(c) {
				break
			}
			if c != ':' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "expected ':', got %q", c)
			}
			p.state = stateDelim

		case stateObjectKeyStart:
			if c == '"' {
				if err := cb.onObjectKey(p.ctx, nil); err != nil {
					return i, err
				}
				p.state = stateObjectKeyEnd
				break
			}
			mark = i
			p.state = stateObjectKey
			if serr, dead := p.scanSpan(cb, buf, i, mark, c, true); serr != nil {
				if dead {
					p.state = stateDead
					return i + 1, serr
				}
				return i, serr
			}

		case stateObjectKeyMark:
			mark = i
			p.state = stateObjectKey
			if serr, dead := p.scanSpan(cb, buf, i, mark, c, true); serr != nil {
				if dead {
					p.state = stateDead
					return i + 1, serr
				}
				return i, serr
			}

		case stateObjectKey:
			if serr, dead := p.scanSpan(cb, buf, i, mark, c, true); serr != nil {
				if dead {
					p.state = stateDead
					return i + 1, serr
				}
				return i, serr
			}

		case stateObjectKeyEscape, stateStringEscape:
			isKey := p.state == stateObjectKeyEscape
			if c == 'u' {
				if isKey {
					p.state = stateObjectKeyU
				} else {
					p.state = stateStringU
				}
				break
			}
			b, ok := escapeByte(c)
			if !ok {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid escape character %q", c)
			}
			if err := p.emitEscapeByte(cb, b, isKey); err != nil {
				return i, err
			}
			if isKey {
				p.state = stateObjectKeyMark
			} else {
				p.state = stateStringMark
			}

		case stateObjectKeyU, stateStringU:
			isKey := p.state == stateObjectKeyU
			if c != '0' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "unsupported \\u escape (must start with \\u00), got %q", c)
			}
			if isKey {
				p.state = stateObjectKeyU0
			} else {
				p.state = stateStringU0
			}

		case stateObjectKeyU0, stateStringU0:
			isKey := p.state == stateObjectKeyU0
			if c != '0' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "unsupported \\u escape (must start with \\u00), got %q", c)
			}
			if isKey {
				p.state = stateObjectKeyU00
			} else {
				p.state = stateStringU00
			}

		case stateObjectKeyU00, stateStringU00:
			isKey := p.state == stateObjectKeyU00
			d, ok := hexDigit(c)
			if !ok {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid hex digit %q in \\u escape", c)
			}
			p.uchar = byte(d << 4)
			if isKey {
				p.state = stateObjectKeyU00X
			} else {
				p.state = stateStringU00X
			}

		case stateObjectKeyU00X, stateStringU00X:
			isKey := p.state == stateObjectKeyU00X
			d, ok := hexDigit(c)
			if !ok {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid hex digit %q in \\u escape", c)
			}
			p.uchar |= byte(d)
			if err := p.emitEscapeByte(cb, p.uchar, isKey); err != nil {
				return i, err
			}
			if isKey {
				p.state = stateObjectKeyMark
			} else {
				p.state = stateStringMark
			}

		case stateStringStart:
			if c == '"' {
				if err := cb.onString(p.ctx, nil); err != nil {
					return i, err
				}
				p.state = p.nextAfterValue()
				break
			}
			mark = i
			p.state = stateString
			if serr, dead := p.scanSpan(cb, buf, i, mark, c, false); serr != nil {
				if dead {
					p.state = stateDead
					return i + 1, serr
				}
				return i, serr
			}

		case stateStringMark:
			mark = i
			p.state = stateString
			if serr, dead := p.scanSpan(cb, buf, i, mark, c, false); serr != nil {
				if dead {
					p.state = stateDead
					return i + 1, serr
				}
				return i, serr
			}

		case stateString:
			if serr, dead := p.scanSpan(cb, buf, i, mark, c, false); serr != nil {
				if dead {
					p.state = stateDead
					return i + 1, serr
				}
				return i, serr
			}

		case stateNumNeg:
			switch {
			case c == '0':
				p.state = stateNumZero
			case c >= '1' && c <= '9':
				p.state = stateNum
			default:
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid number: expected a digit after '-', got %q", c)
			}

		case stateNumZero, stateNum, stateNumDec, stateNumEDig:
			if terminated, terr, dead := p.numberEnd(cb, buf, i, mark, c); terminated {
				if terr != nil {
					if dead {
						return i + 1, terr
					}
					return i, terr
				}
				continue
			}

			switch p.state {
			case stateNumZero:
				if c == '.' {
					p.state = stateNumPoint
				} else {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "invalid number, unexpected %q after leading zero", c)
				}
			case stateNum:
				switch {
				case c >= '0' && c <= '9':
				case c == '.':
					p.state = stateNumPoint
				case c == 'e' || c == 'E':
					p.state = stateNumE
				default:
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "invalid number, unexpected %q", c)
				}
			case stateNumDec:
				switch {
				case c >= '0' && c <= '9':
				case c == 'e' || c == 'E':
					p.state = stateNumE
				default:
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "invalid number, unexpected %q", c)
				}
			case stateNumEDig:
				if !(c >= '0' && c <= '9') {
					p.state = stateDead
					return i + 1, syntaxErrorf(i, "invalid number, unexpected %q in exponent", c)
				}
			}

		case stateNumPoint:
			if c >= '0' && c <= '9' {
				p.state = stateNumDec
			} else {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid number: expected a digit after '.', got %q", c)
			}

		case stateNumE:
			switch {
			case c >= '0' && c <= '9':
				p.state = stateNumEDig
			case c == '+' || c == '-':
				p.state = stateNumESign
			default:
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid number: expected a digit or sign after 'e', got %q", c)
			}

		case stateNumESign:
			if c >= '0' && c <= '9' {
				p.state = stateNumEDig
			} else {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid number: expected a digit after exponent sign, got %q", c)
			}

		case stateNullN:
			if c != 'u' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"null\"")
			}
			p.state = stateNullNU
		case stateNullNU:
			if c != 'l' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"null\"")
			}
			p.state = stateNullNUL
		case stateNullNUL:
			if c != 'l' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"null\"")
			}
			p.state = p.nextAfterValue()
			if err := cb.onNull(p.ctx); err != nil {
				return i, err
			}

		case stateTrueT:
			if c != 'r' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"true\"")
			}
			p.state = stateTrueTR
		case stateTrueTR:
			if c != 'u' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"true\"")
			}
			p.state = stateTrueTRU
		case stateTrueTRU:
			if c != 'e' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"true\"")
			}
			p.state = p.nextAfterValue()
			if err := cb.onBool(p.ctx, true); err != nil {
				return i, err
			}

		case stateFalseF:
			if c != 'a' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"false\"")
			}
			p.state = stateFalseFA
		case stateFalseFA:
			if c != 'l' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"false\"")
			}
			p.state = stateFalseFAL
		case stateFalseFAL:
			if c != 's' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"false\"")
			}
			p.state = stateFalseFALS
		case stateFalseFALS:
			if c != 'e' {
				p.state = stateDead
				return i + 1, syntaxErrorf(i, "invalid literal, expected \"false\"")
			}
			p.state = p.nextAfterValue()
			if err := cb.onBool(p.ctx, false); err != nil {
				return i, err
			}

		default:
			// stateDead is checked for on entry; reaching it here
			// would mean an internal state was left unhandled.
			unhandled := p.state
			p.state = stateDead
			return i + 1, syntaxErrorf(i, "parser reached unhandled internal state %v", unhandled)
		}
	}

	switch {
	case p.state.numberState():
		p.numAccum = append(p.numAccum, buf[mark:]...)
	case p.state == stateString:
		if mark != len(buf) {
			if err := cb.onString(p.ctx, buf[mark:]); err != nil {
				return len(buf), err
			}
		}
	case p.state == stateObjectKey:
		if mark != len(buf) {
			if err := cb.onObjectKey(p.ctx, buf[mark:]); err != nil {
				return len(buf), err
			}
		}
	}

	return len(buf), nil
}
