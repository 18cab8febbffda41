package jsonparser

// state is the parser's current position in the grammar. The zero value is
// stateDead so a zero-value Parser (outside of New) is inert.
type state int16

const (
	stateDead state = iota

	stateInit  // expect a value
	stateNext  // after an array element, expect ',' or ']'
	stateDelim // after ':' or ',' in an array, expect a value but not a close
	stateDone  // top-level value accepted; only whitespace permitted

	stateNullN
	stateNullNU
	stateNullNUL

	stateTrueT
	stateTrueTR
	stateTrueTRU

	stateFalseF
	stateFalseFA
	stateFalseFAL
	stateFalseFALS

	stateNumNeg
	stateNumZero
	stateNum
	stateNumPoint
	stateNumDec
	stateNumE
	stateNumESign
	stateNumEDig

	stateStringStart
	stateStringMark
	stateStringEscape
	stateStringU
	stateStringU0
	stateStringU00
	stateStringU00X
	stateString

	stateObjectStart
	stateObjectNext   // after a member value, expect ',' or '}'
	stateObject       // after ',' inside object, expect key
	stateObjectKeyStart
	stateObjectKeyMark
	stateObjectKeyEscape
	stateObjectKeyU
	stateObjectKeyU0
	stateObjectKeyU00
	stateObjectKeyU00X
	stateObjectKey
	stateObjectKeyEnd // expect ':'
)

// spanBearing reports whether state is one in which the driver is
// accumulating a run of bytes whose boundary is determined by later input
// (a number, a string body or an object-key body). Such states require
// chunk-boundary mark bookkeeping, since the byte that ends the run may not
// arrive in the same Exec call that started it.
func (s state) spanBearing() bool {
	switch s {
	case stateNumNeg, stateNumZero, stateNum, stateNumPoint, stateNumDec,
		stateNumE, stateNumESign, stateNumEDig,
		stateString, stateObjectKey:
		return true
	}
	return false
}

// numberState reports whether s is one of the number sub-states, i.e. a
// state whose pending span is a number rather than a string/key.
func (s state) numberState() bool {
	switch s {
	case stateNumNeg, stateNumZero, stateNum, stateNumPoint, stateNumDec,
		stateNumE, stateNumESign, stateNumEDig:
		return true
	}
	return false
}

// numberAcceptState reports whether s is an accept state for a number
// value, i.e. end-of-input is a legal outcome while in this state.
func (s state) numberAcceptState() bool {
	switch s {
	case stateNumZero, stateNum, stateNumDec, stateNumEDig:
		return true
	}
	return false
}

var stateNames = map[state]string{
	stateDead:            "dead",
	stateInit:            "init",
	stateNext:            "next",
	stateDelim:           "delim",
	stateDone:            "done",
	stateNullN:           "null(n)",
	stateNullNU:          "null(nu)",
	stateNullNUL:         "null(nul)",
	stateTrueT:           "true(t)",
	stateTrueTR:          "true(tr)",
	stateTrueTRU:         "true(tru)",
	stateFalseF:          "false(f)",
	stateFalseFA:         "false(fa)",
	stateFalseFAL:        "false(fal)",
	stateFalseFALS:       "false(fals)",
	stateNumNeg:          "number(-)",
	stateNumZero:         "number(0)",
	stateNum:             "number",
	stateNumPoint:        "number(.)",
	stateNumDec:          "number(decimal)",
	stateNumE:            "number(e)",
	stateNumESign:        "number(e-sign)",
	stateNumEDig:         "number(e-digits)",
	stateStringStart:     "string(start)",
	stateStringMark:      "string(mark)",
	stateStringEscape:    "string(escape)",
	stateStringU:         "string(\\u)",
	stateStringU0:        "string(\\u0)",
	stateStringU00:       "string(\\u00)",
	stateStringU00X:      "string(\\u00X)",
	stateString:          "string",
	stateObjectStart:     "object(start)",
	stateObjectNext:      "object(next)",
	stateObject:          "object",
	stateObjectKeyStart:  "object-key(start)",
	stateObjectKeyMark:   "object-key(mark)",
	stateObjectKeyEscape: "object-key(escape)",
	stateObjectKeyU:      "object-key(\\u)",
	stateObjectKeyU0:     "object-key(\\u0)",
	stateObjectKeyU00:    "object-key(\\u00)",
	stateObjectKeyU00X:   "object-key(\\u00X)",
	stateObjectKey:       "object-key",
	stateObjectKeyEnd:    "object-key(end)",
}

func (s state) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isPrintable is a locale-independent byte predicate: reject the C0 control
// range and DEL, accept everything else including high-bit UTF-8
// continuation/lead bytes. Using the C library's isprint would make
// acceptance depend on the process locale, which a streaming parser can't
// tolerate.
func isPrintable(b byte) bool {
	if b < 0x20 || b == 0x7f {
		return false
	}
	return true
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

// escapeByte decodes a single-character escape (everything after '\' other
// than 'u'); ok is false for anything not in the escape set, including 'u'
// itself (the caller special-cases that one since it isn't a fixed byte).
func escapeByte(b byte) (byte, bool) {
	switch b {
	case 'b':
		return '\b', true
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'f':
		return '\f', true
	case 'r':
		return '\r', true
	case '"':
		return '"', true
	case '/':
		return '/', true
	case '\\':
		return '\\', true
	}
	return 0, false
}
