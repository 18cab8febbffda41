package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pushjson/jsonparser"
)

// ErrEmpty is returned when parsing succeeds but leaves no top-level value
// on the builder's stack. An empty or whitespace-only input never gets that
// far: jsonparser rejects it at end-of-input, and Parse returns that
// syntax error instead.
var ErrEmpty = errors.New("jsonvalue: no value parsed")

// containerKind tags an open array/object frame on the builder's own stack,
// the value-tree analogue of jsonparser's internal frame stack.
type containerKind int8

const (
	arrayFrame containerKind = iota
	objectFrame
)

type frame struct {
	kind     containerKind
	valueTop int // index of the container's own Value in the values stack
}

type pendingKind int8

const (
	pendingNone pendingKind = iota
	pendingString
	pendingKey
)

// builder turns a stream of jsonparser callback events into a Value tree.
// It owns three independent stacks: completed values awaiting a container to
// merge into, completed object keys awaiting their value, and open
// container frames. A string or object key is not a stack entry until it is
// actually finished — OnString/OnObjectKey may each fire several times for
// one logical value, so the builder keeps the Value or key currently being
// assembled in pendingValue/pendingKeyBuf until some other event signals
// that its run of spans has ended.
type builder struct {
	values []*Value
	keys   []string
	frames []frame

	pendingKind   pendingKind
	pendingValue  *Value
	pendingKeyBuf bytes.Buffer
}

func (b *builder) pushValue(v *Value) {
	b.values = append(b.values, v)
}

func (b *builder) popValue() *Value {
	n := len(b.values) - 1
	v := b.values[n]
	b.values = b.values[:n]
	return v
}

func (b *builder) popKey() string {
	n := len(b.keys) - 1
	k := b.keys[n]
	b.keys = b.keys[:n]
	return k
}

// accumulate feeds one more span into the string or key currently being
// assembled, first flushing whatever was pending if it belongs to a
// different kind of span (an object key immediately followed by its value,
// for instance, both arrive through this path).
func (b *builder) accumulate(kind pendingKind, data []byte) error {
	if b.pendingKind != pendingNone && b.pendingKind != kind {
		if err := b.flushPending(); err != nil {
			return err
		}
	}
	b.pendingKind = kind
	if kind == pendingString {
		if b.pendingValue == nil {
			b.pendingValue = newOpenString()
		}
		b.pendingValue.appendText(data)
		return nil
	}
	b.pendingKeyBuf.Write(data)
	return nil
}

// flushPending closes out whatever span is in progress, turning it into a
// completed string Value or a completed object key. It is a no-op if
// nothing is pending. Every callback other than OnString/OnObjectKey must
// call this before doing its own work, since any other event marks the end
// of a string or key's run of spans.
func (b *builder) flushPending() error {
	switch b.pendingKind {
	case pendingString:
		b.pendingValue.close()
		b.pushValue(b.pendingValue)
		b.pendingValue = nil
	case pendingKey:
		b.keys = append(b.keys, b.pendingKeyBuf.String())
		b.pendingKeyBuf.Reset()
	default:
		return nil
	}
	b.pendingKind = pendingNone
	return nil
}

// growArray merges the most recently completed value into the array frame
// sitting at f.valueTop.
func (b *builder) growArray(f frame) {
	v := b.popValue()
	b.values[f.valueTop].appendElement(v)
}

// growObject merges the most recently completed key/value pair into the
// object frame sitting at f.valueTop.
func (b *builder) growObject(f frame) {
	v := b.popValue()
	k := b.popKey()
	b.values[f.valueTop].setMember(k, v)
}

// grow merges a completed member into whichever container frame is
// current, if one is pending merge; it is called both on ',' (always a
// merge, since a comma only ever follows a completed member) and on a
// container close (a merge only if the container is non-empty).
func (b *builder) grow(f frame) {
	if f.kind == objectFrame {
		b.growObject(f)
	} else {
		b.growArray(f)
	}
}

func (b *builder) topFrame() frame {
	return b.frames[len(b.frames)-1]
}

func (b *builder) popFrame() frame {
	n := len(b.frames) - 1
	f := b.frames[n]
	b.frames = b.frames[:n]
	return f
}

func newCallbacks(b *builder) *jsonparser.Callbacks {
	return &jsonparser.Callbacks{
		OnNull: func(ctx interface{}) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			b.pushValue(newNull())
			return nil
		},
		OnBool: func(ctx interface{}, v bool) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			b.pushValue(newBoolean(v))
			return nil
		},
		OnNumber: func(ctx interface{}, data []byte) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			b.pushValue(parseNumber(data))
			return nil
		},
		OnString: func(ctx interface{}, data []byte) error {
			return b.accumulate(pendingString, data)
		},
		OnObjectKey: func(ctx interface{}, data []byte) error {
			return b.accumulate(pendingKey, data)
		},
		OnObjectStart: func(ctx interface{}) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			b.pushValue(newOpenObject())
			b.frames = append(b.frames, frame{
				kind:     objectFrame,
				valueTop: len(b.values) - 1,
			})
			return nil
		},
		OnObjectEnd: func(ctx interface{}) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			f := b.topFrame()
			if len(b.values)-1 > f.valueTop {
				b.grow(f)
			}
			b.values[f.valueTop].close()
			b.popFrame()
			return nil
		},
		OnArrayStart: func(ctx interface{}) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			b.pushValue(newOpenArray())
			b.frames = append(b.frames, frame{
				kind:     arrayFrame,
				valueTop: len(b.values) - 1,
			})
			return nil
		},
		OnArrayEnd: func(ctx interface{}) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			f := b.topFrame()
			if len(b.values)-1 > f.valueTop {
				b.grow(f)
			}
			b.values[f.valueTop].close()
			b.popFrame()
			return nil
		},
		OnSeparator: func(ctx interface{}) error {
			if err := b.flushPending(); err != nil {
				return err
			}
			b.grow(b.topFrame())
			return nil
		},
	}
}

// parseNumber classifies a number lexeme: anything with a '.' or an
// exponent is a Number (float64); a bare run of digits (with an optional
// leading '-') is an Integer.
func parseNumber(data []byte) *Value {
	isFloat := bytes.ContainsAny(data, ".eE")
	if isFloat {
		f, _ := strconv.ParseFloat(string(data), 64)
		return newNumber(f)
	}
	n, _ := strconv.ParseInt(string(data), 10, 64)
	return newInteger(n)
}

// Parse reads a single JSON value from r to completion and returns the
// resulting tree. It drives jsonparser.Parser directly, reading in 32 KiB
// chunks the same way cmd/jsonlint does.
func Parse(r io.Reader) (*Value, error) {
	b := &builder{}
	cb := newCallbacks(b)
	p := jsonparser.New(nil)
	defer p.Close()

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, perr := p.Exec(cb, buf[:n]); perr != nil {
				return newNull(), perr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return newNull(), err
		}
	}
	if _, perr := p.Exec(cb, nil); perr != nil {
		return newNull(), perr
	}
	if err := b.flushPending(); err != nil {
		return newNull(), err
	}
	if len(b.values) == 0 {
		return newNull(), fmt.Errorf("%w", ErrEmpty)
	}
	return b.values[len(b.values)-1], nil
}

// ParseString parses a JSON value out of s.
func ParseString(s string) (*Value, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses a JSON value out of b.
func ParseBytes(data []byte) (*Value, error) {
	return Parse(bytes.NewReader(data))
}
