package jsonparser

// Callbacks is the fixed bundle of hooks Exec invokes as it recognises
// tokens. Every callback receives the ctx handle passed to New; the parser
// never dereferences or otherwise inspects it.
//
// Any callback may return a non-nil error to abort the in-progress Exec
// call. Doing so does not kill the parser (IsDead stays false) — see
// Parser.Exec for the exact bytes_consumed contract on that path.
//
// Byte slices passed to OnNumber, OnString and OnObjectKey are views into
// the buf given to Exec and are invalidated the moment Exec returns; copy
// them if you need to retain the value. OnString and OnObjectKey may each
// fire multiple times for a single string or key (once per contiguous raw
// span, and once per escape-decoded byte); a nil (not just empty) slice
// signals an explicitly empty string or key.
type Callbacks struct {
	OnNull func(ctx interface{}) error
	OnBool func(ctx interface{}, v bool) error

	// OnNumber fires once per complete number token, with the full
	// decimal literal (possibly reassembled across chunk boundaries).
	OnNumber func(ctx interface{}, data []byte) error

	// OnString may fire multiple times per string: nil,0 for an
	// explicitly empty string, or one call per raw span / decoded
	// escape byte otherwise.
	OnString func(ctx interface{}, data []byte) error

	OnObjectStart func(ctx interface{}) error
	OnObjectEnd   func(ctx interface{}) error

	// OnObjectKey behaves like OnString but for object member keys.
	OnObjectKey func(ctx interface{}, data []byte) error

	OnArrayStart func(ctx interface{}) error
	OnArrayEnd   func(ctx interface{}) error

	// OnSeparator fires once per ',' encountered inside any container.
	OnSeparator func(ctx interface{}) error
}

func (cb *Callbacks) onNull(ctx interface{}) error {
	if cb == nil || cb.OnNull == nil {
		return nil
	}
	return cb.OnNull(ctx)
}

func (cb *Callbacks) onBool(ctx interface{}, v bool) error {
	if cb == nil || cb.OnBool == nil {
		return nil
	}
	return cb.OnBool(ctx, v)
}

func (cb *Callbacks) onNumber(ctx interface{}, data []byte) error {
	if cb == nil || cb.OnNumber == nil || len(data) == 0 {
		return nil
	}
	return cb.OnNumber(ctx, data)
}

func (cb *Callbacks) onString(ctx interface{}, data []byte) error {
	if cb == nil || cb.OnString == nil {
		return nil
	}
	return cb.OnString(ctx, data)
}

func (cb *Callbacks) onObjectKey(ctx interface{}, data []byte) error {
	if cb == nil || cb.OnObjectKey == nil {
		return nil
	}
	return cb.OnObjectKey(ctx, data)
}

func (cb *Callbacks) onObjectStart(ctx interface{}) error {
	if cb == nil || cb.OnObjectStart == nil {
		return nil
	}
	return cb.OnObjectStart(ctx)
}

func (cb *Callbacks) onObjectEnd(ctx interface{}) error {
	if cb == nil || cb.OnObjectEnd == nil {
		return nil
	}
	return cb.OnObjectEnd(ctx)
}

func (cb *Callbacks) onArrayStart(ctx interface{}) error {
	if cb == nil || cb.OnArrayStart == nil {
		return nil
	}
	return cb.OnArrayStart(ctx)
}

func (cb *Callbacks) onArrayEnd(ctx interface{}) error {
	if cb == nil || cb.OnArrayEnd == nil {
		return nil
	}
	return cb.OnArrayEnd(ctx)
}

func (cb *Callbacks) onSeparator(ctx interface{}) error {
	if cb == nil || cb.OnSeparator == nil {
		return nil
	}
	return cb.OnSeparator(ctx)
}
