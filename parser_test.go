package jsonparser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pushjson/jsonparser"
)

// event is a cmp-friendly, comparable projection of a single callback firing,
// used the way tetratelabs-wazero's test suite captures an ordered trace of
// engine events and diffs it against an expected sequence.
type event struct {
	kind string
	data string
	b    bool
}

func recordingCallbacks(events *[]event) *jsonparser.Callbacks {
	rec := func(kind string) func(ctx interface{}) error {
		return func(ctx interface{}) error {
			*events = append(*events, event{kind: kind})
			return nil
		}
	}
	return &jsonparser.Callbacks{
		OnNull: rec("null"),
		OnBool: func(ctx interface{}, v bool) error {
			*events = append(*events, event{kind: "bool", b: v})
			return nil
		},
		OnNumber: func(ctx interface{}, data []byte) error {
			*events = append(*events, event{kind: "number", data: string(data)})
			return nil
		},
		OnString: func(ctx interface{}, data []byte) error {
			*events = append(*events, event{kind: "string", data: string(data)})
			return nil
		},
		OnObjectStart: rec("object_start"),
		OnObjectEnd:   rec("object_end"),
		OnObjectKey: func(ctx interface{}, data []byte) error {
			*events = append(*events, event{kind: "object_key", data: string(data)})
			return nil
		},
		OnArrayStart: rec("array_start"),
		OnArrayEnd:   rec("array_end"),
		OnSeparator:  rec("separator"),
	}
}

func runToEOF(t *testing.T, p *jsonparser.Parser, cb *jsonparser.Callbacks, chunks ...string) error {
	t.Helper()
	for _, c := range chunks {
		n, err := p.Exec(cb, []byte(c))
		if err != nil {
			return err
		}
		require.Equal(t, len(c), n)
	}
	_, err := p.Exec(cb, nil)
	return err
}

func TestScenarios(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, "null"))
		require.False(t, p.IsDead())
		want := []event{{kind: "null"}}
		if diff := cmp.Diff(want, events, cmp.AllowUnexported(event{})); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("true with leading and trailing whitespace", func(t *testing.T) {
		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, "  true\n"))
		want := []event{{kind: "bool", b: true}}
		if diff := cmp.Diff(want, events, cmp.AllowUnexported(event{})); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("array of numbers", func(t *testing.T) {
		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, "[1,2,3]"))
		want := []event{
			{kind: "array_start"},
			{kind: "number", data: "1"},
			{kind: "separator"},
			{kind: "number", data: "2"},
			{kind: "separator"},
			{kind: "number", data: "3"},
			{kind: "array_end"},
		}
		if diff := cmp.Diff(want, events, cmp.AllowUnexported(event{})); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("object with empty string and null members", func(t *testing.T) {
		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, `{"a":"","b":null}`))
		want := []event{
			{kind: "object_start"},
			{kind: "object_key", data: "a"},
			{kind: "string", data: ""},
			{kind: "separator"},
			{kind: "object_key", data: "b"},
			{kind: "null"},
			{kind: "object_end"},
		}
		if diff := cmp.Diff(want, events, cmp.AllowUnexported(event{})); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("string with tab escape splits into spans", func(t *testing.T) {
		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, `"he\tllo"`))
		want := []event{
			{kind: "string", data: "he"},
			{kind: "string", data: "\t"},
			{kind: "string", data: "llo"},
		}
		if diff := cmp.Diff(want, events, cmp.AllowUnexported(event{})); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("number split across chunks reassembles", func(t *testing.T) {
		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, "[12", "34,5]"))

		var gotNumbers []string
		for _, e := range events {
			if e.kind == "number" {
				gotNumbers = append(gotNumbers, e.data)
			}
		}
		if diff := cmp.Diff([]string{"1234", "5"}, gotNumbers); diff != "" {
			t.Errorf("reassembled number mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty object body rejects a bare comma", func(t *testing.T) {
		p := jsonparser.New(nil)
		cb := recordingCallbacks(new([]event))
		n, err := p.Exec(cb, []byte("{,}"))
		require.Error(t, err)
		require.True(t, p.IsDead())
		require.Equal(t, 2, n) // offset of ',' (1) + 1
		var syntaxErr *jsonparser.SyntaxError
		require.True(t, errors.As(err, &syntaxErr))
		require.Equal(t, 1, syntaxErr.Offset)
	})

	t.Run("trailing comma in array is rejected", func(t *testing.T) {
		p := jsonparser.New(nil)
		cb := recordingCallbacks(new([]event))
		n, err := p.Exec(cb, []byte("[1,]"))
		require.Error(t, err)
		require.True(t, p.IsDead())
		require.Equal(t, 4, n) // offset of ']' (3) + 1
	})
}

func TestExecOnDeadParserIsNoop(t *testing.T) {
	p := jsonparser.New(nil)
	cb := recordingCallbacks(new([]event))
	_, err := p.Exec(cb, []byte("}"))
	require.Error(t, err)
	require.True(t, p.IsDead())

	n, err := p.Exec(cb, []byte(`"anything"`))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestCallbackRefusalDoesNotKillParser(t *testing.T) {
	p := jsonparser.New(nil)
	refusal := errors.New("caller declined")
	cb := &jsonparser.Callbacks{
		OnNull: func(ctx interface{}) error { return refusal },
	}
	n, err := p.Exec(cb, []byte("null"))
	require.ErrorIs(t, err, refusal)
	require.Equal(t, 3, n) // offset of the 'l' that completed the literal
	require.False(t, p.IsDead())
}

func TestEOFMidTokenIsDead(t *testing.T) {
	p := jsonparser.New(nil)
	cb := recordingCallbacks(new([]event))
	_, err := p.Exec(cb, []byte(`"unterminated`))
	require.NoError(t, err)
	require.False(t, p.IsDead())

	n, err := p.Exec(cb, nil)
	require.Error(t, err)
	require.Equal(t, 1, n)
	require.True(t, p.IsDead())
}

func TestTrailingByteAfterTopLevelValueIsDead(t *testing.T) {
	p := jsonparser.New(nil)
	cb := recordingCallbacks(new([]event))
	n, err := p.Exec(cb, []byte("null x"))
	require.Error(t, err)
	require.True(t, p.IsDead())
	require.Equal(t, len("null x"), n)
}

func TestChunkInvariance(t *testing.T) {
	input := `{"items":[1,2.5,"three",null,true,false],"nested":{"k":"v"}}`

	wholeEvents := []event(nil)
	p := jsonparser.New(nil)
	cb := recordingCallbacks(&wholeEvents)
	require.NoError(t, runToEOF(t, p, cb, input))

	for chunkSize := 1; chunkSize <= len(input); chunkSize++ {
		var chunks []string
		for i := 0; i < len(input); i += chunkSize {
			end := i + chunkSize
			if end > len(input) {
				end = len(input)
			}
			chunks = append(chunks, input[i:end])
		}

		var events []event
		p := jsonparser.New(nil)
		cb := recordingCallbacks(&events)
		require.NoError(t, runToEOF(t, p, cb, chunks...))

		if diff := cmp.Diff(coalesceSpans(wholeEvents), coalesceSpans(events), cmp.AllowUnexported(event{})); diff != "" {
			t.Fatalf("chunk size %d produced a different event sequence (-want +got):\n%s", chunkSize, diff)
		}
	}
}

// coalesceSpans merges each run of adjacent "string" or "object_key" events
// into one event. A string or key that straddles a chunk boundary arrives as
// several spans, so only their concatenation is independent of chunking.
func coalesceSpans(events []event) []event {
	var out []event
	for _, e := range events {
		n := len(out)
		if n > 0 && (e.kind == "string" || e.kind == "object_key") && out[n-1].kind == e.kind {
			out[n-1].data += e.data
			continue
		}
		out = append(out, e)
	}
	return out
}

func TestCloseThenExecReturnsErrClosed(t *testing.T) {
	p := jsonparser.New(nil)
	require.NoError(t, p.Close())
	cb := recordingCallbacks(new([]event))
	_, err := p.Exec(cb, []byte("null"))
	require.ErrorIs(t, err, jsonparser.ErrClosed)
}

func TestWithInitialDepth(t *testing.T) {
	p := jsonparser.New(nil, jsonparser.WithInitialDepth(1))
	cb := recordingCallbacks(new([]event))
	require.NoError(t, runToEOF(t, p, cb, "[[[[[1]]]]]"))
}
