// Package jsonparser implements an incremental, push-style JSON scanner.
//
// It is a byte-oriented state machine: the caller feeds it chunks of input
// of any size via Exec, and the parser invokes a caller-supplied Callbacks
// bundle as it recognises structure and values. The parser never builds a
// tree and never owns the input buffer past the call to Exec; it is up to
// the callback bundle to copy anything it needs to keep.
//
// See the jsonvalue subpackage for a DOM-building consumer built on top of
// this package's callback contract.
package jsonparser
