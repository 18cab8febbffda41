// Command jsonlint validates a single JSON value read from a file or
// stdin, streaming it through the push-parser in fixed-size chunks to
// demonstrate that validation does not depend on how the input is chunked.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/pushjson/jsonparser"
)

const chunkSize = 32 * 1024

type options struct {
	File  string `short:"f" long:"file" description:"Read JSON from the given file, rather than stdin" value-name:"path"`
	Quiet bool   `long:"quiet" description:"Suppress the \"ok\" message on success"`
}

func parseOptions(args []string) (*options, []string) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [file]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	return &opts, rest
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("jsonlint: ")

	opts, rest := parseOptions(os.Args[1:])

	path := opts.File
	if path == "" && len(rest) > 0 {
		path = rest[0]
	}

	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	if err := lint(r); err != nil {
		log.Fatal(err)
	}
	if !opts.Quiet {
		fmt.Println("ok")
	}
}

func lint(r io.Reader) error {
	p := jsonparser.New(nil)
	defer p.Close()

	buf := make([]byte, chunkSize)
	offset := 0
	cb := &jsonparser.Callbacks{}

	for {
		n, err := r.Read(buf)
		if n > 0 {
			consumed, perr := p.Exec(cb, buf[:n])
			if perr != nil {
				return reportSyntaxError(perr, offset)
			}
			offset += consumed
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}

	if _, err := p.Exec(cb, nil); err != nil {
		return reportSyntaxError(err, offset)
	}
	return nil
}

// reportSyntaxError re-anchors a *SyntaxError's offset (relative to the
// chunk that produced it) to the absolute stream offset, given the absolute
// offset at which that chunk started, since a streaming reader has no
// persistent absolute position of its own to attach to the error.
func reportSyntaxError(err error, chunkStart int) error {
	var syntaxErr *jsonparser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("invalid JSON at byte %d: %s", chunkStart+syntaxErr.Offset, syntaxErr.Msg)
	}
	return err
}
