// Package legacy recovers readable text from files the structured parser
// cannot handle, by scanning the raw bytes for runs of printable ASCII and
// UTF-16LE characters.
//
// The scan is a heuristic. A run is kept only when it is long enough,
// contains a space and is mostly letters and spaces, which filters out most
// printable noise in binary data.
package legacy

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/onestore"
	"github.com/joshuapare/onestore/pkg/types"
)

// Default thresholds.
const (
	DefaultMinLength     = 8
	DefaultMinAlphaRatio = 0.6
)

// Options are the run filters.
type Options struct {
	// MinLength is the minimum run length in characters.
	MinLength int
	// MinAlphaRatio is the share of letters and spaces a run must exceed.
	MinAlphaRatio float64
}

// DefaultOptions returns the default filters.
func DefaultOptions() Options {
	return Options{MinLength: DefaultMinLength, MinAlphaRatio: DefaultMinAlphaRatio}
}

// Run is one accepted run of text.
type Run struct {
	// Offset is the byte offset of the first character.
	Offset int64
	Text   string
	// Wide is set for runs found by the UTF-16LE scan.
	Wide bool
}

// Scan reports every accepted run of res to fn: first all ASCII runs, then
// all UTF-16LE runs, each in file order.
func Scan(res onestore.Resource, opts Options, fn func(Run) error) error {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	s := scanner{opts: opts, fn: fn}
	if err := s.ascii(bufio.NewReader(io.NewSectionReader(res, 0, res.Size()))); err != nil {
		return errors.Wrap(err, "ascii scan")
	}
	if err := s.wide(bufio.NewReader(io.NewSectionReader(res, 0, res.Size()))); err != nil {
		return errors.Wrap(err, "utf-16 scan")
	}
	return nil
}

// Dump writes every accepted run of res to h as a paragraph, then ends the
// document.
func Dump(res onestore.Resource, opts Options, h types.ContentHandler) error {
	err := Scan(res, opts, func(r Run) error {
		if err := h.StartElement("p"); err != nil {
			return err
		}
		if err := h.Characters(r.Text); err != nil {
			return err
		}
		if err := h.EndElement("p"); err != nil {
			return err
		}
		return h.Newline()
	})
	if err != nil {
		return err
	}
	return h.EndDocument()
}

type scanner struct {
	opts Options
	fn   func(Run) error
	run  strings.Builder
	at   int64
}

func printable(c byte) bool { return c >= 0x20 && c <= 0x7E }

func (s *scanner) ascii(r *bufio.Reader) error {
	var pos int64
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return s.flush(false)
		}
		if err != nil {
			return err
		}
		if printable(c) {
			if s.run.Len() == 0 {
				s.at = pos
			}
			s.run.WriteByte(c)
		} else if err := s.flush(false); err != nil {
			return err
		}
		pos++
	}
}

// wide accepts a character only when a printable low byte is followed by a
// zero high byte. On a rejected pair the scan moves on by one byte, so runs
// starting at odd offsets are found too.
func (s *scanner) wide(r *bufio.Reader) error {
	var pos int64
	for {
		pair, err := r.Peek(2)
		if len(pair) < 2 {
			if err == io.EOF || err == nil {
				return s.flush(true)
			}
			return err
		}
		step := 1
		if printable(pair[0]) && pair[1] == 0 {
			if s.run.Len() == 0 {
				s.at = pos
			}
			s.run.WriteByte(pair[0])
			step = 2
		} else if err := s.flush(true); err != nil {
			return err
		}
		if _, err := r.Discard(step); err != nil {
			return err
		}
		pos += int64(step)
	}
}

func (s *scanner) flush(wide bool) error {
	if s.run.Len() == 0 {
		return nil
	}
	text := s.run.String()
	s.run.Reset()
	if !Accept(text, s.opts) {
		return nil
	}
	return s.fn(Run{Offset: s.at, Text: text, Wide: wide})
}

// Accept reports whether a printable run passes the filters: at least
// MinLength characters, at least one space, and a share of ASCII letters and
// spaces above MinAlphaRatio.
func Accept(text string, opts Options) bool {
	if len(text) < opts.MinLength || !strings.Contains(text, " ") {
		return false
	}
	alpha := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			alpha++
		}
	}
	return float64(alpha)/float64(len(text)) > opts.MinAlphaRatio
}
