package plaintext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// lineWriter turns a stream of text fragments into wrapped, whitespace
// collapsed output. Nothing is emitted for blank-line or space requests that
// arrive before the first word, so output never starts with blank lines or
// spaces.
type lineWriter struct {
	out       strings.Builder
	line      strings.Builder
	lineWidth int

	wrapCol int
	noWrap  bool

	active   bool // a word has been written
	newlines int  // largest pending blank-line request
	space    bool // a separating space is pending
}

func newLineWriter(wrapCol int) *lineWriter {
	return &lineWriter{wrapCol: wrapCol}
}

// write submits text. It is split on whitespace runs; leading and trailing
// whitespace turn into a pending space, a trailing newline into a request
// for one blank line.
func (w *lineWriter) write(s string) {
	if s == "" {
		return
	}

	first, _ := utf8.DecodeRuneInString(s)
	if isBreakingSpace(first) {
		w.wantSpace()
	}

	words := strings.FieldsFunc(s, isBreakingSpace)
	for i, word := range words {
		w.writeWord(word)
		if i < len(words)-1 {
			w.wantSpace()
		}
	}

	last, _ := utf8.DecodeLastRuneInString(s)
	switch {
	case last == '\n':
		w.blankLines(1)
	case isBreakingSpace(last):
		w.wantSpace()
	}
}

// writeRune submits a single character as a word of its own.
func (w *lineWriter) writeRune(r rune) {
	w.writeWord(string(r))
}

func (w *lineWriter) writeWord(word string) {
	if word == "" {
		return
	}

	width := runewidth.StringWidth(word)
	if w.wraps() && w.newlines == 0 && w.line.Len() > 0 {
		extra := width
		if w.space {
			extra++
		}
		if w.lineWidth+extra >= w.wrapCol {
			w.breakLine(0)
		}
	}

	if w.space && w.newlines == 0 {
		w.line.WriteByte(' ')
		w.lineWidth++
	}
	if w.newlines > 0 {
		w.breakLine(w.newlines)
	}

	w.space = false
	w.active = true
	w.line.WriteString(word)
	w.lineWidth += width
}

func (w *lineWriter) wraps() bool {
	return !w.noWrap && w.wrapCol != Unbounded
}

// blankLines raises the pending blank-line count to n. Requests coalesce to
// the largest one until the next word is written.
func (w *lineWriter) blankLines(n int) {
	if w.active && n > w.newlines {
		w.newlines = n
	}
}

func (w *lineWriter) wantSpace() {
	if w.active {
		w.space = true
	}
}

// flushLine moves a non-empty line into the output, terminated by a newline.
func (w *lineWriter) flushLine() {
	if w.line.Len() == 0 {
		return
	}
	w.out.WriteString(w.line.String())
	w.out.WriteByte('\n')
	w.resetLine()
}

// breakLine ends the current line and leaves n blank lines after it.
func (w *lineWriter) breakLine(n int) {
	w.out.WriteString(w.line.String())
	w.out.WriteString(strings.Repeat("\n", n+1))
	w.resetLine()
	w.newlines = 0
	w.space = false
}

func (w *lineWriter) resetLine() {
	w.line.Reset()
	w.lineWidth = 0
}

// finish flushes the partial line and returns everything written.
func (w *lineWriter) finish() string {
	w.flushLine()
	return w.out.String()
}

// isBreakingSpace reports whether r separates words. No-break spaces keep
// their words together.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}
