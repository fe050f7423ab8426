package newick

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemTerminal
	itemDescendantsStart
	itemDescendantsEnd
	itemDelimiter
	itemLengthStart
	itemLabel
)

const (
	terminal       = ';'
	descDelimiter  = ','
	descStart      = '('
	descEnd        = ')'
	quote          = '\''
	lengthStart    = ':'
	commentStart   = '['
	commentEnd     = ']'
	unquotedBanned = "()[]':;,"
)

type item struct {
	typ    itemType
	val    string
	quoted bool
	line   int
	col    int
}

// lexer splits Newick input into items. It reads one rune at a time and
// supports a single item of lookahead through backup.
type lexer struct {
	in       *bufio.Reader
	line     int
	col      int
	prevLine int
	prevCol  int
	pending  *item
}

func lex(input io.Reader) *lexer {
	return &lexer{in: bufio.NewReader(input), line: 1}
}

func (lx *lexer) read() (rune, bool) {
	r, _, err := lx.in.ReadRune()
	if err != nil {
		return 0, false
	}
	lx.prevLine, lx.prevCol = lx.line, lx.col
	if r == '\n' {
		lx.line++
		lx.col = 0
	} else {
		lx.col++
	}
	return r, true
}

// unread steps back one rune. Can be called only once per call of read.
func (lx *lexer) unread() {
	_ = lx.in.UnreadRune()
	lx.line, lx.col = lx.prevLine, lx.prevCol
}

// backup pushes an item back so the next call to nextItem returns it.
func (lx *lexer) backup(it item) {
	lx.pending = &it
}

func (lx *lexer) nextItem() item {
	if lx.pending != nil {
		it := *lx.pending
		lx.pending = nil
		return it
	}

	for {
		r, ok := lx.read()
		if !ok {
			return item{typ: itemEOF, line: lx.line, col: lx.col + 1}
		}
		if unicode.IsSpace(r) {
			continue
		}

		line, col := lx.line, lx.col
		emit := func(typ itemType) item {
			return item{typ: typ, val: string(r), line: line, col: col}
		}

		switch r {
		case commentStart:
			if !lx.skipComment() {
				return lx.errorf(line, col, "unterminated comment")
			}
			continue
		case commentEnd:
			return lx.errorf(line, col, "unexpected '%c' outside a comment", r)
		case terminal:
			return emit(itemTerminal)
		case descStart:
			return emit(itemDescendantsStart)
		case descEnd:
			return emit(itemDescendantsEnd)
		case descDelimiter:
			return emit(itemDelimiter)
		case lengthStart:
			return emit(itemLengthStart)
		case quote:
			return lx.lexQuoted(line, col)
		}
		return lx.lexLabel(r, line, col)
	}
}

func (lx *lexer) lexLabel(first rune, line, col int) item {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, ok := lx.read()
		if !ok {
			break
		}
		if unicode.IsSpace(r) || strings.ContainsRune(unquotedBanned, r) {
			lx.unread()
			break
		}
		b.WriteRune(r)
	}
	return item{typ: itemLabel, val: b.String(), line: line, col: col}
}

func (lx *lexer) lexQuoted(line, col int) item {
	var b strings.Builder
	for {
		r, ok := lx.read()
		if !ok {
			return lx.errorf(line, col, "unterminated quoted label")
		}
		if r != quote {
			b.WriteRune(r)
			continue
		}
		// A doubled quote is a literal quote character.
		if next, ok := lx.read(); ok {
			if next == quote {
				b.WriteRune(quote)
				continue
			}
			lx.unread()
		}
		return item{typ: itemLabel, val: b.String(), quoted: true, line: line, col: col}
	}
}

// skipComment consumes input through the closing bracket.
func (lx *lexer) skipComment() bool {
	for {
		r, ok := lx.read()
		if !ok {
			return false
		}
		if r == commentEnd {
			return true
		}
	}
}

func (lx *lexer) errorf(line, col int, format string, values ...any) item {
	return item{typ: itemError, val: fmt.Sprintf(format, values...), line: line, col: col}
}

func (itype itemType) String() string {
	switch itype {
	case itemError:
		return "error"
	case itemEOF:
		return "end of input"
	case itemTerminal:
		return "';'"
	case itemDescendantsStart:
		return "'('"
	case itemDescendantsEnd:
		return "')'"
	case itemDelimiter:
		return "','"
	case itemLengthStart:
		return "':'"
	case itemLabel:
		return "label"
	}
	panic(fmt.Sprintf("BUG: Unknown type '%d'.", int(itype)))
}
