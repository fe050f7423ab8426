package newick

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// Reader corresponds to the state necessary to read trees from Newick
// formatted input.
type Reader struct {
	lx *lexer
}

// NewReader returns a reader ready for reading trees from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{lx: lex(r)}
}

// Parse reads exactly one tree from text. Empty input and input that
// continues after the first ';' are syntax errors.
func Parse(text string) (*tree.Tree, error) {
	r := NewReader(strings.NewReader(text))
	t, err := r.Read()
	if err == io.EOF {
		return nil, syntaxErr(r.lx.line, r.lx.col+1, "empty input")
	}
	if err != nil {
		return nil, err
	}
	if it := r.lx.nextItem(); it.typ != itemEOF {
		return nil, unexpected(it, "end of input after ';'")
	}
	return t, nil
}

// ReadAll returns all of the Newick trees in the source input, in order.
// The first error that occurs is returned with no trees. The error is never
// io.EOF.
func (r *Reader) ReadAll() ([]*tree.Tree, error) {
	var trees []*tree.Tree
	for {
		t, err := r.Read()
		if err == io.EOF {
			return trees, nil
		}
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
}

// Read reads a single tree from the source input. If the end of the input is
// reached before any tree starts, it returns io.EOF.
func (r *Reader) Read() (*tree.Tree, error) {
	first := r.lx.nextItem()
	switch first.typ {
	case itemEOF:
		return nil, io.EOF
	case itemTerminal:
		return nil, syntaxErr(first.line, first.col, "empty tree")
	}

	spec, err := r.parseSubtree(first)
	if err != nil {
		return nil, err
	}

	if it := r.lx.nextItem(); it.typ != itemTerminal {
		if it.typ == itemDescendantsEnd {
			return nil, syntaxErr(it.line, it.col, "unbalanced brackets: unexpected ')'")
		}
		return nil, unexpected(it, "';'")
	}

	// Build only fails on duplicate tip labels here; that is a topology
	// problem, not a syntax one.
	return tree.Build(spec)
}

// ReadFile reads every tree in the Newick file at path.
func ReadFile(path string) ([]*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return NewReader(f).ReadAll()
}

func (r *Reader) parseSubtree(next item) (tree.Spec, error) {
	var s tree.Spec

	if next.typ == itemDescendantsStart {
		for {
			child, err := r.parseSubtree(r.lx.nextItem())
			if err != nil {
				return s, err
			}
			s.Children = append(s.Children, child)

			sep := r.lx.nextItem()
			if sep.typ == itemDelimiter {
				continue
			}
			if sep.typ == itemDescendantsEnd {
				break
			}
			if sep.typ == itemEOF || sep.typ == itemTerminal {
				return s, syntaxErr(next.line, next.col, "unbalanced brackets: '(' is never closed")
			}
			return s, unexpected(sep, "',' or ')'")
		}
		next = r.lx.nextItem()
	}

	switch next.typ {
	case itemError:
		return s, syntaxErr(next.line, next.col, "%s", next.val)
	case itemLabel:
		s.Label = next.val
		next = r.lx.nextItem()
	case itemDescendantsStart:
		return s, unexpected(next, "',' or ')'")
	}

	if next.typ != itemLengthStart {
		r.lx.backup(next)
		return s, nil
	}

	num := r.lx.nextItem()
	if num.typ == itemError {
		return s, syntaxErr(num.line, num.col, "%s", num.val)
	}
	if num.typ != itemLabel || num.quoted {
		return s, unexpected(num, "a branch length")
	}
	length, err := strconv.ParseFloat(num.val, 64)
	if err != nil || math.IsNaN(length) || math.IsInf(length, 0) {
		return s, syntaxErr(num.line, num.col, "invalid branch length %q", num.val)
	}
	if length < 0 {
		return s, syntaxErr(num.line, num.col, "negative branch length %q", num.val)
	}
	s.Length, s.HasLength = length, true
	return s, nil
}

func unexpected(it item, expected string) error {
	if it.typ == itemError {
		return syntaxErr(it.line, it.col, "%s", it.val)
	}
	if it.typ == itemLabel {
		return syntaxErr(it.line, it.col, "unexpected label %q, expected %s", it.val, expected)
	}
	return syntaxErr(it.line, it.col, "unexpected %s, expected %s", it.typ, expected)
}

func syntaxErr(line, col int, format string, v ...any) error {
	se := &errs.SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf(format, v...)}
	return errs.Wrap(errs.ErrCodeSyntax, se, "invalid newick")
}
