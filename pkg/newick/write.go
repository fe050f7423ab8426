package newick

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/phylo/pkg/tree"
)

// Format serializes t as a single ';'-terminated Newick string.
func Format(t *tree.Tree) string {
	var b strings.Builder
	writeTree(&b, t)
	return b.String()
}

// Write serializes t to w followed by a newline.
func Write(w io.Writer, t *tree.Tree) error {
	bw := bufio.NewWriter(w)
	writeTree(bw, t)
	bw.WriteByte('\n')
	return bw.Flush()
}

// WriteAll serializes trees to w, one per line.
func WriteAll(w io.Writer, trees []*tree.Tree) error {
	for _, t := range trees {
		if err := Write(w, t); err != nil {
			return err
		}
	}
	return nil
}

type stringWriter interface {
	WriteString(string) (int, error)
	WriteByte(byte) error
}

func writeTree(w stringWriter, t *tree.Tree) {
	var node func(id tree.NodeID)
	node = func(id tree.NodeID) {
		if kids := t.Children(id); len(kids) > 0 {
			w.WriteByte(descStart)
			for i, c := range kids {
				if i > 0 {
					w.WriteByte(descDelimiter)
				}
				node(c)
			}
			w.WriteByte(descEnd)
		}
		w.WriteString(quoteLabel(t.Label(id)))
		if e, ok := t.EdgeTo(id); ok && e.HasLength {
			writeLength(w, e.Length)
		}
	}
	node(t.Root())
	if l, ok := t.RootLength(); ok {
		writeLength(w, l)
	}
	w.WriteByte(terminal)
}

func writeLength(w stringWriter, v float64) {
	w.WriteByte(lengthStart)
	w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}

// quoteLabel quotes labels that would not survive as unquoted tokens.
func quoteLabel(l string) string {
	if l == "" {
		return ""
	}
	if strings.IndexFunc(l, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(unquotedBanned, r)
	}) < 0 {
		return l
	}
	return string(quote) + strings.ReplaceAll(l, string(quote), "''") + string(quote)
}
