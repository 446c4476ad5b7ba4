package extractor

import (
	"sort"
	"strings"
)

// edit replaces src[start:end] with text. Zero-width edits are inserts.
type edit struct {
	start, end int
	text       string
	seq        int
}

// Document is the mutable text of one source file. Rewrites are recorded as
// non-overlapping edits against the original bytes; a rewrite covering
// earlier edits absorbs them, so rewrites of outer nodes compose with the
// rewrites of their children through Slice.
type Document struct {
	src   []byte
	edits []edit
	seq   int
}

// NewDocument wraps src.
func NewDocument(src []byte) *Document {
	return &Document{src: src}
}

// Source returns the original bytes.
func (d *Document) Source() []byte { return d.src }

// Replace records a replacement of src[start:end]. Edits inside the range
// are dropped; read them first with Slice when they must be kept.
func (d *Document) Replace(start, end int, text string) {
	if start < end {
		kept := d.edits[:0]
		for _, e := range d.edits {
			if e.start >= start && e.end <= end && !e.boundaryInsert(start, end) {
				continue
			}
			kept = append(kept, e)
		}
		d.edits = kept
	}
	d.seq++
	d.edits = append(d.edits, edit{start: start, end: end, text: text, seq: d.seq})
	sort.SliceStable(d.edits, func(i, j int) bool {
		a, b := d.edits[i], d.edits[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if (a.start == a.end) != (b.start == b.end) {
			return a.start == a.end
		}
		return a.seq < b.seq
	})
}

// boundaryInsert reports an insert sitting on either end of start..end.
func (e edit) boundaryInsert(start, end int) bool {
	return e.start == e.end && (e.start == start || e.start == end)
}

// Insert records text inserted at pos.
func (d *Document) Insert(pos int, text string) {
	d.Replace(pos, pos, text)
}

// Remove deletes src[start:end].
func (d *Document) Remove(start, end int) {
	d.Replace(start, end, "")
}

// Replacement returns the text of an edit covering exactly start..end.
func (d *Document) Replacement(start, end int) (string, bool) {
	for i := len(d.edits) - 1; i >= 0; i-- {
		e := d.edits[i]
		if e.start == start && e.end == end && start != end {
			return e.text, true
		}
	}
	return "", false
}

// Slice returns src[start:end] with the edits inside it applied.
func (d *Document) Slice(start, end int) string {
	var b strings.Builder
	pos := start
	for _, e := range d.edits {
		if e.start < start || e.end > end {
			continue
		}
		if start < end && e.boundaryInsert(start, end) {
			// inserts on the boundary belong to the enclosing text
			continue
		}
		if e.start < pos {
			continue
		}
		b.Write(d.src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	if pos < end {
		b.Write(d.src[pos:end])
	}
	return b.String()
}

// String renders the whole document.
func (d *Document) String() string {
	var b strings.Builder
	pos := 0
	for _, e := range d.edits {
		if e.start < pos {
			continue
		}
		b.Write(d.src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.Write(d.src[pos:])
	return b.String()
}

// Changed reports whether any edit was recorded.
func (d *Document) Changed() bool { return len(d.edits) > 0 }
