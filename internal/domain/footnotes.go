package domain

// Footnotes is an ordered list of distinct notes, each numbered from 1 in
// the order first seen.
type Footnotes struct {
	notes []string
	index map[string]int
}

// NewFootnotes creates an empty list
func NewFootnotes() *Footnotes {
	return &Footnotes{index: make(map[string]int)}
}

// Note adds s if it is new and returns its footnote number. Repeated text
// gets the number it was first given.
func (f *Footnotes) Note(s string) int {
	if n, ok := f.index[s]; ok {
		return n
	}
	f.notes = append(f.notes, s)
	n := len(f.notes)
	f.index[s] = n
	return n
}

// Number returns the footnote number of s, if s was noted.
func (f *Footnotes) Number(s string) (int, bool) {
	n, ok := f.index[s]
	return n, ok
}

// Get returns the text of footnote n (1-based).
func (f *Footnotes) Get(n int) string {
	if n < 1 || n > len(f.notes) {
		return ""
	}
	return f.notes[n-1]
}

func (f *Footnotes) Len() int { return len(f.notes) }

// Notes returns the footnote texts; footnote n is at index n-1.
func (f *Footnotes) Notes() []string { return f.notes }

// CollectFootnotes gathers the notes and source citations of a person's
// events, then of the events of each of the person's partnerships.
func CollectFootnotes(p *Person) *Footnotes {
	f := NewFootnotes()
	noteEvent := func(e *Event) {
		if e.Note != "" {
			f.Note(e.Note)
		}
		if c := e.Citation(); c != "" {
			f.Note(c)
		}
	}
	for _, e := range p.Events {
		noteEvent(e)
	}
	for _, pa := range p.Partnerships {
		for _, e := range pa.Events {
			noteEvent(e)
		}
	}
	return f
}
