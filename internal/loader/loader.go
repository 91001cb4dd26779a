// Package loader compiles a parsed GEDCOM tree into the genealogy model.
//
// Load makes three passes over the top-level records: HEAD for the file
// description, INDI for people, then FAM to link partnerships, parents and
// children. A final step caches key dates and sorts events, partnerships
// and children. Anomalies in the data (bad dates, malformed or duplicate
// UUIDs, dangling pointers) are logged and skipped; they never fail a load.
package loader

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cmosher01/Gedcom-Web-View/internal/date"
	"github.com/cmosher01/Gedcom-Web-View/internal/domain"
	"github.com/cmosher01/Gedcom-Web-View/internal/gedcom"
	"github.com/google/uuid"
)

// DefaultPrivacyYears is how recent a birth must be for a person to be
// private.
const DefaultPrivacyYears = 90

// DateParser turns a DATE value into a period.
type DateParser func(string) (date.DatePeriod, error)

// Loader is the compiled model of one GEDCOM file. It is read-only once
// Load returns and does not retain the tree it was compiled from.
type Loader struct {
	tree        *gedcom.Tree
	name        string
	description string

	lineage *domain.Lineage
	first   *domain.Person
	people  map[uuid.UUID]*domain.Person
	sources map[uuid.UUID]*domain.Source

	log          *slog.Logger
	now          func() time.Time
	privacyYears int
	parseDate    DateParser
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for data anomalies.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithClock sets the clock used for privacy decisions.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// WithPrivacyYears sets how many years back a birth makes a person private.
func WithPrivacyYears(n int) Option {
	return func(l *Loader) { l.privacyYears = n }
}

// WithDateParser replaces the DATE value grammar.
func WithDateParser(p DateParser) Option {
	return func(l *Loader) { l.parseDate = p }
}

// Load compiles tree, which came from the file called name.
func Load(tree *gedcom.Tree, name string, opts ...Option) *Loader {
	l := &Loader{
		tree:         tree,
		name:         name,
		lineage:      domain.NewLineage(),
		people:       make(map[uuid.UUID]*domain.Person),
		sources:      make(map[uuid.UUID]*domain.Source),
		log:          slog.Default(),
		now:          time.Now,
		privacyYears: DefaultPrivacyYears,
		parseDate:    date.ParsePeriod,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With("file", name)
	l.load()
	return l
}

func (l *Loader) load() {
	top := l.tree.Children(l.tree.Root())

	for _, n := range top {
		if l.tree.Line(n).Tag() == gedcom.TagHEAD {
			l.description = l.parseHead(n)
			break
		}
	}

	for _, n := range top {
		if l.tree.Line(n).Tag() != gedcom.TagINDI {
			continue
		}
		p := l.parseIndividual(n)
		if !l.lineage.Add(p) {
			l.log.Warn("duplicate INDI id", "id", p.ID)
			continue
		}
		l.storePerson(p)
		if l.first == nil {
			l.first = p
		}
	}

	for _, n := range top {
		if l.tree.Line(n).Tag() == gedcom.TagFAM {
			l.parseFamily(n)
		}
	}

	l.lineage.Finalize()
	// the model holds everything needed; lines are not kept past Load
	l.tree = nil
}

func (l *Loader) storePerson(p *domain.Person) {
	if !p.HasUUID() {
		return
	}
	if _, ok := l.people[p.UUID]; ok {
		l.log.Warn("duplicate INDI _UID", "uuid", p.UUID, "id", p.ID)
		return
	}
	l.people[p.UUID] = p
}

func (l *Loader) storeSource(s *domain.Source) {
	if _, ok := l.sources[s.UUID]; !ok {
		l.sources[s.UUID] = s
	}
}

func (l *Loader) parseHead(head gedcom.NodeID) string {
	for _, n := range l.tree.Children(head) {
		if line := l.tree.Line(n); line.Tag() == gedcom.TagNOTE {
			return line.Value()
		}
	}
	return ""
}

func (l *Loader) parseIndividual(indi gedcom.NodeID) *domain.Person {
	p := &domain.Person{
		ID:   l.tree.Line(indi).ID(),
		Name: domain.UnknownName,
	}
	named := false
	for _, n := range l.tree.Children(indi) {
		line := l.tree.Line(n)
		tag := line.Tag()
		switch {
		case tag == gedcom.TagNAME:
			if !named {
				p.Name = line.Value()
				named = true
			}
		case tag == gedcom.TagUID:
			id, err := uuid.Parse(strings.TrimSpace(line.Value()))
			if err != nil {
				l.log.Warn("malformed INDI _UID", "id", p.ID, "name", p.Name, "value", line.Value(), "error", err)
				continue
			}
			p.UUID = id
		case gedcom.IsIndividualEvent(tag) || gedcom.IsIndividualAttribute(tag):
			e := l.parseEvent(n)
			p.Events = append(p.Events, e)
			if tag == gedcom.TagBIRT && l.isRecent(e.Date) {
				p.Private = true
			}
		}
	}
	return p
}

// isRecent reports whether the end of d falls within the privacy window.
func (l *Loader) isRecent(d *date.DatePeriod) bool {
	if d == nil {
		return false
	}
	cutoff := l.now().AddDate(-l.privacyYears, 0, 0)
	return d.End().Approx().After(cutoff)
}

func (l *Loader) parseFamily(fam gedcom.NodeID) {
	var husband, wife string
	var children []string
	var events []*domain.Event

	famID := l.tree.Line(fam).ID()
	for _, n := range l.tree.Children(fam) {
		line := l.tree.Line(n)
		tag := line.Tag()
		switch {
		case tag == gedcom.TagHUSB:
			husband = l.resolvePerson(famID, line)
		case tag == gedcom.TagWIFE:
			wife = l.resolvePerson(famID, line)
		case tag == gedcom.TagCHIL:
			if id := l.resolvePerson(famID, line); id != "" {
				children = append(children, id)
			}
		case gedcom.IsFamilyEvent(tag):
			events = append(events, l.parseEvent(n))
		}
	}
	l.lineage.Link(husband, wife, children, events)
}

// resolvePerson returns the pointer of a HUSB, WIFE or CHIL line if it
// names a loaded person, or "".
func (l *Loader) resolvePerson(famID string, line gedcom.Line) string {
	if l.lineage.Person(line.Pointer()) == nil {
		l.log.Warn("unresolved family member", "fam", famID, "tag", line.TagString(), "pointer", line.Pointer())
		return ""
	}
	return line.Pointer()
}

func (l *Loader) parseEvent(ev gedcom.NodeID) *domain.Event {
	line := l.tree.Line(ev)
	e := &domain.Event{
		Tag:  line.TagString(),
		Type: l.eventType(ev),
	}
	for _, n := range l.tree.Children(ev) {
		child := l.tree.Line(n)
		switch child.Tag() {
		case gedcom.TagDATE:
			d, err := l.parseDate(child.Value())
			if err != nil {
				l.log.Warn("unparseable DATE", "value", child.Value(), "error", err)
				continue
			}
			e.Date = &d
		case gedcom.TagPLAC:
			e.Place = child.Value()
		case gedcom.TagNOTE:
			e.Note = l.parseNote(child)
		case gedcom.TagSOUR:
			if s := l.parseSource(n); s != nil {
				e.Source = s
				l.storeSource(s)
			}
		}
	}
	return e
}

// eventType labels an event: the TYPE of a generic EVEN, otherwise the
// tag's name followed by the event line's value, if any.
func (l *Loader) eventType(ev gedcom.NodeID) string {
	line := l.tree.Line(ev)
	if line.Tag() == gedcom.TagEVEN {
		for _, n := range l.tree.Children(ev) {
			if t := l.tree.Line(n); t.Tag() == gedcom.TagTYPE {
				return t.Value()
			}
		}
	}
	name := gedcom.EventName(line.Tag())
	if line.Value() == "" {
		return name
	}
	return name + ": " + line.Value()
}

// parseNote dereferences a NOTE pointer, or returns the inline note text.
func (l *Loader) parseNote(line gedcom.Line) string {
	if !line.IsPointer() {
		return line.Value()
	}
	n, ok := l.tree.Lookup(line.Pointer())
	if !ok {
		l.log.Warn("unresolved NOTE", "pointer", line.Pointer())
		return ""
	}
	return l.tree.Line(n).Value()
}

// parseSource builds the Source cited by a SOUR pointer line. The text of
// the citation's DATA/TEXT lines precedes the source's own TEXT.
func (l *Loader) parseSource(cite gedcom.NodeID) *domain.Source {
	ptr := l.tree.Line(cite).Pointer()
	if ptr == "" {
		return nil
	}
	rec, ok := l.tree.Lookup(ptr)
	if !ok {
		l.log.Warn("unresolved SOUR", "pointer", ptr)
		return nil
	}

	texts := l.citationText(cite)
	var author, title, publication, text string
	var id uuid.UUID
	for _, n := range l.tree.Children(rec) {
		line := l.tree.Line(n)
		switch line.Tag() {
		case gedcom.TagAUTH:
			author = line.Value()
		case gedcom.TagTITL:
			title = line.Value()
		case gedcom.TagPUBL:
			publication = line.Value()
		case gedcom.TagTEXT:
			text = line.Value()
		case gedcom.TagUID:
			u, err := uuid.Parse(strings.TrimSpace(line.Value()))
			if err != nil {
				l.log.Warn("malformed SOUR _UID", "source", ptr, "title", title, "value", line.Value(), "error", err)
				continue
			}
			id = u
		}
	}
	if text != "" {
		texts = append(texts, text)
	}
	return domain.NewSource(id, author, title, publication, strings.Join(texts, " "))
}

func (l *Loader) citationText(cite gedcom.NodeID) []string {
	var texts []string
	for _, n := range l.tree.Children(cite) {
		if l.tree.Line(n).Tag() != gedcom.TagDATA {
			continue
		}
		for _, t := range l.tree.Children(n) {
			if line := l.tree.Line(t); line.Tag() == gedcom.TagTEXT && line.Value() != "" {
				texts = append(texts, line.Value())
			}
		}
	}
	return texts
}

// Name returns the file name the tree was loaded from.
func (l *Loader) Name() string { return l.name }

// Description returns the first NOTE of the HEAD record, or "".
func (l *Loader) Description() string { return l.description }

// FirstPerson returns the first INDI of the file, or nil.
func (l *Loader) FirstPerson() *domain.Person { return l.first }

// AllPeople returns every person in file order.
func (l *Loader) AllPeople() []*domain.Person { return l.lineage.People() }

// Person returns a person by file-local id, or nil.
func (l *Loader) Person(id string) *domain.Person { return l.lineage.Person(id) }

// LookUpPerson returns the person holding the given _UID, or nil.
func (l *Loader) LookUpPerson(id uuid.UUID) *domain.Person { return l.people[id] }

// LookUpSource returns the source with the given UUID, or nil.
func (l *Loader) LookUpSource(id uuid.UUID) *domain.Source { return l.sources[id] }

// AppendAllUUIDs adds the UUID of every registered person to set.
func (l *Loader) AppendAllUUIDs(set map[uuid.UUID]struct{}) {
	for id := range l.people {
		set[id] = struct{}{}
	}
}

// FootnotesFor numbers the notes and citations of a person's events.
func (l *Loader) FootnotesFor(p *domain.Person) *domain.Footnotes {
	return domain.CollectFootnotes(p)
}

// Timeline returns the person's events merged with those of close
// relatives.
func (l *Loader) Timeline(p *domain.Person) []domain.FamilyEvent {
	return l.lineage.Timeline(p)
}

// Lineage exposes the person graph for relationship lookups.
func (l *Loader) Lineage() *domain.Lineage { return l.lineage }
