package domain

import "slices"

// Lineage holds the people of one file, addressed by file-local id.
// Relationships between people are stored as ids and resolved here, so the
// graph may contain cycles without any person owning another.
type Lineage struct {
	people map[string]*Person
	order  []*Person
}

// NewLineage creates an empty lineage
func NewLineage() *Lineage {
	return &Lineage{people: make(map[string]*Person)}
}

// Add registers p under its id. The first person registered for an id
// wins; Add reports false for a later duplicate, which is not stored.
func (l *Lineage) Add(p *Person) bool {
	if _, ok := l.people[p.ID]; ok {
		return false
	}
	l.people[p.ID] = p
	l.order = append(l.order, p)
	return true
}

// Person returns the person with the given file-local id, or nil.
func (l *Lineage) Person(id string) *Person {
	if id == "" {
		return nil
	}
	return l.people[id]
}

// People returns everyone in file order.
func (l *Lineage) People() []*Person { return l.order }

func (l *Lineage) Len() int { return len(l.order) }

func (l *Lineage) Father(p *Person) *Person { return l.Person(p.FatherID) }
func (l *Lineage) Mother(p *Person) *Person { return l.Person(p.MotherID) }

// Partner returns the other person of a partnership, or nil.
func (l *Lineage) Partner(pa *Partnership) *Person { return l.Person(pa.PartnerID) }

// Children resolves the children of a partnership, in partnership order.
func (l *Lineage) Children(pa *Partnership) []*Person {
	children := make([]*Person, 0, len(pa.ChildIDs))
	for _, id := range pa.ChildIDs {
		if c := l.Person(id); c != nil {
			children = append(children, c)
		}
	}
	return children
}

// IsPrivate reports whether the partnership's partner is private.
func (l *Lineage) IsPrivate(pa *Partnership) bool {
	partner := l.Partner(pa)
	return partner != nil && partner.Private
}

// Link builds a family from parent ids (either may be "") and child ids.
// Ids not in the lineage are ignored. Each parent receives its own
// Partnership sharing the events slice; each child gets its father and
// mother set.
func (l *Lineage) Link(husbandID, wifeID string, childIDs []string, events []*Event) {
	husband, wife := l.Person(husbandID), l.Person(wifeID)
	childIDs = slices.DeleteFunc(slices.Clone(childIDs), func(id string) bool {
		return l.Person(id) == nil
	})
	if husband != nil {
		husband.Partnerships = append(husband.Partnerships, &Partnership{
			PartnerID: idOf(wife),
			ChildIDs:  slices.Clone(childIDs),
			Events:    events,
		})
	}
	if wife != nil {
		wife.Partnerships = append(wife.Partnerships, &Partnership{
			PartnerID: idOf(husband),
			ChildIDs:  slices.Clone(childIDs),
			Events:    events,
		})
	}
	for _, id := range childIDs {
		child := l.Person(id)
		if husband != nil {
			child.FatherID = husband.ID
		}
		if wife != nil {
			child.MotherID = wife.ID
		}
	}
}

func idOf(p *Person) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// Finalize caches key dates and sorts every event list, partnership list
// and child list. Sorts are stable, so ties keep file order.
func (l *Lineage) Finalize() {
	for _, p := range l.order {
		slices.SortStableFunc(p.Events, (*Event).Compare)
		p.InitKeyDates()
	}
	for _, p := range l.order {
		for _, pa := range p.Partnerships {
			slices.SortStableFunc(pa.Events, (*Event).Compare)
			slices.SortStableFunc(pa.ChildIDs, func(a, b string) int {
				ca, cb := l.Person(a), l.Person(b)
				if ca == nil || cb == nil {
					return 0
				}
				return ca.Compare(cb)
			})
		}
		slices.SortStableFunc(p.Partnerships, (*Partnership).Compare)
	}
}

// FamilyEvent is an event shown on a person's timeline, together with the
// relative it happened to.
type FamilyEvent struct {
	Person   *Person `json:"-"`
	PersonID string  `json:"person_id"`
	Relation string  `json:"relation"`
	Event    *Event  `json:"event"`
}

// Relations used on a timeline.
const (
	RelationSelf        = "self"
	RelationPartnership = "partnership"
	RelationFather      = "father"
	RelationMother      = "mother"
	RelationPartner     = "partner"
	RelationChild       = "child"
)

// IsPrivate reports whether the relative is private.
func (fe FamilyEvent) IsPrivate() bool {
	return fe.Person != nil && fe.Person.Private
}

// Timeline merges the person's own and family events with the births and
// deaths of close relatives, ordered by date. Relatives' events are only
// included when dated.
func (l *Lineage) Timeline(p *Person) []FamilyEvent {
	var out []FamilyEvent
	add := func(who *Person, rel string, e *Event) {
		out = append(out, FamilyEvent{Person: who, PersonID: who.ID, Relation: rel, Event: e})
	}
	addVital := func(who *Person, rel string) {
		if who == nil {
			return
		}
		for _, e := range who.Events {
			if e.Date != nil && (e.Tag == "BIRT" || e.Tag == "DEAT") {
				add(who, rel, e)
			}
		}
	}

	for _, e := range p.Events {
		add(p, RelationSelf, e)
	}
	addVital(l.Father(p), RelationFather)
	addVital(l.Mother(p), RelationMother)
	for _, pa := range p.Partnerships {
		for _, e := range pa.Events {
			add(p, RelationPartnership, e)
		}
		addVital(l.Partner(pa), RelationPartner)
		for _, c := range l.Children(pa) {
			addVital(c, RelationChild)
		}
	}

	slices.SortStableFunc(out, func(a, b FamilyEvent) int {
		return a.Event.Compare(b.Event)
	})
	return out
}
