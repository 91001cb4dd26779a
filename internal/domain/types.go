package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/cmosher01/Gedcom-Web-View/internal/date"
	"github.com/google/uuid"
)

// Event represents something that happened to a person or a couple
type Event struct {
	Tag    string           `json:"tag"`
	Type   string           `json:"type"`
	Date   *date.DatePeriod `json:"date,omitempty"`
	Place  string           `json:"place,omitempty"`
	Note   string           `json:"note,omitempty"`
	Source *Source          `json:"source,omitempty"`
}

// Compare orders events by date. Events without a date sort last.
func (e *Event) Compare(o *Event) int {
	switch {
	case e.Date == nil && o.Date == nil:
		return 0
	case e.Date == nil:
		return 1
	case o.Date == nil:
		return -1
	}
	return e.Date.Compare(*o.Date)
}

// Citation returns the footnote text for the event's source, or "" when
// the event cites none.
func (e *Event) Citation() string {
	if e.Source == nil {
		return ""
	}
	return e.Source.Citation()
}

// Source represents a cited source as seen from one citation
type Source struct {
	UUID        uuid.UUID `json:"uuid"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title,omitempty"`
	Publication string    `json:"publication,omitempty"`
	Text        string    `json:"text,omitempty"`
}

// NewSource creates a source. A nil id is replaced by a random UUID.
func NewSource(id uuid.UUID, author, title, publication, text string) *Source {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Source{
		UUID:        id,
		Author:      author,
		Title:       title,
		Publication: publication,
		Text:        text,
	}
}

const shortNameWords = 14

// ShortName returns the title cut down to its first few words.
func (s *Source) ShortName() string {
	words := 0
	inWord := false
	for i, r := range s.Title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord {
				if words == shortNameWords {
					return strings.TrimRightFunc(s.Title[:i], unicode.IsSpace)
				}
				words++
			}
			inWord = true
		} else {
			inWord = false
		}
	}
	return s.Title
}

// Citation formats the source as "author, title, publication. text",
// leaving out empty parts.
func (s *Source) Citation() string {
	var parts []string
	for _, p := range []string{s.Author, s.Title, s.Publication} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	c := strings.Join(parts, ", ")
	if t := strings.TrimSpace(s.Text); t != "" {
		if c == "" {
			return t
		}
		c += ". " + t
	}
	return c
}

// Person represents one individual of a file
type Person struct {
	ID           string         `json:"id"`
	UUID         uuid.UUID      `json:"uuid"`
	Name         string         `json:"name"`
	Events       []*Event       `json:"events"`
	Partnerships []*Partnership `json:"partnerships"`
	Private      bool           `json:"private"`
	FatherID     string         `json:"father_id,omitempty"`
	MotherID     string         `json:"mother_id,omitempty"`

	birth *date.DatePeriod
	death *date.DatePeriod
}

// UnknownName is the display name of a person without a NAME line.
const UnknownName = "[unknown]"

// PlainName returns a GEDCOM name without the slashes around the surname
// and with runs of spaces collapsed: "John /Doe/" becomes "John Doe".
func PlainName(name string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(name, "/", " ")), " ")
}

// HasUUID reports whether the person carries a global identifier.
func (p *Person) HasUUID() bool { return p.UUID != uuid.Nil }

// InitKeyDates caches the dates of the first birth and death events.
func (p *Person) InitKeyDates() {
	p.birth, p.death = nil, nil
	for _, e := range p.Events {
		switch e.Tag {
		case "BIRT":
			if p.birth == nil {
				p.birth = e.Date
			}
		case "DEAT":
			if p.death == nil {
				p.death = e.Date
			}
		}
	}
}

// Birth returns the cached birth date, or nil.
func (p *Person) Birth() *date.DatePeriod { return p.birth }

// Death returns the cached death date, or nil.
func (p *Person) Death() *date.DatePeriod { return p.death }

// Compare orders people by birth date. People with no known birth sort last.
func (p *Person) Compare(o *Person) int {
	switch {
	case p.birth == nil && o.birth == nil:
		return 0
	case p.birth == nil:
		return 1
	case o.birth == nil:
		return -1
	}
	return p.birth.Compare(*o.birth)
}

func (p *Person) String() string {
	if p.birth == nil && p.death == nil {
		return p.Name
	}
	var b, d string
	if p.birth != nil {
		b = p.birth.String()
	}
	if p.death != nil {
		d = p.death.String()
	}
	return p.Name + " (" + b + " - " + d + ")"
}

// Partnership represents one side of a family: the person holding it, the
// optional partner, their children and the family events
type Partnership struct {
	PartnerID string   `json:"partner_id,omitempty"`
	ChildIDs  []string `json:"child_ids"`
	Events    []*Event `json:"events"`
}

// Compare orders partnerships by their earliest event. Partnerships
// without events sort last.
func (pa *Partnership) Compare(o *Partnership) int {
	switch {
	case len(pa.Events) == 0 && len(o.Events) == 0:
		return 0
	case len(pa.Events) == 0:
		return 1
	case len(o.Events) == 0:
		return -1
	}
	return pa.Events[0].Compare(o.Events[0])
}

// GedcomFile describes one loaded file
type GedcomFile struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	People      int       `json:"people"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// PersonRef locates a person within the loaded files
type PersonRef struct {
	UUID     uuid.UUID `json:"uuid"`
	File     string    `json:"file"`
	PersonID string    `json:"person_id"`
	Name     string    `json:"name"`
}
