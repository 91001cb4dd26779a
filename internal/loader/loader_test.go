package loader

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/cmosher01/Gedcom-Web-View/internal/date"
	"github.com/cmosher01/Gedcom-Web-View/internal/gedcom"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const family = `0 HEAD
1 NOTE Test family
0 @I1@ INDI
1 NAME John /Doe/
1 _UID 0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0
1 DEAT
2 DATE 1870
2 NOTE @N1@
1 BIRT
2 DATE 1 JAN 1800
2 PLAC Boston
2 SOUR @S1@
3 DATA
4 TEXT page 4
0 @I2@ INDI
1 NAME Jane /Roe/
1 BIRT
2 DATE ABT 1805
1 OCCU Weaver
1 EVEN
2 TYPE Voyage
2 DATE 1820
0 @I3@ INDI
1 NAME Kid /Doe/
1 BIRT
2 DATE 1830
1 _UID not-a-uuid
0 @I4@ INDI
1 NAME Dup
1 _UID 0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0
1 RESI
2 DATE sometime
2 NOTE lived on the hill
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 CHIL @I99@
1 MARR
2 DATE 1825
2 SOUR @S1@
0 @F2@ FAM
1 HUSB @I404@
1 WIFE @I2@
0 @S1@ SOUR
1 TITL Town records
1 AUTH Smith
1 TEXT Vol. 2
1 _UID 11111111-2222-3333-4444-555555555555
0 @N1@ NOTE Died of fever
0 TRLR
`

var (
	johnUUID   = uuid.MustParse("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")
	sourceUUID = uuid.MustParse("11111111-2222-3333-4444-555555555555")
)

func load(t *testing.T, text string, opts ...Option) (*Loader, *bytes.Buffer) {
	t.Helper()
	tree, err := gedcom.ReadTree(strings.NewReader(text))
	require.NoError(t, err)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	opts = append([]Option{WithLogger(log)}, opts...)
	return Load(tree, "family.ged", opts...), &buf
}

func TestLoad_People(t *testing.T) {
	l, logs := load(t, family)

	assert.Equal(t, "family.ged", l.Name())
	assert.Equal(t, "Test family", l.Description())
	require.NotNil(t, l.FirstPerson())
	assert.Equal(t, "I1", l.FirstPerson().ID)
	assert.Len(t, l.AllPeople(), 4)

	john := l.Person("I1")
	require.NotNil(t, john)
	assert.Equal(t, "John /Doe/", john.Name)
	assert.Equal(t, johnUUID, john.UUID)
	assert.Same(t, john, l.LookUpPerson(johnUUID))

	// duplicate _UID stays reachable by id only
	dup := l.Person("I4")
	require.NotNil(t, dup)
	assert.NotSame(t, dup, l.LookUpPerson(johnUUID))
	assert.Contains(t, logs.String(), "duplicate INDI _UID")

	kid := l.Person("I3")
	assert.False(t, kid.HasUUID())
	assert.Contains(t, logs.String(), "malformed INDI _UID")

	set := map[uuid.UUID]struct{}{}
	l.AppendAllUUIDs(set)
	assert.Equal(t, map[uuid.UUID]struct{}{johnUUID: {}}, set)
}

func TestLoad_ReleasesTree(t *testing.T) {
	l, _ := load(t, family)
	assert.Nil(t, l.tree)

	// sources and notes were copied out before the tree was dropped
	john := l.Person("I1")
	require.NotNil(t, john)
	assert.NotNil(t, l.LookUpSource(sourceUUID))
	assert.Equal(t, 3, l.FootnotesFor(john).Len())
}

func TestLoad_Events(t *testing.T) {
	l, logs := load(t, family)

	john := l.Person("I1")
	require.Len(t, john.Events, 2)

	birth := john.Events[0]
	assert.Equal(t, "BIRT", birth.Tag)
	assert.Equal(t, "birth", birth.Type)
	require.NotNil(t, birth.Date)
	assert.Equal(t, "1800-01-01", birth.Date.String())
	assert.Equal(t, "Boston", birth.Place)
	require.NotNil(t, birth.Source)
	assert.Equal(t, sourceUUID, birth.Source.UUID)
	assert.Equal(t, "Town records", birth.Source.Title)
	assert.Equal(t, "Smith", birth.Source.Author)
	assert.Equal(t, "page 4 Vol. 2", birth.Source.Text)

	death := john.Events[1]
	assert.Equal(t, "death", death.Type)
	assert.Equal(t, "Died of fever", death.Note)
	assert.Equal(t, "1800-01-01", john.Birth().String())
	assert.Equal(t, "1870", john.Death().String())

	jane := l.Person("I2")
	require.Len(t, jane.Events, 3)
	assert.Equal(t, "c. 1805", jane.Events[0].Date.String())
	assert.Equal(t, "Voyage", jane.Events[1].Type)
	assert.Equal(t, "occupation: Weaver", jane.Events[2].Type)
	assert.Nil(t, jane.Events[2].Date)

	resi := l.Person("I4").Events[0]
	assert.Nil(t, resi.Date)
	assert.Equal(t, "lived on the hill", resi.Note)
	assert.Contains(t, logs.String(), "unparseable DATE")
}

func TestLoad_Sources(t *testing.T) {
	l, _ := load(t, family)

	src := l.LookUpSource(sourceUUID)
	require.NotNil(t, src)
	// the first citation registers the source
	assert.Equal(t, "page 4 Vol. 2", src.Text)

	marr := l.Person("I1").Partnerships[0].Events[0]
	require.NotNil(t, marr.Source)
	assert.Equal(t, "Vol. 2", marr.Source.Text)

	assert.Nil(t, l.LookUpSource(uuid.New()))
}

func TestLoad_Families(t *testing.T) {
	l, logs := load(t, family)
	lin := l.Lineage()

	john, jane, kid := l.Person("I1"), l.Person("I2"), l.Person("I3")

	require.Len(t, john.Partnerships, 1)
	pa := john.Partnerships[0]
	assert.Same(t, jane, lin.Partner(pa))
	assert.Equal(t, []string{"I3"}, pa.ChildIDs)
	require.Len(t, pa.Events, 1)
	assert.Equal(t, "marriage", pa.Events[0].Type)

	assert.Same(t, john, lin.Father(kid))
	assert.Same(t, jane, lin.Mother(kid))
	assert.Contains(t, logs.String(), "pointer=I99")

	// F2 has an unresolved HUSB: Jane gets a partnership without partner
	require.Len(t, jane.Partnerships, 2)
	assert.Same(t, john, lin.Partner(jane.Partnerships[0]))
	assert.Nil(t, lin.Partner(jane.Partnerships[1]))
	assert.Empty(t, jane.Partnerships[1].Events)
	assert.Contains(t, logs.String(), "pointer=I404")
}

func TestLoad_Footnotes(t *testing.T) {
	l, _ := load(t, family)

	f := l.FootnotesFor(l.Person("I1"))
	assert.Equal(t, []string{
		"Smith, Town records. page 4 Vol. 2",
		"Died of fever",
		"Smith, Town records. Vol. 2",
	}, f.Notes())
}

func TestLoad_Timeline(t *testing.T) {
	l, _ := load(t, family)

	var got []string
	for _, fe := range l.Timeline(l.Person("I3")) {
		got = append(got, fe.Relation+":"+fe.Event.Type)
	}
	assert.Equal(t, []string{"father:birth", "mother:birth", "self:birth", "father:death"}, got)
}

func TestLoad_Privacy(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		body    string
		private bool
	}{
		{"recent birth", "1 BIRT\n2 DATE 1950\n", true},
		{"birth just inside window", "1 BIRT\n2 DATE 1 APR 1936\n", true},
		{"old birth", "1 BIRT\n2 DATE 1900\n", false},
		{"period ending recently", "1 BIRT\n2 DATE FROM 1900 TO 1950\n", true},
		{"range centred long ago", "1 BIRT\n2 DATE BET 1900 AND 1960\n", false},
		{"before an old date", "1 BIRT\n2 DATE BEF 1920\n", false},
		{"birth without date", "1 BIRT\n2 PLAC Boston\n", false},
		{"bad date", "1 BIRT\n2 DATE someday\n", false},
		{"no birth", "1 DEAT\n2 DATE 2020\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "0 @I1@ INDI\n1 NAME Test\n" + tt.body + "0 TRLR\n"
			l, _ := load(t, text, WithClock(func() time.Time { return now }))
			assert.Equal(t, tt.private, l.Person("I1").Private)
		})
	}
}

func TestLoad_PrivacyYears(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	text := "0 @I1@ INDI\n1 BIRT\n2 DATE 1950\n0 TRLR\n"

	l, _ := load(t, text, WithClock(func() time.Time { return now }), WithPrivacyYears(50))
	assert.False(t, l.Person("I1").Private)
	assert.Equal(t, "[unknown]", l.Person("I1").Name)
}

func TestLoad_DateParser(t *testing.T) {
	calls := 0
	parse := func(s string) (date.DatePeriod, error) {
		calls++
		return date.DatePeriod{}, errors.New("no dates today")
	}
	l, logs := load(t, family, WithDateParser(parse))

	assert.Equal(t, 7, calls)
	assert.Nil(t, l.Person("I1").Events[0].Date)
	assert.Contains(t, logs.String(), "no dates today")
}

func TestLoad_Empty(t *testing.T) {
	l := Load(gedcom.NewTree(), "empty.ged")
	assert.Nil(t, l.FirstPerson())
	assert.Empty(t, l.AllPeople())
	assert.Equal(t, "", l.Description())
}
