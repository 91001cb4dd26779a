package gedcom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, text string) ([]Line, error) {
	t.Helper()
	p := NewParser(strings.NewReader(text))
	var lines []Line
	for p.Next() {
		lines = append(lines, p.Line())
	}
	return lines, p.Err()
}

func TestParser_Nominal(t *testing.T) {
	lines, err := parseAll(t, "0 HEAD\n\n   \n1 NOTE hello world\n0 @I1@ INDI\n1 FAMS @F1@\n0 TRLR\n")
	require.NoError(t, err)
	require.Len(t, lines, 5)

	assert.Equal(t, 0, lines[0].Level())
	assert.Equal(t, TagHEAD, lines[0].Tag())

	assert.Equal(t, "hello world", lines[1].Value())
	assert.False(t, lines[1].IsPointer())

	assert.Equal(t, "I1", lines[2].ID())
	assert.Equal(t, TagINDI, lines[2].Tag())

	assert.Equal(t, "F1", lines[3].Pointer())
	assert.Empty(t, lines[3].Value())
}

func TestParser_ValueKeepsInnerSpacing(t *testing.T) {
	lines, err := parseAll(t, "1 NOTE  two  spaces\n1 NOTE   \n")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, " two  spaces", lines[0].Value())
	assert.Equal(t, "", lines[1].Value())
}

func TestParser_UnknownTagKeepsRawString(t *testing.T) {
	lines, err := parseAll(t, "0 _CUSTOM data\n")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, TagUnknown, lines[0].Tag())
	assert.Equal(t, "_CUSTOM", lines[0].TagString())
}

func TestParser_ValueUnescapesDoubleAt(t *testing.T) {
	lines, err := parseAll(t, "1 EMAIL me@@example.com\n")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", lines[0].Value())
}

func TestParser_MalformedIDIsNotAnID(t *testing.T) {
	lines, err := parseAll(t, "0 @I@1@ INDI\n2 @bad DATE 1900\n")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.False(t, lines[0].HasID())
	assert.Equal(t, TagINDI, lines[0].Tag())
	assert.False(t, lines[1].HasID())
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind error
	}{
		{"non-numeric level", "X HEAD\n", ErrIllegalLevel},
		{"negative level", "-1 HEAD\n", ErrIllegalLevel},
		{"level above 99", "100 HEAD\n", ErrIllegalLevel},
		{"missing tag", "0\n", ErrMissingTag},
		{"id without tag", "0 @I1@\n", ErrMissingTag},
		{"id above level zero", "1 @I1@ INDI\n", ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAll(t, tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 1, pe.LineNumber)
		})
	}
}

func TestParser_StopsAtFirstError(t *testing.T) {
	p := NewParser(strings.NewReader("0 HEAD\nbogus\n0 TRLR\n"))

	require.True(t, p.Next())
	assert.Equal(t, TagHEAD, p.Line().Tag())

	assert.False(t, p.Next())
	assert.ErrorIs(t, p.Err(), ErrIllegalLevel)

	// never restarts
	assert.False(t, p.Next())
	assert.ErrorIs(t, p.Err(), ErrIllegalLevel)
}

func TestParser_LevelBoundaries(t *testing.T) {
	lines, err := parseAll(t, "0 HEAD\n99 NOTE deep\n")
	require.NoError(t, err)
	assert.Equal(t, 99, lines[1].Level())
}

func TestTag_RoundTrip(t *testing.T) {
	for tag := TagUnknown + 1; tag <= TagUID; tag++ {
		assert.Equal(t, tag, ParseTag(tag.String()), "tag %d", tag)
	}
	assert.Equal(t, len(tagNames), int(TagUID)+1)
	assert.Equal(t, TagUnknown, ParseTag("birt"))
}

func TestTaxonomy(t *testing.T) {
	assert.True(t, IsIndividualEvent(TagBIRT))
	assert.True(t, IsIndividualEvent(TagEVEN))
	assert.False(t, IsIndividualEvent(TagMARR))

	assert.True(t, IsIndividualAttribute(TagOCCU))
	assert.False(t, IsIndividualAttribute(TagBIRT))

	assert.True(t, IsFamilyEvent(TagMARR))
	assert.True(t, IsFamilyEvent(TagCENS))
	assert.False(t, IsFamilyEvent(TagBIRT))

	assert.Equal(t, "birth", EventName(TagBIRT))
	assert.Equal(t, "marriage", EventName(TagMARR))
	assert.Equal(t, "head", EventName(TagHEAD))
}
