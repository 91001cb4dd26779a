package gedcom

import "strings"

// tagSet is a read-only membership table. The sets below are built once at
// package init and never written afterwards.
type tagSet map[Tag]struct{}

func newTagSet(tags ...Tag) tagSet {
	s := make(tagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s tagSet) has(t Tag) bool {
	_, ok := s[t]
	return ok
}

var (
	individualEvents = newTagSet(
		TagBIRT, TagCHR, TagDEAT, TagBURI, TagCREM, TagADOP, TagBAPM, TagBARM,
		TagBASM, TagBLES, TagCHRA, TagCONF, TagFCOM, TagORDN, TagNATU, TagEMIG,
		TagIMMI, TagCENS, TagPROB, TagWILL, TagGRAD, TagRETI, TagEVEN,
	)

	individualAttributes = newTagSet(
		TagCAST, TagDSCR, TagEDUC, TagIDNO, TagNATI, TagNCHI, TagNMR, TagOCCU,
		TagPROP, TagRELI, TagRESI, TagSSN, TagTITL,
	)

	familyEvents = newTagSet(
		TagANUL, TagCENS, TagDIV, TagDIVF, TagENGA, TagMARR, TagMARB, TagMARC,
		TagMARL, TagMARS, TagEVEN,
	)
)

// IsIndividualEvent reports whether t is an event recorded on an INDI record.
func IsIndividualEvent(t Tag) bool { return individualEvents.has(t) }

// IsIndividualAttribute reports whether t is an attribute recorded on an INDI record.
func IsIndividualAttribute(t Tag) bool { return individualAttributes.has(t) }

// IsFamilyEvent reports whether t is an event recorded on a FAM record.
func IsFamilyEvent(t Tag) bool { return familyEvents.has(t) }

var eventNames = map[Tag]string{
	TagEVEN: "[unknown]",
	TagCENS: "census",
	TagBIRT: "birth",
	TagDEAT: "death",
	TagCHR:  "christening",
	TagBURI: "reposition",
	TagCREM: "cremation",
	TagADOP: "adoption",
	TagBAPM: "baptism",
	TagBARM: "bar mitzvah",
	TagBASM: "bas mitzvah",
	TagBLES: "blessing",
	TagCHRA: "adult christening",
	TagCONF: "confirmation",
	TagFCOM: "first communion",
	TagORDN: "ordination",
	TagNATU: "naturalization",
	TagEMIG: "emigration",
	TagIMMI: "immigration",
	TagPROB: "will probated",
	TagWILL: "signed will",
	TagGRAD: "graduated",
	TagRETI: "retirement",
	TagRESI: "residence",
	TagMARR: "marriage",
	TagANUL: "annulment",
	TagDIV:  "divorce",
	TagDIVF: "divorce filed",
	TagENGA: "engagement",
	TagMARB: "marriage bann",
	TagMARC: "marriage contract",
	TagMARL: "marriage license",
	TagMARS: "marriage settlement",
	TagCAST: "caste",
	TagDSCR: "description",
	TagEDUC: "education",
	TagIDNO: "national ID",
	TagNATI: "national origin",
	TagNCHI: "count of children",
	TagNMR:  "count of marriages",
	TagOCCU: "occupation",
	TagPROP: "possession",
	TagRELI: "religion",
	TagSSN:  "US Social Security number",
	TagTITL: "title",
}

// EventName returns the display label for an event or attribute tag. Tags
// without a label fall back to their GEDCOM spelling in lower case.
func EventName(t Tag) string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return strings.ToLower(t.String())
}
