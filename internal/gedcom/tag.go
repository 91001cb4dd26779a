package gedcom

// Tag is the classified form of a GEDCOM tag. Tags the package does not
// know about classify as TagUnknown; the raw text is kept on the Line.
type Tag int

// Known tags. TagUID is the non-standard _UID extension carrying a UUID.
const (
	TagUnknown Tag = iota
	TagABBR
	TagADDR
	TagADR1
	TagADR2
	TagADOP
	TagAFN
	TagAGE
	TagAGNC
	TagALIA
	TagANCE
	TagANCI
	TagANUL
	TagASSO
	TagAUTH
	TagBAPL
	TagBAPM
	TagBARM
	TagBASM
	TagBIRT
	TagBLES
	TagBLOB
	TagBURI
	TagCALN
	TagCAST
	TagCAUS
	TagCENS
	TagCHAN
	TagCHAR
	TagCHIL
	TagCHR
	TagCHRA
	TagCITY
	TagCONC
	TagCONF
	TagCONL
	TagCONT
	TagCOPR
	TagCORP
	TagCREM
	TagCTRY
	TagDATA
	TagDATE
	TagDEAT
	TagDESC
	TagDESI
	TagDEST
	TagDIV
	TagDIVF
	TagDSCR
	TagEDUC
	TagEMIG
	TagENDL
	TagENGA
	TagEVEN
	TagFAM
	TagFAMC
	TagFAMF
	TagFAMS
	TagFCOM
	TagFILE
	TagFORM
	TagGEDC
	TagGIVN
	TagGRAD
	TagHEAD
	TagHUSB
	TagIDNO
	TagIMMI
	TagINDI
	TagLANG
	TagLEGA
	TagMARB
	TagMARC
	TagMARL
	TagMARR
	TagMARS
	TagMEDI
	TagNAME
	TagNATI
	TagNATU
	TagNCHI
	TagNICK
	TagNMR
	TagNOTE
	TagNPFX
	TagNSFX
	TagOBJE
	TagOCCU
	TagORDI
	TagORDN
	TagPAGE
	TagPEDI
	TagPHON
	TagPLAC
	TagPOST
	TagPROB
	TagPROP
	TagPUBL
	TagQUAY
	TagREFN
	TagRELA
	TagRELI
	TagREPO
	TagRESI
	TagRESN
	TagRETI
	TagRFN
	TagRIN
	TagROLE
	TagSEX
	TagSLGC
	TagSLGS
	TagSOUR
	TagSPFX
	TagSSN
	TagSTAE
	TagSTAT
	TagSUBM
	TagSUBN
	TagSURN
	TagTEMP
	TagTEXT
	TagTIME
	TagTITL
	TagTRLR
	TagTYPE
	TagVERS
	TagWIFE
	TagWILL
	TagUID
)

// tagNames is indexed by Tag; order must match the const block above.
var tagNames = [...]string{
	"UNKNOWN", "ABBR", "ADDR", "ADR1", "ADR2", "ADOP", "AFN", "AGE", "AGNC", "ALIA",
	"ANCE", "ANCI", "ANUL", "ASSO", "AUTH", "BAPL", "BAPM", "BARM", "BASM", "BIRT",
	"BLES", "BLOB", "BURI", "CALN", "CAST", "CAUS", "CENS", "CHAN", "CHAR", "CHIL",
	"CHR", "CHRA", "CITY", "CONC", "CONF", "CONL", "CONT", "COPR", "CORP", "CREM",
	"CTRY", "DATA", "DATE", "DEAT", "DESC", "DESI", "DEST", "DIV", "DIVF", "DSCR",
	"EDUC", "EMIG", "ENDL", "ENGA", "EVEN", "FAM", "FAMC", "FAMF", "FAMS", "FCOM",
	"FILE", "FORM", "GEDC", "GIVN", "GRAD", "HEAD", "HUSB", "IDNO", "IMMI", "INDI",
	"LANG", "LEGA", "MARB", "MARC", "MARL", "MARR", "MARS", "MEDI", "NAME", "NATI",
	"NATU", "NCHI", "NICK", "NMR", "NOTE", "NPFX", "NSFX", "OBJE", "OCCU", "ORDI",
	"ORDN", "PAGE", "PEDI", "PHON", "PLAC", "POST", "PROB", "PROP", "PUBL", "QUAY",
	"REFN", "RELA", "RELI", "REPO", "RESI", "RESN", "RETI", "RFN", "RIN", "ROLE",
	"SEX", "SLGC", "SLGS", "SOUR", "SPFX", "SSN", "STAE", "STAT", "SUBM", "SUBN",
	"SURN", "TEMP", "TEXT", "TIME", "TITL", "TRLR", "TYPE", "VERS", "WIFE", "WILL",
	"_UID",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for t, name := range tagNames {
		if Tag(t) != TagUnknown {
			m[name] = Tag(t)
		}
	}
	return m
}()

// ParseTag classifies a raw tag string. Matching is case-sensitive, as in
// the GEDCOM standard.
func ParseTag(s string) Tag {
	if t, ok := tagsByName[s]; ok {
		return t
	}
	return TagUnknown
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return tagNames[TagUnknown]
	}
	return tagNames[t]
}
