package report

import "github.com/noah-isme/hei-portal-api/internal/models"

// CheckMark is the glyph written into the one-hot attainment columns,
// mirroring the paper form's presentation.
const CheckMark = "✓"

// SpreadsheetMIME is the content type of rendered documents.
const SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MinColumnWidth is the floor applied when recomputing column widths.
const MinColumnWidth = 10.0

// Block describes the row window a payload block occupies. Capacity is a
// hard limit: the next block starts right after it, so overflow must be
// rejected before any cell is written.
type Block struct {
	StartRow int
	Capacity int
}

// HeaderCells locates the institution header fields on the sheet.
type HeaderCells struct {
	Institution string
	Region      string
	Address     string
}

// SubjectColumns maps subject-row fields to template column letters.
type SubjectColumns struct {
	Subject       string
	Units         string
	DegreeProgram string
	Faculty       string
	Employment    string
	Bachelor      string
	Master        string
	Doctoral      string
}

// ProgramColumns maps program/specialization-row fields to column letters.
type ProgramColumns struct {
	Specialization string
	Authority      string
	YearStarted    string
	Enrollment     [3]string
	Faculty        string
	Employment     string
	Bachelor       string
	Master         string
	Doctoral       string
}

// Layout fixes where a form's blocks and header land on its template.
type Layout struct {
	TemplateFile string
	Header       HeaderCells
	Integrated   Block
	Elective     Block
	Programs     *Block
}

var subjectColumns = SubjectColumns{
	Subject:       "B",
	Units:         "C",
	DegreeProgram: "D",
	Faculty:       "E",
	Employment:    "F",
	Bachelor:      "G",
	Master:        "H",
	Doctoral:      "I",
}

var programColumns = ProgramColumns{
	Specialization: "B",
	Authority:      "C",
	YearStarted:    "D",
	Enrollment:     [3]string{"E", "F", "G"},
	Faculty:        "H",
	Employment:     "I",
	Bachelor:       "J",
	Master:         "K",
	Doctoral:       "L",
}

var layouts = map[models.FormType]Layout{
	models.FormType1: {
		TemplateFile: "form1.xlsx",
		Header:       HeaderCells{Institution: "C4", Region: "C5", Address: "C6"},
		Integrated:   Block{StartRow: 10, Capacity: 20},
		Elective:     Block{StartRow: 31, Capacity: 20},
	},
	models.FormType2: {
		TemplateFile: "form2.xlsx",
		Header:       HeaderCells{Institution: "C4", Region: "C5", Address: "C6"},
		Integrated:   Block{StartRow: 10, Capacity: 15},
		Elective:     Block{StartRow: 26, Capacity: 15},
		Programs:     &Block{StartRow: 42, Capacity: 15},
	},
}

// LayoutFor returns the coordinate map for the requested form type.
func LayoutFor(formType models.FormType) (Layout, bool) {
	layout, ok := layouts[formType]
	return layout, ok
}
