package report

import (
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

// Document is a rendered form ready for upload.
type Document struct {
	FileName string
	MIMEType string
	Bytes    []byte
}

// Renderer projects form payloads onto the fixed template coordinates.
type Renderer struct {
	templateDir  string
	primarySheet string
	logger       *zap.Logger
	now          func() time.Time
}

// NewRenderer constructs a renderer reading templates from templateDir.
func NewRenderer(templateDir, primarySheet string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if primarySheet == "" {
		primarySheet = "Sheet1"
	}
	return &Renderer{
		templateDir:  templateDir,
		primarySheet: primarySheet,
		logger:       logger,
		now:          time.Now,
	}
}

// Render fills the form template with the payload rows and returns the
// document bytes together with a date-stamped file name.
func (r *Renderer) Render(formType models.FormType, payload Payload, header Header) (*Document, error) {
	layout, ok := LayoutFor(formType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown form type %q", formType))
	}
	if err := payload.Validate(formType); err != nil {
		return nil, err
	}
	if err := checkCapacity(layout, payload); err != nil {
		return nil, err
	}

	path := filepath.Join(r.templateDir, layout.TemplateFile)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report template unavailable")
	}
	defer f.Close() //nolint:errcheck

	sheet := r.primarySheet
	if !hasSheet(f, sheet) {
		return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("template %s has no sheet %q", layout.TemplateFile, sheet))
	}

	r.writeHeader(f, sheet, layout.Header, header)

	for i, row := range payload.Integrated {
		writeSubjectRow(f, sheet, layout.Integrated.StartRow+i, row)
	}
	for i, row := range payload.Elective {
		writeSubjectRow(f, sheet, layout.Elective.StartRow+i, row)
	}
	if layout.Programs != nil {
		for i, row := range payload.Programs {
			writeProgramRow(f, sheet, layout.Programs.StartRow+i, row)
		}
	}

	if err := fitColumns(f, sheet); err != nil {
		r.logger.Warn("column width adjustment failed", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialize document")
	}

	name := fmt.Sprintf("%s - %s.xlsx", formType.Label(), r.now().UTC().Format("2006-01-02"))
	return &Document{FileName: name, MIMEType: SpreadsheetMIME, Bytes: buf.Bytes()}, nil
}

func checkCapacity(layout Layout, payload Payload) error {
	if n := len(payload.Integrated); n > layout.Integrated.Capacity {
		return capacityError("integrated", n, layout.Integrated.Capacity)
	}
	if n := len(payload.Elective); n > layout.Elective.Capacity {
		return capacityError("elective", n, layout.Elective.Capacity)
	}
	if layout.Programs != nil {
		if n := len(payload.Programs); n > layout.Programs.Capacity {
			return capacityError("programs", n, layout.Programs.Capacity)
		}
	}
	return nil
}

func capacityError(block string, got, capacity int) error {
	return appErrors.Clone(appErrors.ErrValidation,
		fmt.Sprintf("%s block holds at most %d rows, got %d", block, capacity, got))
}

func (r *Renderer) writeHeader(f *excelize.File, sheet string, cells HeaderCells, header Header) {
	setIfPresent(f, sheet, cells.Institution, header.Institution)
	setIfPresent(f, sheet, cells.Region, header.Region)
	setIfPresent(f, sheet, cells.Address, header.Address)
}

func setIfPresent(f *excelize.File, sheet, cell, value string) {
	if cell == "" || value == "" {
		return
	}
	_ = f.SetCellValue(sheet, cell, value)
}

func writeSubjectRow(f *excelize.File, sheet string, rowIdx int, row SubjectRow) {
	cols := subjectColumns
	setCell(f, sheet, cols.Subject, rowIdx, row.Subject)
	if row.Units != nil {
		setCell(f, sheet, cols.Units, rowIdx, *row.Units)
	}
	setCell(f, sheet, cols.DegreeProgram, rowIdx, row.DegreeProgram)
	setCell(f, sheet, cols.Faculty, rowIdx, row.Faculty)
	setCell(f, sheet, cols.Employment, rowIdx, row.EmploymentStatus)
	writeAttainment(f, sheet, rowIdx, row.Attainment, cols.Bachelor, cols.Master, cols.Doctoral)
}

func writeProgramRow(f *excelize.File, sheet string, rowIdx int, row ProgramRow) {
	cols := programColumns
	setCell(f, sheet, cols.Specialization, rowIdx, row.Specialization)
	setCell(f, sheet, cols.Authority, rowIdx, row.GovernmentAuthority)
	setCell(f, sheet, cols.YearStarted, rowIdx, row.AcademicYearStarted)
	setCell(f, sheet, cols.Enrollment[0], rowIdx, row.EnrollmentYear1)
	setCell(f, sheet, cols.Enrollment[1], rowIdx, row.EnrollmentYear2)
	setCell(f, sheet, cols.Enrollment[2], rowIdx, row.EnrollmentYear3)
	setCell(f, sheet, cols.Faculty, rowIdx, row.Faculty)
	setCell(f, sheet, cols.Employment, rowIdx, row.EmploymentStatus)
	writeAttainment(f, sheet, rowIdx, row.Attainment, cols.Bachelor, cols.Master, cols.Doctoral)
}

// writeAttainment places a single check mark in the matching column. The
// three columns are mutually exclusive per row.
func writeAttainment(f *excelize.File, sheet string, rowIdx int, attainment, bachelor, master, doctoral string) {
	switch models.Attainment(attainment) {
	case models.AttainmentBachelor:
		setCell(f, sheet, bachelor, rowIdx, CheckMark)
	case models.AttainmentMaster:
		setCell(f, sheet, master, rowIdx, CheckMark)
	case models.AttainmentDoctoral:
		setCell(f, sheet, doctoral, rowIdx, CheckMark)
	}
}

func setCell(f *excelize.File, sheet, col string, rowIdx int, value interface{}) {
	if s, ok := value.(string); ok && s == "" {
		return
	}
	_ = f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, rowIdx), value)
}

// fitColumns widens each column to its longest rendered value, with a
// minimum floor so sparse columns stay legible.
func fitColumns(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	widths := make(map[int]int)
	for _, row := range rows {
		for colIdx, value := range row {
			if n := utf8.RuneCountInString(value); n > widths[colIdx] {
				widths[colIdx] = n
			}
		}
	}
	for colIdx, length := range widths {
		name, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return err
		}
		width := float64(length) + 2
		if width < MinColumnWidth {
			width = MinColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}
