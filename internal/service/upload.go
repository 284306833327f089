package service

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

const pdfMIME = "application/pdf"

// DocumentUpload carries a client-provided file destined for the object
// store.
type DocumentUpload struct {
	FileName string
	MIMEType string
	Data     []byte
}

// validatePDF enforces the PDF-only rule for syllabus and curriculum
// uploads. Both the declared content type and the file suffix must agree;
// the store is never contacted for a rejected file.
func validatePDF(upload DocumentUpload, maxSize int64) error {
	if len(upload.Data) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "uploaded file is empty")
	}
	if maxSize > 0 && int64(len(upload.Data)) > maxSize {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", maxSize))
	}
	if upload.MIMEType != pdfMIME {
		return appErrors.Clone(appErrors.ErrValidation, "only PDF documents are accepted")
	}
	if !strings.HasSuffix(strings.ToLower(upload.FileName), ".pdf") {
		return appErrors.Clone(appErrors.ErrValidation, "file name must end in .pdf")
	}
	return nil
}
