package documents

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// ValidateUpload checks a file locally before it is sent and returns its page
// count. Failures are *domain.ValidationError.
func ValidateUpload(u domain.Upload, maxSize int64) (int, error) {
	name := strings.TrimSpace(u.FileName)
	if name == "" {
		return 0, &domain.ValidationError{Field: "file", Message: "a file is required"}
	}
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return 0, &domain.ValidationError{Field: "file", Message: "only PDF files are supported"}
	}
	if len(u.Content) == 0 {
		return 0, &domain.ValidationError{Field: "file", Message: "file is empty"}
	}
	if maxSize > 0 && int64(len(u.Content)) > maxSize {
		return 0, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("file too large (max %d bytes)", maxSize)}
	}
	pages, err := countPages(u.Content)
	if err != nil {
		return 0, &domain.ValidationError{Field: "file", Message: "not a readable PDF: " + err.Error()}
	}
	if pages == 0 {
		return 0, &domain.ValidationError{Field: "file", Message: "PDF has no pages"}
	}
	return pages, nil
}

func countPages(content []byte) (pages int, err error) {
	// The reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = 0, fmt.Errorf("%v", rec)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

// SamplePDF builds a minimal well-formed PDF with the given number of blank
// pages. Used by tests and the demo seed.
func SamplePDF(pages int) []byte {
	if pages < 1 {
		pages = 1
	}
	objs := []string{"<< /Type /Catalog /Pages 2 0 R >>"}
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}
