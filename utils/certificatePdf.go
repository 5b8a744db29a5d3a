package utils

import (
	"bytes"
	courseModels "lms/models/course"

	"github.com/jung-kurt/gofpdf"
)

// RenderCertificatePDF produces the downloadable certificate document. Pure
// formatting, no side effects on the data model.
func RenderCertificatePDF(certificate *courseModels.Certificate) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Double border frame
	pdf.SetLineWidth(0.8)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(12, 12, pageW-24, pageH-24, "D")

	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetY(35)
	pdf.CellFormat(0, 14, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetY(62)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetY(74)
	pdf.CellFormat(0, 12, certificate.StudentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetY(92)
	pdf.CellFormat(0, 8, "has successfully completed", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetY(104)
	pdf.CellFormat(0, 10, certificate.CourseName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetY(128)
	pdf.CellFormat(0, 7, "Issue Date: "+certificate.IssueDate.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetY(137)
	pdf.CellFormat(0, 6, "Certificate ID: "+certificate.CertificateNumber, "", 1, "C", false, 0, "")

	if certificate.InstructorName != "" {
		pdf.SetFont("Helvetica", "", 13)
		pdf.SetY(160)
		pdf.CellFormat(0, 7, certificate.InstructorName, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "Instructor", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
