package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const PDFContentType = "application/pdf"

// WriteSnapshotPDF renders a single-page summary of the snapshot.
func WriteSnapshotPDF(w io.Writer, snap EmployeeSnapshot) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Employee snapshot", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee snapshot")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Name: %s", snap.Employee.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", snap.Employee.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Position: %s", snap.Employee.Position))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", snap.Employee.Status))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Attendance")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Recorded days: %d", snap.Attendance.TotalDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Present: %d", snap.Attendance.PresentDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Absent: %d", snap.Attendance.AbsentDays))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Performance")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	average := "n/a"
	if snap.Performance.AverageRating != nil {
		average = fmt.Sprintf("%.2f", *snap.Performance.AverageRating)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Average rating: %s", average))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reviews: %d", snap.Performance.ReviewCount))
	pdf.Ln(7)
	lastEnd := "n/a"
	if snap.Performance.LastReviewEnd != nil {
		lastEnd = *snap.Performance.LastReviewEnd
	}
	pdf.Cell(0, 8, fmt.Sprintf("Last review period end: %s", lastEnd))

	return pdf.Output(w)
}
