package pdfexport

import (
	"bytes"
	"fmt"
	dbmodels "labstock-backend/models/db"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// ApprovalReportData данные для отчета по закрытой выдаче
type ApprovalReportData struct {
	Approval     dbmodels.ApprovedRequest
	RequestTitle string
	RequestedBy  string
	LabName      string
}

var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Item", 70, "L"},
	{"Requested", 25, "R"},
	{"Approved", 25, "R"},
	{"Unit price", 30, "R"},
	{"Spent", 30, "R"},
}

func GenerateApprovalReport(data ApprovalReportData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalReport panic recover: %v", r)
		}
	}()
	rec := data.Approval
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Approval %s", rec.ID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Equipment issue report"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	lines := [][2]string{
		{"Request", data.RequestTitle},
		{"Requested by", data.RequestedBy},
		{"Lab", data.LabName},
		{"Approved at", rec.ApprovedAt.Format("02.01.2006 15:04")},
		{"Status", string(rec.Status)},
	}
	if rec.CompletedAt != nil {
		lines = append(lines, [2]string{"Completed at", rec.CompletedAt.Format("02.01.2006 15:04")})
	}
	for _, line := range lines {
		pdf.CellFormat(40, 7, tr(line[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for idx, item := range rec.Equipment {
		unitPrice, spent := "", ""
		if idx < len(rec.EquipmentExpenses) {
			unitPrice = rec.EquipmentExpenses[idx].UnitPrice.StringFixed(2)
			spent = rec.EquipmentExpenses[idx].AmountSpent.StringFixed(2)
		}
		values := []string{
			fmt.Sprint(idx + 1),
			tr(item.Name),
			fmt.Sprint(item.RequestedQuantity),
			fmt.Sprint(item.ApprovedQuantity),
			unitPrice,
			spent,
		}
		for colIdx, col := range itemColumns {
			pdf.CellFormat(col.width, 7, values[colIdx], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(160, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, rec.TotalAmountSpent.StringFixed(2), "1", 1, "R", false, 0, "")

	if len(rec.Invoices) != 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Invoices", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, invoice := range rec.Invoices {
			indexes := make([]string, 0, len(invoice.ItemIndexes))
			for _, itemIdx := range invoice.ItemIndexes {
				indexes = append(indexes, fmt.Sprint(itemIdx+1))
			}
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("items %s: %s", strings.Join(indexes, ", "), invoice.ImageUrl)), "", "L", false)
		}
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
