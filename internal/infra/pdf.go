package infra

// pdf.go — Internal PDF receipt generation using go-pdf/fpdf.
// Generates A7-size thermal receipt-style recibos with:
//   - Salon name header
//   - Recibo number and timestamp
//   - Item table (description, quantity, subtotal)
//   - Credit lines for giftcard / seña when applied
//   - Bold total and payment method
//
// The output file is saved to storagePath/recibo_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"agendasalon/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF generates the internal PDF receipt for a settled Pago.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReciboPDF(pago *model.Pago, clienteNombre, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%d.pdf", pago.NumeroRecibo)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "AgendaSalon", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Atención", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Recibo info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Recibo N° %d", pago.NumeroRecibo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pago.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if clienteNombre != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+clienteNombre, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Detalle", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range pago.Items {
		descr := item.Descripcion
		if len(descr) > 22 {
			descr = descr[:21] + "…"
		}
		pdf.CellFormat(col1, 5, descr, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Credits & total ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !pago.CreditoGiftcard.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Gift card:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-$"+pago.CreditoGiftcard.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !pago.CreditoSena.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Seña:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-$"+pago.CreditoSena.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+pago.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pago ("+pago.Metodo+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+pago.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por tu visita!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
