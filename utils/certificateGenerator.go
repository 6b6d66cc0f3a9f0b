package utils

import (
	"fmt"
	"os"
	"otms/config"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateCertificateNumber builds a globally unique number from the
// enrollment id suffix and the current timestamp
func GenerateCertificateNumber(enrollmentID uint) string {
	return fmt.Sprintf("CERT-%04d-%d", enrollmentID%10000, time.Now().Unix())
}

// CertificateAssets holds the generated file locations for a certificate
type CertificateAssets struct {
	VerificationURL string
	QrCodePath      string
	PdfPath         string
	QrCodeURL       string
	PdfURL          string
}

// GenerateCertificateAssets renders the verification QR code and the
// certificate PDF under the uploads tree
func GenerateCertificateAssets(certNumber, userName, courseTitle string, issueDate time.Time) (*CertificateAssets, error) {
	qrDir := filepath.Join(config.AppConfig.UploadDir, "qrcodes")
	pdfDir := filepath.Join(config.AppConfig.UploadDir, "certificates")
	for _, dir := range []string{qrDir, pdfDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	assets := &CertificateAssets{
		VerificationURL: fmt.Sprintf("%s/api/certificates/verify/%s", config.AppConfig.BaseURL, certNumber),
		QrCodePath:      filepath.Join(qrDir, certNumber+".png"),
		PdfPath:         filepath.Join(pdfDir, certNumber+".pdf"),
		QrCodeURL:       "/uploads/qrcodes/" + certNumber + ".png",
		PdfURL:          "/uploads/certificates/" + certNumber + ".pdf",
	}

	if err := qrcode.WriteFile(assets.VerificationURL, qrcode.Medium, 256, assets.QrCodePath); err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	if err := renderCertificatePDF(assets, certNumber, userName, courseTitle, issueDate); err != nil {
		return nil, fmt.Errorf("failed to render certificate PDF: %w", err)
	}

	return assets, nil
}

func renderCertificatePDF(assets *CertificateAssets, certNumber, userName, courseTitle string, issueDate time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	// Border
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(29, 53, 87)
	pdf.Rect(8, 8, 281, 194, "D")

	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(29, 53, 87)
	pdf.SetXY(0, 35)
	pdf.CellFormat(297, 14, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(297, 10, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(69, 123, 157)
	pdf.CellFormat(297, 16, userName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(297, 10, "has successfully completed the training course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(29, 53, 87)
	pdf.CellFormat(297, 14, courseTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(297, 10, "Issued on "+issueDate.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(0, 180)
	pdf.CellFormat(297, 6, "Certificate No: "+certNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(297, 6, "Verify at: "+assets.VerificationURL, "", 1, "C", false, 0, "")

	// Verification QR bottom-right
	pdf.ImageOptions(assets.QrCodePath, 250, 155, 30, 30, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	return pdf.OutputFileAndClose(assets.PdfPath)
}
