package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/signintech/gopdf"
)

// dejaVuPaths are the usual font locations on the deployment images.
var dejaVuPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// RenderPDF lays the report out as a printable document for clinicians.
func RenderPDF(rep *Report) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range dejaVuPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure dejavu fonts are installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "OmniDoc Medical Screening Report")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", rep.CreatedAt.Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session ID: %s", rep.SessionID))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Screening Data:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(rep.Structured) == 0 {
		pdf.Cell(nil, "- No screening data recorded.")
		pdf.Br(15)
	}
	for _, field := range fieldOrder(rep.Structured) {
		line := fmt.Sprintf("- %s: %s", strings.ReplaceAll(field, "_", " "), rep.Structured[field])
		lines, _ := pdf.SplitText(line, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
		pdf.Br(5)
	}
	pdf.Br(15)

	if rep.Summary != "" {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Clinical Summary:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}

		lines, _ := pdf.SplitText(rep.Summary, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	pdf.SetY(270)
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Generated by OmniDoc on %s", time.Now().Format("02.01.2006")))

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// fieldOrder renders chief complaint first, the rest alphabetically.
func fieldOrder(structured map[string]string) []string {
	keys := make([]string, 0, len(structured))
	for k := range structured {
		if k != "chief_complaint" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := structured["chief_complaint"]; ok {
		keys = append([]string{"chief_complaint"}, keys...)
	}
	return keys
}
