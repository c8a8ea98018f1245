package contracts

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// FontFamily is the family name a custom UTF-8 font is registered under.
const FontFamily = "contract"

// ErrUnsupportedImage is returned for signature or stamp bytes that are
// neither PNG nor JPEG.
var ErrUnsupportedImage = errors.New("image must be PNG or JPEG")

// Document is what BuildPDF lays out.
type Document struct {
	Title     string
	Lines     []string
	Signature []byte // optional, bottom right
	Stamp     []byte // optional, bottom left
}

// PDFBuilder renders documents with an optional UTF-8 font.
type PDFBuilder struct {
	FontPath string
}

// runes per printed line at size 12 on A4 with 20mm margins
const lineWidth = 85

// BuildPDF lays out the document on A4 portrait pages and returns the bytes.
func (b PDFBuilder) BuildPDF(doc Document) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 15, 20)
	if b.FontPath != "" {
		m.AddUTF8Font(FontFamily, consts.Normal, b.FontPath)
		m.AddUTF8Font(FontFamily, consts.Bold, b.FontPath)
		m.SetDefaultFontFamily(FontFamily)
	}

	// Title
	m.Row(15, func() {
		m.Col(12, func() {
			m.Text(doc.Title, props.Text{
				Top:   3,
				Style: consts.Bold,
				Align: consts.Center,
				Size:  20,
			})
		})
	})
	m.Row(10, func() {})

	for _, line := range doc.Lines {
		wraps := 1 + utf8.RuneCountInString(line)/lineWidth
		m.Row(float64(7*wraps+3), func() {
			m.Col(12, func() {
				m.Text(line, props.Text{
					Top:   2,
					Align: consts.Right,
					Size:  12,
				})
			})
		})
	}

	if len(doc.Signature) > 0 || len(doc.Stamp) > 0 {
		m.Row(20, func() {})
		var imgErr error
		m.Row(50, func() {
			m.Col(4, func() {
				if len(doc.Stamp) > 0 {
					imgErr = errors.Join(imgErr, addImage(m, doc.Stamp))
				}
			})
			m.ColSpace(4)
			m.Col(4, func() {
				if len(doc.Signature) > 0 {
					imgErr = errors.Join(imgErr, addImage(m, doc.Signature))
				}
			})
		})
		if imgErr != nil {
			return nil, imgErr
		}
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addImage(m pdf.Maroto, raw []byte) error {
	var ext consts.Extension
	switch http.DetectContentType(raw) {
	case "image/png":
		ext = consts.Png
	case "image/jpeg":
		ext = consts.Jpg
	default:
		return ErrUnsupportedImage
	}
	return m.Base64Image(base64.StdEncoding.EncodeToString(raw), ext, props.Rect{
		Center:  true,
		Percent: 90,
	})
}
