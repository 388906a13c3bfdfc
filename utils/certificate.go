package utils

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// A4 landscape at 150 dpi
const (
	certificateWidth  = 1754
	certificateHeight = 1240
)

var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"pt": {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	"ru": {"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
}

// FormatCertificateDate renders a long date in the given locale, falling back to English.
func FormatCertificateDate(t time.Time, locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	months, ok := monthNames[locale]
	if !ok {
		locale, months = "en", monthNames["en"]
	}
	month := months[t.Month()-1]
	switch locale {
	case "en":
		return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
	case "es", "pt":
		return fmt.Sprintf("%d de %s de %d", t.Day(), month, t.Year())
	case "ru":
		return fmt.Sprintf("%d %s %d г.", t.Day(), month, t.Year())
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
}

// NewCertificateNumber returns an identifier like CERT-20250301-1A2B3C4D.
func NewCertificateNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT-%s-%s", now.Format("20060102"), suffix)
}

type CertificateData struct {
	Name        string
	CourseTitle string
	Number      string
	IssuedAt    time.Time
}

// CertificateRenderer is shared by all requests. It holds parsed fonts only;
// font.Face values keep glyph caches and are built per render.
type CertificateRenderer struct {
	locale  string
	issuer  string
	bold    *truetype.Font
	italic  *truetype.Font
	regular *truetype.Font
}

type certificateFaces struct {
	title font.Face
	name  font.Face
	body  font.Face
	small font.Face
}

func NewCertificateRenderer(locale, issuer string) (*CertificateRenderer, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	italic, err := truetype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse italic font: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	return &CertificateRenderer{
		locale:  locale,
		issuer:  issuer,
		bold:    bold,
		italic:  italic,
		regular: regular,
	}, nil
}

func (r *CertificateRenderer) faces() certificateFaces {
	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return certificateFaces{
		title: face(r.bold, 96),
		name:  face(r.italic, 88),
		body:  face(r.regular, 40),
		small: face(r.regular, 28),
	}
}

// RenderPNG draws the fixed certificate template.
func (r *CertificateRenderer) RenderPNG(data CertificateData) ([]byte, error) {
	const w, h = float64(certificateWidth), float64(certificateHeight)
	navy := color.RGBA{R: 0x00, G: 0x00, B: 0x4d, A: 0xff}
	gold := color.RGBA{R: 0xd7, G: 0xb5, B: 0x6d, A: 0xff}

	faces := r.faces()
	dc := gg.NewContext(certificateWidth, certificateHeight)
	dc.SetColor(color.White)
	dc.Clear()

	// double border
	dc.SetColor(navy)
	dc.SetLineWidth(14)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()
	dc.SetColor(gold)
	dc.SetLineWidth(4)
	dc.DrawRectangle(72, 72, w-144, h-144)
	dc.Stroke()

	dc.SetColor(navy)
	dc.SetFontFace(faces.title)
	dc.DrawStringAnchored("Certificate of Completion", w/2, 260, 0.5, 0.5)

	dc.SetFontFace(faces.body)
	dc.DrawStringAnchored("This certifies that", w/2, 420, 0.5, 0.5)

	dc.SetFontFace(faces.name)
	dc.DrawStringAnchored(data.Name, w/2, 540, 0.5, 0.5)
	nameWidth, _ := dc.MeasureString(data.Name)
	dc.SetColor(gold)
	dc.SetLineWidth(3)
	dc.DrawLine(w/2-nameWidth/2-40, 600, w/2+nameWidth/2+40, 600)
	dc.Stroke()

	dc.SetColor(navy)
	dc.SetFontFace(faces.body)
	dc.DrawStringAnchored("has successfully completed the course", w/2, 690, 0.5, 0.5)
	dc.DrawStringWrapped(data.CourseTitle, w/2, 790, 0.5, 0.5, w-400, 1.4, gg.AlignCenter)

	dc.SetFontFace(faces.small)
	dc.DrawStringAnchored(FormatCertificateDate(data.IssuedAt, r.locale), 320, h-220, 0.5, 0.5)
	dc.DrawStringAnchored(data.Number, w-320, h-220, 0.5, 0.5)
	if r.issuer != "" {
		dc.DrawStringAnchored(r.issuer, w/2, h-160, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces the downloadable PDF: one landscape A4 page holding the PNG.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	png, err := r.RenderPNG(data)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+data.Number, true)
	pdf.SetAuthor(r.issuer, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, bytes.NewReader(png))
	pageW, pageH := pdf.GetPageSize()
	pdf.ImageOptions("certificate", 0, 0, pageW, pageH, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return out.Bytes(), nil
}

// CertificateFilename is the download name for a certificate PDF.
func CertificateFilename(number string) string {
	if number == "" {
		return "certificate.pdf"
	}
	return "certificate-" + number + ".pdf"
}
