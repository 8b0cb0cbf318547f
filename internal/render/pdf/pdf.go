package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/docexport/internal/pagination"
	"github.com/gompdf/docexport/internal/text"
)

// Renderer serializes paginated lines into an uncompressed PDF page stream
type Renderer struct {
	Geometry   pagination.PageGeometry
	FontFamily string
	// Debug enables per-page debug records on Logger
	Debug  bool
	Logger *slog.Logger
}

// RenderOptions contains document information for rendering
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
	// CreationDate is written to the info dictionary as both the creation and
	// the modification date. The zero value selects the Unix epoch so that
	// identical input yields identical bytes.
	CreationDate time.Time
}

// NewRenderer creates a new PDF renderer
func NewRenderer(geometry pagination.PageGeometry) *Renderer {
	return &Renderer{
		Geometry:   geometry,
		FontFamily: text.DefaultFamily,
		Logger:     slog.Default(),
	}
}

// RenderBytes renders pages and returns the PDF bytes
func (r *Renderer) RenderBytes(pages []*pagination.Page, options RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(pages, &buf, options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render renders pages to w. Nothing is written to w unless rendering succeeds.
func (r *Renderer) Render(pages []*pagination.Page, w io.Writer, options RenderOptions) error {
	data, err := r.RenderBytes(pages, options)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (r *Renderer) render(pages []*pagination.Page, out io.Writer, options RenderOptions) error {
	metrics, err := text.MetricsFor(r.FontFamily)
	if err != nil {
		return err
	}
	family := metrics.Family

	g := r.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})

	created := options.CreationDate
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	setInfo(pdf.SetTitle, options.Title)
	setInfo(pdf.SetAuthor, options.Author)
	setInfo(pdf.SetSubject, options.Subject)
	setInfo(pdf.SetKeywords, options.Keywords)
	setInfo(pdf.SetCreator, options.Creator)
	setInfo(pdf.SetProducer, options.Producer)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(family, "", g.BodyFontSize)

	if len(pages) == 0 {
		// an empty page list still has to produce an openable document
		pages = []*pagination.Page{{Width: g.Width, Height: g.Height}}
	}

	for _, page := range pages {
		pdf.AddPage()

		if page.Title != nil {
			pdf.SetFont(family, "", page.Title.FontSize)
			pdf.Text(page.Title.X, page.Title.Y, text.ToWinAnsi(page.Title.Text))
			pdf.SetFont(family, "", g.BodyFontSize)
		}
		for _, line := range page.Lines {
			r.renderLine(pdf, family, line)
		}

		if r.Debug {
			r.Logger.Debug("rendered page",
				"page", page.Index,
				"lines", len(page.Lines),
				"title", page.Title != nil)
		}
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// setInfo sets a UTF-8 info dictionary entry, leaving blank values out
func setInfo(set func(string, bool), value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	set(value, true)
}

// renderLine places one body line with a text-show operator
func (r *Renderer) renderLine(pdf *fpdf.Fpdf, family string, line pagination.LaidOutLine) {
	size := line.FontSize
	if size <= 0 {
		size = r.Geometry.BodyFontSize
	}
	if current, _ := pdf.GetFontSize(); current != size {
		pdf.SetFont(family, "", size)
	}
	pdf.Text(line.X, line.Y, text.ToWinAnsi(line.Text))
}
