// Package diagram draws the ancestor chain of an element as nested boxes,
// outlining its containing block and stacking context.
package diagram

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/panel"
)

// Layout constants, in pixels.
const (
	Width     = 640
	RowHeight = 28
	Indent    = 16
	margin    = 12
)

var (
	colorBackground      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorBox             = color.RGBA{0x88, 0x88, 0x88, 0xff}
	colorTarget          = color.RGBA{0xff, 0xf2, 0xa8, 0xff}
	colorContainingBlock = color.RGBA{0x1f, 0x6f, 0xd1, 0xff}
	colorStackingContext = color.RGBA{0xd1, 0x2f, 0x1f, 0xff}
	colorText            = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// Row is one element of the drawn chain, root first.
type Row struct {
	Element         classify.Element
	Label           string
	Target          bool
	ContainingBlock bool
	StackingContext bool
	Creates         bool
}

// Rows lists the ancestors of el from the root down with their roles in
// the classification of el.
func Rows(c *classify.Classifier, el classify.Element) []Row {
	if el == nil {
		return nil
	}
	res := c.Classify(el)
	chain := classify.Ancestors(el)
	rows := make([]Row, len(chain))
	for i, a := range chain {
		_, creates := c.StackingReason(a)
		rows[len(chain)-1-i] = Row{
			Element:         a,
			Label:           panel.Describe(a),
			Target:          a == el,
			ContainingBlock: res.ContainingBlock != nil && a == res.ContainingBlock,
			StackingContext: a == res.StackingContext,
			Creates:         creates,
		}
	}
	return rows
}

// Options control how a chain is drawn.
type Options struct {
	// Font is a TrueType file for labels. Empty uses a small built-in
	// bitmap face.
	Font     string
	FontSize float64
}

// DefaultOptions uses the first installed font FindFont reports.
func DefaultOptions() Options {
	return Options{Font: FindFont(), FontSize: DefaultFontSize}
}

// Render draws the chain of el with DefaultOptions.
func Render(c *classify.Classifier, el classify.Element) image.Image {
	return Draw(c, el, DefaultOptions())
}

// Draw draws the chain of el. The image is Width pixels wide and one row
// taller per ancestor.
func Draw(c *classify.Classifier, el classify.Element, opts Options) image.Image {
	rows := Rows(c, el)
	height := 2*margin + RowHeight*(len(rows)+1)
	dc := gg.NewContext(Width, height)
	dc.SetColor(colorBackground)
	dc.Clear()
	loadFace(dc, opts.Font, opts.FontSize)

	n := float64(len(rows))
	for i, row := range rows {
		d := float64(i)
		x := margin + d*Indent
		y := margin + d*RowHeight
		w := Width - 2*x
		h := (n-d)*RowHeight + RowHeight/2

		if row.Target {
			dc.SetColor(colorTarget)
			dc.DrawRectangle(x, y, w, h)
			dc.Fill()
		}

		dc.SetLineWidth(1)
		dc.SetColor(colorBox)
		switch {
		case row.StackingContext:
			dc.SetLineWidth(3)
			dc.SetColor(colorStackingContext)
		case row.ContainingBlock:
			dc.SetLineWidth(3)
			dc.SetColor(colorContainingBlock)
		}
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

		if row.StackingContext && row.ContainingBlock {
			dc.SetLineWidth(2)
			dc.SetDash(6, 4)
			dc.SetColor(colorContainingBlock)
			dc.DrawRectangle(x+4, y+4, w-8, h-8)
			dc.Stroke()
			dc.SetDash()
		}

		label := row.Label
		if row.Creates {
			label += " *"
		}
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fitLabel(dc, label, w-16), x+8, y+RowHeight/2, 0, 0.5)
	}
	return dc.Image()
}

// SavePNG draws the chain of el to a PNG file.
func SavePNG(path string, c *classify.Classifier, el classify.Element, opts Options) error {
	if el == nil {
		return errors.New("diagram: no element")
	}
	if err := gg.SavePNG(path, Draw(c, el, opts)); err != nil {
		return errors.Wrapf(err, "diagram: writing %s", path)
	}
	return nil
}
