package render

import (
	"bytes"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// Node box geometry in pixels.
const (
	nodeWidth  = 120.0
	nodeHeight = 48.0
	fontSize   = 13.0
	lineHeight = 16.0
)

var (
	fillEllipse   = color.RGBA{R: 0xcc, G: 0xe0, B: 0xf5, A: 0xff}
	fillCylinder  = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	fillHighlight = color.RGBA{R: 0xfd, G: 0xf6, B: 0xcd, A: 0xff}
	strokeColor   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// Canvas draws the editor's pixel-space projection of a diagram as a PNG.
// Width and height default to twice the mapper origin, which centers the
// default layout.
func Canvas(view canvas.View, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "canvas size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "parse font")
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// Edges first so node shapes sit on top of their endpoints.
	for _, e := range view.Edges {
		drawEdge(dc, e)
	}
	for _, n := range view.Nodes {
		drawNode(dc, n)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawEdge(dc *gg.Context, e canvas.EdgeView) {
	dc.SetColor(strokeColor)
	dc.SetLineWidth(1.5)
	if e.Dashed {
		dc.SetDash(6, 4)
	}
	dc.DrawLine(e.FromPt.X, e.FromPt.Y, e.ToPt.X, e.ToPt.Y)
	dc.Stroke()
	dc.SetDash()

	drawArrowhead(dc, e.FromPt, e.ToPt)
}

func drawArrowhead(dc *gg.Context, from, to canvas.Pixel) {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	const size = 9.0
	const spread = 0.45

	dc.SetColor(strokeColor)
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*math.Cos(angle-spread), to.Y-size*math.Sin(angle-spread))
	dc.LineTo(to.X-size*math.Cos(angle+spread), to.Y-size*math.Sin(angle+spread))
	dc.ClosePath()
	dc.Fill()
}

func drawNode(dc *gg.Context, n canvas.NodeView) {
	x, y := n.Pos.X, n.Pos.Y
	left, top := x-nodeWidth/2, y-nodeHeight/2

	dc.SetLineWidth(1.5)
	switch n.Shape {
	case diagram.ShapeEllipse:
		dc.DrawEllipse(x, y, nodeWidth/2, nodeHeight/2)
		fillStroke(dc, fillEllipse)
	case diagram.ShapeCylinder:
		drawCylinder(dc, left, top)
	case diagram.ShapeDashedRectangle:
		dc.SetDash(5, 3)
		dc.DrawRectangle(left, top, nodeWidth, nodeHeight)
		fillStroke(dc, color.White)
		dc.SetDash()
	case diagram.ShapeHighlightRectangle:
		dc.DrawRoundedRectangle(left, top, nodeWidth, nodeHeight, 6)
		fillStroke(dc, fillHighlight)
	default:
		dc.DrawRectangle(left, top, nodeWidth, nodeHeight)
		fillStroke(dc, color.White)
	}

	dc.SetColor(strokeColor)
	lines := strings.Split(n.Label, "\n")
	startY := y - lineHeight*float64(len(lines)-1)/2
	for i, line := range lines {
		w, _ := dc.MeasureString(line)
		dc.DrawString(line, x-w/2, startY+float64(i)*lineHeight+fontSize/3)
	}
}

func drawCylinder(dc *gg.Context, left, top float64) {
	const capRy = 7.0
	w, h := nodeWidth, nodeHeight

	dc.DrawRectangle(left, top+capRy, w, h-2*capRy)
	dc.SetColor(fillCylinder)
	dc.Fill()

	dc.DrawEllipse(left+w/2, top+capRy, w/2, capRy)
	fillStroke(dc, fillCylinder)
	dc.DrawEllipse(left+w/2, top+h-capRy, w/2, capRy)
	fillStroke(dc, fillCylinder)

	dc.SetColor(strokeColor)
	dc.DrawLine(left, top+capRy, left, top+h-capRy)
	dc.Stroke()
	dc.DrawLine(left+w, top+capRy, left+w, top+h-capRy)
	dc.Stroke()
}

func fillStroke(dc *gg.Context, fill color.Color) {
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(strokeColor)
	dc.Stroke()
}
