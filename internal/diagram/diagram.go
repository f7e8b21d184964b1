// Package diagram draws board positions as SVG documents and PNG images.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/neptune-chess/neptune/internal/board"
)

// DefaultSquareSize is the side of one square in pixels.
const DefaultSquareSize = 48

// Board colors
const (
	LightSquare     = "#f0d9b5"
	DarkSquare      = "#b58863"
	LightHighlight  = "#cdd26a"
	DarkHighlight   = "#aaa23a"
	WhitePieceFill  = "#ffffff"
	BlackPieceFill  = "#262626"
	coordinateStyle = "font-family:sans-serif;font-size:%dpx;fill:#4a4a4a"
)

// Options controls how a diagram is drawn.
type Options struct {
	SquareSize int  // pixels per square, DefaultSquareSize when zero
	Flip       bool // draw from Black's side
	LastMove   bool // highlight the from and to squares of pos.LastMove

	// Coordinates adds file and rank labels. Labels are SVG text, which
	// the PNG renderer does not draw.
	Coordinates bool

	Highlight []board.Square
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return DefaultSquareSize
	}
	return o.SquareSize
}

// squareOrigin returns the top-left pixel of sq.
func (o Options) squareOrigin(sq board.Square) (int, int) {
	size := o.squareSize()
	file, rank := sq.File(), 7-sq.Rank()
	if o.Flip {
		file, rank = 7-sq.File(), sq.Rank()
	}
	return file * size, rank * size
}

func (o Options) highlighted(pos *board.Position) board.Bitboard {
	var marked board.Bitboard
	for _, sq := range o.Highlight {
		if sq.IsValid() {
			marked = marked.Set(sq)
		}
	}
	if o.LastMove && pos.LastMove.From.IsValid() && pos.LastMove.To.IsValid() {
		marked = marked.Set(pos.LastMove.From).Set(pos.LastMove.To)
	}
	return marked
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSVG writes pos as an SVG document.
func WriteSVG(w io.Writer, pos *board.Position, opts Options) error {
	ew := &errWriter{w: w}
	size := opts.squareSize()
	canvas := svg.New(ew)
	canvas.Startview(8*size, 8*size, 0, 0, 8*size, 8*size)

	marked := opts.highlighted(pos)

	canvas.Gid("squares")
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := opts.squareOrigin(sq)
		canvas.Rect(x, y, size, size, "fill:"+squareColor(sq, marked.IsSet(sq)))
	}
	canvas.Gend()

	canvas.Gid("pieces")
	for sq := board.A1; sq <= board.H8; sq++ {
		if piece := pos.PieceAt(sq); piece != board.NoPiece {
			x, y := opts.squareOrigin(sq)
			drawPiece(canvas, piece, x+size/2, y+size/2, size)
		}
	}
	canvas.Gend()

	if opts.Coordinates {
		drawCoordinates(canvas, opts)
	}

	canvas.End()
	return ew.err
}

func squareColor(sq board.Square, marked bool) string {
	dark := (sq.File()+sq.Rank())%2 == 0
	switch {
	case dark && marked:
		return DarkHighlight
	case dark:
		return DarkSquare
	case marked:
		return LightHighlight
	}
	return LightSquare
}

// drawPiece draws a disc in the piece's color with a type mark in the
// opposite color, centered on (cx, cy).
func drawPiece(canvas *svg.SVG, piece board.Piece, cx, cy, size int) {
	fill, ink := WhitePieceFill, BlackPieceFill
	if piece.Color() == board.Black {
		fill, ink = BlackPieceFill, WhitePieceFill
	}
	stroke := max(1, size/24)
	canvas.Circle(cx, cy, size*38/100,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", fill, ink, stroke))

	u := max(1, size/10)
	mark := "fill:" + ink
	switch piece.Type() {
	case board.Pawn:
		canvas.Circle(cx, cy, u*3/2, mark)
	case board.Knight:
		canvas.Polygon(
			[]int{cx - 2*u, cx + 2*u, cx},
			[]int{cy + 2*u, cy + 2*u, cy - 2*u}, mark)
	case board.Bishop:
		canvas.Polygon(
			[]int{cx, cx + 3*u/2, cx, cx - 3*u/2},
			[]int{cy - 2*u, cy, cy + 2*u, cy}, mark)
	case board.Rook:
		canvas.Rect(cx-3*u/2, cy-3*u/2, 3*u, 3*u, mark)
	case board.Queen:
		canvas.Polygon(
			[]int{cx - 2*u, cx - 2*u, cx - u, cx, cx + u, cx + 2*u, cx + 2*u},
			[]int{cy + 3*u/2, cy - 3*u/2, cy, cy - 2*u, cy, cy - 3*u/2, cy + 3*u/2}, mark)
	case board.King:
		a := max(1, u*6/10)
		canvas.Polygon(
			[]int{cx - a, cx + a, cx + a, cx + 2*u, cx + 2*u, cx + a, cx + a, cx - a, cx - a, cx - 2*u, cx - 2*u, cx - a},
			[]int{cy - 2*u, cy - 2*u, cy - a, cy - a, cy + a, cy + a, cy + 2*u, cy + 2*u, cy + a, cy + a, cy - a, cy - a}, mark)
	}
}

func drawCoordinates(canvas *svg.SVG, opts Options) {
	size := opts.squareSize()
	fontSize := max(6, size/5)
	style := fmt.Sprintf(coordinateStyle, fontSize)

	canvas.Gid("coordinates")
	for i := 0; i < 8; i++ {
		// Files along the bottom edge, ranks along the left edge.
		fileSq := board.NewSquare(i, 0)
		rankSq := board.NewSquare(0, i)
		if opts.Flip {
			fileSq = board.NewSquare(i, 7)
			rankSq = board.NewSquare(7, i)
		}
		x, y := opts.squareOrigin(fileSq)
		canvas.Text(x+size-fontSize, y+size-2, string(rune('a'+i)), style)
		x, y = opts.squareOrigin(rankSq)
		canvas.Text(x+2, y+fontSize, string(rune('1'+i)), style)
	}
	canvas.Gend()
}

// Render rasterizes the diagram of pos.
func Render(pos *board.Position, opts Options) (*image.RGBA, error) {
	opts.Coordinates = false

	var buf bytes.Buffer
	if err := WriteSVG(&buf, pos, opts); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse diagram: %w", err)
	}

	side := 8 * opts.squareSize()
	icon.SetTarget(0, 0, float64(side), float64(side))

	rgba := image.NewRGBA(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(side, side, scanner)
	icon.Draw(raster, 1.0)

	return rgba, nil
}

// WritePNG writes pos as a PNG image.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Render(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
