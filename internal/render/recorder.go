package render

import "image/color"

type OpKind int

const (
	OpGradient OpKind = iota
	OpCircle
	OpLine
)

func (k OpKind) String() string {
	switch k {
	case OpGradient:
		return "gradient"
	case OpCircle:
		return "circle"
	case OpLine:
		return "line"
	}
	return "unknown"
}

// Op is one recorded draw call.
type Op struct {
	Kind           OpKind
	X0, Y0, X1, Y1 float64
	Radius, Width  float64
	Color, To      color.NRGBA
	Glow           Glow
}

// Recorder is a Surface that keeps the draw calls of the current frame and
// running totals. It backs headless runs and tests.
type Recorder struct {
	Ops []Op

	Clears  int
	Circles int
	Lines   int
}

func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.Clears++
}

func (r *Recorder) FillGradient(w, h float64, from, to color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpGradient, X1: w, Y1: h, Color: from, To: to})
}

func (r *Recorder) FillCircle(x, y, radius float64, fill color.NRGBA, glow Glow) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X0: x, Y0: y, Radius: radius, Color: fill, Glow: glow})
	r.Circles++
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c})
	r.Lines++
}

// Kinds returns the kinds of the current frame's ops in draw order.
func (r *Recorder) Kinds() []OpKind {
	out := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Kind
	}
	return out
}
