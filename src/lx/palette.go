package lx

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ojrac/opensimplex-go"
)

// Palette is a color field over the model. phase is in [0, 100].
type Palette interface {
	Color(p Point, phase float64) Color
}

// ----- Gradient Table ----- //

type GradientStop struct {
	Col colorful.Color
	Pos float64
}

// GradientTable stops must be sorted by Pos in [0, 1].
type GradientTable []GradientStop

func (gt GradientTable) GetInterpolatedColorFor(t float64) colorful.Color {
	if len(gt) == 0 {
		return colorful.Color{}
	}
	for i := 0; i < len(gt)-1; i++ {
		c1 := gt[i]
		c2 := gt[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			// exact stops skip the lossy HCL round trip
			if t == c1.Pos {
				return c1.Col
			}
			if t == c2.Pos {
				return c2.Col
			}
			t := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, t).Clamped()
		}
	}
	if t < gt[0].Pos {
		return gt[0].Col
	}
	return gt[len(gt)-1].Col
}

// EvenStops spreads colors evenly over [0, 1].
func EvenStops(colors []colorful.Color) GradientTable {
	gt := make(GradientTable, len(colors))
	for i, c := range colors {
		pos := 0.0
		if len(colors) > 1 {
			pos = float64(i) / float64(len(colors)-1)
		}
		gt[i] = GradientStop{Col: c, Pos: pos}
	}
	return gt
}

// RainbowTable wraps around so that t=0 and t=1 meet.
func RainbowTable() GradientTable {
	colors := make([]colorful.Color, 7)
	for i := 0; i < len(colors)-1; i++ {
		colors[i] = colorful.Hsv(float64(i)*60, 1.0, 1.0)
	}
	// Hsv is only defined for hue in [0, 360)
	colors[len(colors)-1] = colors[0]
	return EvenStops(colors)
}

// LoadGPL reads a GIMP palette file into evenly spaced stops.
func LoadGPL(path string) (GradientTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var colors []colorful.Color
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") ||
			strings.HasPrefix(line, "Name:") || strings.HasPrefix(line, "Columns") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		r, err1 := strconv.Atoi(fields[0])
		g, err2 := strconv.Atoi(fields[1])
		b, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		colors = append(colors, colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}
	return EvenStops(colors), nil
}

// ----- Gradient Palette ----- //

// GradientPalette looks up frac(spread*pos + phase/100) in a gradient, where
// pos is the point projected on axis and normalized over the model.
type GradientPalette struct {
	table  GradientTable
	axis   r3.Vector
	spread float64
	lo     float64
	width  float64
}

var _ Palette = (*GradientPalette)(nil)

func NewGradientPalette(table GradientTable, axis r3.Vector, spread float64, model *Model) *GradientPalette {
	if axis.Norm() == 0 {
		axis = r3.Vector{Y: 1}
	}
	axis = axis.Normalize()
	lo, hi := 0.0, 0.0
	for i, p := range model.Points() {
		d := p.Pos.Dot(axis)
		if i == 0 || d < lo {
			lo = d
		}
		if i == 0 || d > hi {
			hi = d
		}
	}
	return &GradientPalette{
		table:  table,
		axis:   axis,
		spread: spread,
		lo:     lo,
		width:  hi - lo,
	}
}

func (gp *GradientPalette) position(p Point) float64 {
	if gp.width == 0 {
		return 0
	}
	return (p.Pos.Dot(gp.axis) - gp.lo) / gp.width
}

func (gp *GradientPalette) Color(p Point, phase float64) Color {
	t := gp.spread*gp.position(p) + phase/100
	t -= math.Floor(t)
	return FromColorful(gp.table.GetInterpolatedColorFor(t))
}

// ----- Noise Palette ----- //

// NoisePalette samples 4D simplex noise at (pos*scale, phase/100) and maps it
// through a gradient.
type NoisePalette struct {
	table GradientTable
	noise opensimplex.Noise
	scale float64
}

var _ Palette = (*NoisePalette)(nil)

func NewNoisePalette(table GradientTable, seed int64, scale float64) *NoisePalette {
	return &NoisePalette{
		table: table,
		noise: opensimplex.NewNormalized(seed),
		scale: scale,
	}
}

func (np *NoisePalette) Color(p Point, phase float64) Color {
	v := np.noise.Eval4(p.Pos.X*np.scale, p.Pos.Y*np.scale, p.Pos.Z*np.scale, phase/100)
	return FromColorful(np.table.GetInterpolatedColorFor(v))
}
