package lx

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/r3"
)

// ----- Point ----- //

type Point struct {
	Index int
	Pos   r3.Vector
}

// ----- Model ----- //

// Model is a fixed, ordered point cloud. Slot i of a color buffer belongs to
// point i.
type Model struct {
	points []Point
	min    r3.Vector
	max    r3.Vector
}

type modelJSON struct {
	Points [][3]float64 `json:"points"`
}

func NewModel(positions []r3.Vector) *Model {
	m := &Model{
		points: make([]Point, len(positions)),
	}
	for i, pos := range positions {
		m.points[i] = Point{Index: i, Pos: pos}
	}
	m.computeBounds()
	return m
}

func (m *Model) computeBounds() {
	if len(m.points) == 0 {
		return
	}
	m.min = r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	m.max = r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range m.points {
		m.min = r3.Vector{X: math.Min(m.min.X, p.Pos.X), Y: math.Min(m.min.Y, p.Pos.Y), Z: math.Min(m.min.Z, p.Pos.Z)}
		m.max = r3.Vector{X: math.Max(m.max.X, p.Pos.X), Y: math.Max(m.max.Y, p.Pos.Y), Z: math.Max(m.max.Z, p.Pos.Z)}
	}
}

// Points must be treated as read-only.
func (m *Model) Points() []Point {
	return m.points
}

func (m *Model) Size() int {
	return len(m.points)
}

// Bounds is the axis-aligned bounding box. Empty models report zero vectors.
func (m *Model) Bounds() (r3.Vector, r3.Vector) {
	return m.min, m.max
}

func (m *Model) Center() r3.Vector {
	return m.min.Add(m.max).Mul(0.5)
}

// LoadModel reads a model file of the form {"points": [[x, y, z], ...]}.
func LoadModel(path string) (*Model, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var j modelJSON
	err = json.Unmarshal(bytes, &j)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	positions := make([]r3.Vector, len(j.Points))
	for i, p := range j.Points {
		positions[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	return NewModel(positions), nil
}

func (m *Model) Save(path string) error {
	j := modelJSON{Points: make([][3]float64, len(m.points))}
	for i, p := range m.points {
		j.Points[i] = [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z}
	}
	bytes, err := json.Marshal(&j)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0644)
}
