package patterns

import (
	"github.com/jinjor/lxpatterns/src/lx"
)

const flashBase lx.Color = 0xff00ff00

// SquareFlash fills every slot with the same color, stepping between two
// values once per half second.
type SquareFlash struct {
	lfo *lx.LFO
}

var _ lx.Pattern = (*SquareFlash)(nil)

func NewSquareFlash() *SquareFlash {
	return &SquareFlash{}
}

func (p *SquareFlash) Init(host lx.Host) error {
	lfo, err := lx.NewSquareLFO(0, 255, lx.FixedPeriod(1000))
	if err != nil {
		return err
	}
	p.lfo = lfo
	host.StartModulator(p.lfo)
	return nil
}

func (p *SquareFlash) Run(deltaMs float64, colors []lx.Color) {
	c := flashBase + lx.Color(p.lfo.Value())
	for i := range colors {
		colors[i] = c
	}
}
