package patterns

import (
	"github.com/jinjor/lxpatterns/src/lx"
)

// SinePalette sweeps the palette phase with a sine LFO whose period is the
// "period" parameter. thing1 and thing2 are registered but not read.
type SinePalette struct {
	period  *lx.BoundedParameter
	thing1  *lx.BoundedParameter
	thing2  *lx.BoundedParameter
	lfo     *lx.LFO
	model   *lx.Model
	palette lx.Palette
}

var _ lx.Pattern = (*SinePalette)(nil)

func NewSinePalette() *SinePalette {
	return &SinePalette{}
}

func (p *SinePalette) Init(host lx.Host) error {
	var err error
	if p.period, err = lx.NewBoundedParameter("Period", 2000, 5000); err != nil {
		return err
	}
	if p.thing1, err = lx.NewBoundedParameter("Thing1", 2000, 5000); err != nil {
		return err
	}
	if p.thing2, err = lx.NewBoundedParameter("Thing2", 2000, 5000); err != nil {
		return err
	}
	if p.lfo, err = lx.NewSinLFO(0, 255, lx.ParameterPeriod(p.period)); err != nil {
		return err
	}
	p.model = host.Model()
	p.palette = host.Palette()

	host.StartModulator(p.lfo)
	for _, kv := range []struct {
		key   string
		param *lx.BoundedParameter
	}{
		{"period", p.period},
		{"thing1", p.thing1},
		{"thing2", p.thing2},
	} {
		if err := host.AddParameter(kv.key, kv.param); err != nil {
			return err
		}
	}
	return nil
}

func (p *SinePalette) Run(deltaMs float64, colors []lx.Color) {
	phase := p.lfo.Value() * 100 / 255
	for i, point := range p.model.Points() {
		colors[i] = p.palette.Color(point, phase)
	}
}
