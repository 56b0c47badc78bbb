package patterns

import (
	"fmt"
	"sort"

	"github.com/jinjor/lxpatterns/src/lx"
)

var constructors = map[string]func() lx.Pattern{
	"sine-palette": func() lx.Pattern { return NewSinePalette() },
	"square-flash": func() lx.Pattern { return NewSquareFlash() },
}

// New returns a fresh, uninitialized pattern.
func New(name string) (lx.Pattern, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
	return c(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
