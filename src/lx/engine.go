package lx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"
)

const (
	defaultFPS     = 60
	framesPerStats = 1000
)

// ----- Host ----- //

// Host is what a pattern sees of the engine. Its methods are only valid
// from inside Init and Run.
type Host interface {
	Model() *Model
	Palette() Palette
	StartModulator(m Modulator)
	AddParameter(key string, p *BoundedParameter) error
}

// Pattern computes one color per model point each frame. Run must fully
// overwrite colors, which has one slot per point.
type Pattern interface {
	Init(host Host) error
	Run(deltaMs float64, colors []Color)
}

// ----- State ----- //

type state struct {
	sync.Mutex
	model      *Model
	palette    Palette
	pattern    Pattern
	params     *Parameters
	modulators []Modulator
	ccMap      map[uint8]string
	colors     []Color // length: model size
	frames     int64
}

type modulatorJSON struct {
	Kind    string  `json:"kind"`
	Running bool    `json:"running"`
	Value   float64 `json:"value"`
}

type stateJSON struct {
	Frames     int64           `json:"frames"`
	Parameters json.RawMessage `json:"parameters"`
	Modulators []modulatorJSON `json:"modulators"`
}

func (s *state) toJSON() json.RawMessage {
	mods := make([]modulatorJSON, len(s.modulators))
	for i, m := range s.modulators {
		kind := fmt.Sprintf("%T", m)
		if l, ok := m.(*LFO); ok {
			kind = l.String()
		}
		mods[i] = modulatorJSON{Kind: kind, Running: m.Running(), Value: m.Value()}
	}
	return toRawMessage(&stateJSON{
		Frames:     s.frames,
		Parameters: s.params.ToJSON(),
		Modulators: mods,
	})
}

// ----- Engine ----- //

// Engine hosts a single active pattern: it owns the model, the color buffer,
// the parameter registry and the modulators the pattern started.
// CommandCh is never closed; senders may outlive the engine.
type Engine struct {
	CommandCh chan []string
	state     *state
	done      chan struct{}
	closeOnce sync.Once
}

var _ Host = (*engineHost)(nil)

// engineHost gives the pattern access to state while the engine holds the lock.
type engineHost struct {
	s *state
}

func (h *engineHost) Model() *Model {
	return h.s.model
}

func (h *engineHost) Palette() Palette {
	return h.s.palette
}

func (h *engineHost) StartModulator(m Modulator) {
	m.Start()
	for _, started := range h.s.modulators {
		if started == m {
			return
		}
	}
	h.s.modulators = append(h.s.modulators, m)
}

func (h *engineHost) AddParameter(key string, p *BoundedParameter) error {
	return h.s.params.Add(key, p)
}

// NewEngine activates pattern against model. An Init error is returned as is.
func NewEngine(model *Model, palette Palette, pattern Pattern) (*Engine, error) {
	s := &state{
		model:   model,
		palette: palette,
		pattern: pattern,
		params:  NewParameters(),
		ccMap:   make(map[uint8]string),
		colors:  make([]Color, model.Size()),
	}
	err := pattern.Init(&engineHost{s: s})
	if err != nil {
		return nil, fmt.Errorf("failed to init pattern: %w", err)
	}
	commandCh := make(chan []string, 256)
	e := &Engine{
		CommandCh: commandCh,
		state:     s,
		done:      make(chan struct{}),
	}
	go processCommands(e, commandCh, e.done)
	return e, nil
}

func processCommands(e *Engine, commandCh <-chan []string, done <-chan struct{}) {
	for {
		select {
		case <-done:
			log.Println("processCommands() ended.")
			return
		case command := <-commandCh:
			select {
			case <-done:
				log.Println("processCommands() ended.")
				return
			default:
			}
			err := e.update(command)
			if err != nil {
				log.Printf("failed to process command %v: %v", command, err)
			}
		}
	}
}

// Frame advances every started modulator by deltaMs, then runs the pattern.
func (e *Engine) Frame(deltaMs float64) {
	e.state.Lock()
	defer e.state.Unlock()
	for _, m := range e.state.modulators {
		m.Advance(deltaMs)
	}
	e.state.pattern.Run(deltaMs, e.state.colors)
	e.state.frames++
}

// Colors returns a copy of the last rendered frame.
func (e *Engine) Colors() []Color {
	e.state.Lock()
	defer e.state.Unlock()
	colors := make([]Color, len(e.state.colors))
	copy(colors, e.state.colors)
	return colors
}

func (e *Engine) Frames() int64 {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.frames
}

func (e *Engine) Parameters() *Parameters {
	return e.state.params
}

func (e *Engine) ApplyParametersJSON(data json.RawMessage) {
	e.state.Lock()
	defer e.state.Unlock()
	e.state.params.ApplyJSON(data)
}

func (e *Engine) ToJSON() []byte {
	e.state.Lock()
	defer e.state.Unlock()
	bytes, err := json.Marshal(e.state.toJSON())
	if err != nil {
		panic(err)
	}
	return bytes
}

// MapCC routes a MIDI control change number to a parameter.
func (e *Engine) MapCC(cc uint8, key string) error {
	e.state.Lock()
	defer e.state.Unlock()
	if _, ok := e.state.params.Get(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, key)
	}
	e.state.ccMap[cc] = key
	return nil
}

// AddMidiEvent applies control change messages to mapped parameters.
func (e *Engine) AddMidiEvent(data []byte) {
	if len(data) < 3 || data[0]>>4 != 0xb {
		return
	}
	e.state.Lock()
	defer e.state.Unlock()
	key, ok := e.state.ccMap[data[1]]
	if !ok {
		return
	}
	p, _ := e.state.params.Get(key)
	p.SetNormalized(float64(data[2]) / 127)
	log.Printf("got control change: %v -> %s\n", data, p)
}

func (e *Engine) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	e.state.Lock()
	defer e.state.Unlock()

	switch command[0] {
	case "set":
		command = command[1:]
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.state.params.Set(command[0], command[1])
	case "cc":
		command = command[1:]
		if len(command) != 2 {
			return fmt.Errorf("invalid cc mapping %v", command)
		}
		cc, err := strconv.ParseUint(command[0], 10, 7)
		if err != nil {
			return err
		}
		if _, ok := e.state.params.Get(command[1]); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParameter, command[1])
		}
		e.state.ccMap[uint8(cc)] = command[1]
	case "reset":
		for _, m := range e.state.modulators {
			if r, ok := m.(interface{ Reset() }); ok {
				r.Reset()
			}
		}
	case "dump":
		log.Printf("state: %s\n", e.state.toJSON())
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// Close stops command processing. Commands sent afterwards are dropped.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		log.Println("Closing Engine...")
		close(e.done)
	})
	return nil
}

// Start renders frames at fps until ctx is cancelled.
func (e *Engine) Start(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = defaultFPS
	}
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()
	last := time.Now()
	checkPoint := last
	frameCount := 0
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Start() interrupted")
			break loop
		case now := <-t.C:
			e.Frame(float64(now.Sub(last)) / float64(time.Millisecond))
			last = now
			frameCount++
			if frameCount%framesPerStats == 0 {
				log.Printf("Avg FPS for past %d frames: %.1f\n", framesPerStats, framesPerStats/now.Sub(checkPoint).Seconds())
				checkPoint = now
			}
		}
	}
	log.Println("Start() ended.")
	return nil
}
