package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golang/geo/r3"
	"github.com/jinjor/lxpatterns/src/config"
	"github.com/jinjor/lxpatterns/src/lx"
	"github.com/jinjor/lxpatterns/src/patterns"
	"golang.org/x/sync/errgroup"
)

var (
	configPath  = flag.String("config", "lxpatterns.json", "config file")
	patternName = flag.String("pattern", "", "pattern to run, one of "+strings.Join(patterns.Names(), ", "))
	modelPath   = flag.String("model", "", "model file")
	fps         = flag.Int("fps", 0, "frames per second")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	if *patternName != "" {
		cfg.Pattern = *patternName
	}
	if *modelPath != "" {
		cfg.Model = *modelPath
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine, err := newEngine(cfg)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer engine.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	// stdin reads cannot be interrupted, so this one stays outside the group
	go func(ctx context.Context) {
		err := receiveCommands(ctx, os.Stdin, engine.CommandCh)
		if err != nil {
			log.Printf("error while reading commands: %v", err)
		}
	}(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Start(ctx, cfg.FPS)
	})
	if cfg.Midi.Enabled {
		midiCh := lx.ListenToMidiIn(ctx, cfg.Midi.Port)
		g.Go(func() error {
			for data := range midiCh {
				engine.AddMidiEvent(data)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func newEngine(cfg *config.Config) (*lx.Engine, error) {
	model, err := lx.LoadModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d points from %s\n", model.Size(), cfg.Model)
	palette, err := newPalette(cfg.Palette, model)
	if err != nil {
		return nil, err
	}
	pattern, err := patterns.New(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	engine, err := lx.NewEngine(model, palette, pattern)
	if err != nil {
		return nil, err
	}
	engine.ApplyParametersJSON(cfg.ParameterJSON())
	for ccStr, key := range cfg.Midi.CC {
		cc, err := config.ParseCC(ccStr)
		if err != nil {
			return nil, err
		}
		if err := engine.MapCC(cc, key); err != nil {
			// the mapping may target another pattern's parameter
			log.Printf("skipping cc %d: %v\n", cc, err)
		}
	}
	return engine, nil
}

func newPalette(cfg config.PaletteConfig, model *lx.Model) (lx.Palette, error) {
	table := lx.RainbowTable()
	// rainbow keeps its own stops; only gradient and noise read the gpl file
	if cfg.Kind != config.PaletteRainbow && cfg.GPL != "" {
		t, err := lx.LoadGPL(cfg.GPL)
		if err != nil {
			return nil, err
		}
		table = t
	}
	switch cfg.Kind {
	case config.PaletteNoise:
		return lx.NewNoisePalette(table, cfg.Seed, cfg.Scale), nil
	default:
		axis := r3.Vector{X: cfg.Axis[0], Y: cfg.Axis[1], Z: cfg.Axis[2]}
		return lx.NewGradientPalette(table, axis, cfg.Spread, model), nil
	}
}

func receiveCommands(ctx context.Context, r io.Reader, commandCh chan<- []string) error {
	reader := bufio.NewReader(r)
	var line []byte
loop:
	for {
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		if len(line) == 0 {
			continue
		}
		command, err := parseCommand(string(line))
		line = []byte{}
		if err != nil {
			log.Printf("failed to parse command: %v\n", err)
			continue
		}
		select {
		case <-ctx.Done():
			log.Println("receiveCommands() interrupted")
			break loop
		case commandCh <- command:
		}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Fields(line)
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}
