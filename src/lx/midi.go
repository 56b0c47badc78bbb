package lx

import (
	"context"
	"log"
	"strings"

	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

// SelectPort picks the first port whose name contains want, ignoring case.
// An empty want selects the first port.
func SelectPort(names []string, want string) (int, bool) {
	if len(names) == 0 {
		return -1, false
	}
	if want == "" {
		return 0, true
	}
	want = strings.ToLower(want)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), want) {
			return i, true
		}
	}
	return -1, false
}

// ListenToMidiIn forwards raw messages from the controller port matching
// port. The channel is closed when ctx is done or no port can be opened.
func ListenToMidiIn(ctx context.Context, port string) <-chan []byte {
	ch := make(chan []byte, 1024)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer closeLogged("MIDI driver", drv.Close)

		in, ok := openControllerPort(drv, port)
		if !ok {
			return
		}
		defer closeLogged("controller port "+in.String(), in.Close)

		err = in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
				log.Println("WARN: controller buffer full, dropping message")
			}
		})
		if err != nil {
			log.Printf("failed to listen to %s: %v\n", in.String(), err)
			return
		}
		defer closeLogged("controller listener", in.StopListening)
		log.Printf("listening for control changes on %s\n", in.String())
		<-ctx.Done()
	}()
	return ch
}

func openControllerPort(drv *rtmididrv.Driver, port string) (midi.In, bool) {
	ins, err := drv.Ins()
	if err != nil {
		log.Printf("failed to list MIDI inputs: %v\n", err)
		return nil, false
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	i, ok := SelectPort(names, port)
	if !ok {
		log.Printf("WARN: no controller port matching %q in %v\n", port, names)
		return nil, false
	}
	in := ins[i]
	if err := in.Open(); err != nil {
		log.Printf("failed to open %s: %v\n", in.String(), err)
		return nil, false
	}
	return in, true
}

func closeLogged(what string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("failed to close %s: %v\n", what, err)
	}
}
