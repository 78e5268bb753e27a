package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
	"github.com/tsbujacncl/solar-audio-sub001/cmd"
	"github.com/tsbujacncl/solar-audio-sub001/engine"
	"github.com/tsbujacncl/solar-audio-sub001/oto"
	"github.com/tsbujacncl/solar-audio-sub001/rack"
	"github.com/tsbujacncl/solar-audio-sub001/rpc"
	"github.com/tsbujacncl/solar-audio-sub001/version"
)

func main() {
	connect := flag.String("connect", "", "Address of a remote engine to control instead of running one locally.")
	serve := flag.Bool("serve", false, "Expose the local engine for remote control on port 31337.")
	play := flag.Bool("p", false, "Play the local engine output while editing.")
	midiInput := flag.String("midi-input", "", "Open the first MIDI input whose name starts with the given prefix.")
	firstMidi := flag.Bool("first-midi", false, "Open the first MIDI input.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	var (
		target solaraudio.Engine
		local  *engine.Engine
	)
	if *connect != "" {
		client, err := rpc.Dial(*connect)
		if err != nil {
			logger.Fatalf("could not connect to %v: %v", *connect, err)
		}
		defer client.Close()
		target = client
	} else {
		project := solaraudio.NewProject("untitled")
		project.Tracks = []solaraudio.ProjectTrack{{ID: 0, Name: "track 1", Type: "midi"}}
		if flag.NArg() > 0 {
			f, err := os.Open(flag.Arg(0))
			if err != nil {
				logger.Fatalf("could not open project: %v", err)
			}
			project, err = solaraudio.ReadProject(f)
			f.Close()
			if err != nil {
				logger.Fatalf("could not read project: %v", err)
			}
		}
		var err error
		local, err = engine.New(project)
		if err != nil {
			logger.Fatalf("could not build engine: %v", err)
		}
		target = local
		if *serve {
			if err := rpc.Serve(local, ""); err != nil {
				logger.Fatalf("could not serve: %v", err)
			}
		}
		midi := cmd.NewMIDIContext(local, firstTrackID(local))
		defer midi.Close()
		if *midiInput != "" || *firstMidi {
			if err := midi.TryToOpenBy(*midiInput, *firstMidi); err != nil {
				logger.Printf("%v", err)
			}
		}
		if *play {
			audioContext, err := oto.NewContext()
			if err != nil {
				logger.Fatalf("could not acquire oto AudioContext: %v", err)
			}
			defer audioContext.Close()
			go renderLoop(local, audioContext.Output())
		}
	}

	model := rack.NewModel(target, logger)
	if local != nil {
		model.SetTrack(firstTrackID(local))
	} else {
		model.SetTrack(0)
	}
	console(model, local, logger)
}

func firstTrackID(e *engine.Engine) int {
	if ids := e.TrackIDs(); len(ids) > 0 {
		return ids[0]
	}
	return 0
}

// renderLoop keeps the audio device fed. The sink blocks when the device
// buffer is full, so this loop runs at the speed of the hardware clock.
func renderLoop(e *engine.Engine, sink solaraudio.AudioSink) {
	buffer := make(solaraudio.AudioBuffer, 2*512)
	for {
		e.Render(buffer)
		if err := sink.WriteAudio(buffer); err != nil {
			return
		}
	}
}

func console(model *rack.Model, local *engine.Engine, logger *log.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("solar-rack console. Type 'help' for commands.")
	prompt(model)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			prompt(model)
			continue
		}
		switch fields[0] {
		case "help":
			printHelp()
		case "track":
			if id, ok := intArg(fields, 1); ok {
				model.SetTrack(id)
			}
		case "list":
			printEffects(model)
		case "add":
			if len(fields) < 2 {
				fmt.Println("usage: add <kind>")
				break
			}
			model.AddEffect(solaraudio.EffectKind(fields[1]))
			printEffects(model)
		case "rm":
			if id, ok := intArg(fields, 1); ok {
				model.RemoveEffect(id)
				printEffects(model)
			}
		case "set":
			if len(fields) < 4 {
				fmt.Println("usage: set <effect id> <param> <value>")
				break
			}
			id, err1 := strconv.Atoi(fields[1])
			value, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				fmt.Println("usage: set <effect id> <param> <value>")
				break
			}
			if err := model.SetParam(id, fields[2], value); err != nil {
				fmt.Println(err)
			}
			printEffects(model)
		case "bypass":
			id, ok1 := intArg(fields, 1)
			state, ok2 := intArg(fields, 2)
			if !ok1 || !ok2 {
				fmt.Println("usage: bypass <effect id> <0|1>")
				break
			}
			model.SetBypassed(id, state != 0)
			printEffects(model)
		case "kinds":
			for _, kind := range solaraudio.EffectKinds {
				fmt.Println(kind)
			}
		case "save":
			if local == nil {
				fmt.Println("cannot save when controlling a remote engine")
				break
			}
			if len(fields) < 2 {
				fmt.Println("usage: save <filename>")
				break
			}
			if err := saveProject(local, fields[1]); err != nil {
				fmt.Println(err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", fields[0])
		}
		prompt(model)
	}
	if err := scanner.Err(); err != nil {
		logger.Printf("reading stdin failed: %v", err)
	}
}

func prompt(model *rack.Model) {
	fmt.Printf("track %v> ", model.TrackID())
}

func intArg(fields []string, index int) (int, bool) {
	if index >= len(fields) {
		fmt.Println("missing argument")
		return 0, false
	}
	v, err := strconv.Atoi(fields[index])
	if err != nil {
		fmt.Printf("not a number: %q\n", fields[index])
		return 0, false
	}
	return v, true
}

func printEffects(model *rack.Model) {
	effects := model.Effects()
	if len(effects) == 0 {
		fmt.Println("(no effects)")
		return
	}
	for i, e := range effects {
		state := ""
		if e.Bypassed {
			state = " (bypassed)"
		}
		fmt.Printf("#%v %v%v\n", e.ID, e.Kind, state)
		for j := 0; j < model.NumParams(i); j++ {
			p, err := model.Param(i, j)
			if err != nil {
				continue
			}
			fmt.Printf("    %-12v %v\n", p.Name, p.Hint)
		}
	}
}

func saveProject(e *engine.Engine, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %v: %v", filename, err)
	}
	defer f.Close()
	asJSON := strings.HasSuffix(filename, ".json")
	if err := solaraudio.WriteProject(f, e.Project(), asJSON); err != nil {
		return err
	}
	fmt.Printf("saved %v\n", filename)
	return nil
}

func printHelp() {
	fmt.Print(`commands:
  track <id>                    switch to another track
  list                          list the effects of the current track
  kinds                         list the available effect kinds
  add <kind>                    add an effect to the current track
  rm <effect id>                remove an effect
  set <effect id> <param> <v>   set a parameter value
  bypass <effect id> <0|1>      toggle bypass
  save <filename>               save the project (.json or .yml)
  quit                          exit
`)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Solar Audio effect rack console.\nUsage: %s [flags] [project file]\n", os.Args[0])
	flag.PrintDefaults()
}
