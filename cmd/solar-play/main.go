package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
	"github.com/tsbujacncl/solar-audio-sub001/engine"
	"github.com/tsbujacncl/solar-audio-sub001/oto"
	"github.com/tsbujacncl/solar-audio-sub001/version"
)

const sampleRate = 44100

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the original project file is.")
	play := flag.Bool("p", false, "Play the audition render (default behaviour when no other output is defined).")
	seconds := flag.Float64("t", 4, "Length of the audition render in seconds.")
	notes := flag.String("n", "60,64,67", "Comma-separated MIDI notes held on every instrument track during the audition.")
	rawOut := flag.Bool("r", false, "Output the render as .raw file. By default, saves stereo float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the render as .wav file. By default, saves stereo float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	var audioContext *oto.Context
	if *play {
		var err error
		audioContext, err = oto.NewContext()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
		defer audioContext.Close()
	}
	auditionNotes, err := parseNotes(*notes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not parse notes: %v\n", err)
		os.Exit(1)
	}
	process := func(filename string) error {
		output := func(extension string, contents []byte) error {
			if *stdout {
				os.Stdout.Write(contents)
				return nil
			}
			dir, name := filepath.Split(filename)
			if *directory != "" {
				dir = *directory
			}
			name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
			f := filepath.Join(dir, name)
			if dir != "" {
				if err := os.MkdirAll(dir, os.ModePerm); err != nil {
					return fmt.Errorf("could not create output directory %v: %v", dir, err)
				}
			}
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		inputFile, err := os.Open(filename)
		if err != nil {
			return fmt.Errorf("could not open file %v: %v", filename, err)
		}
		project, err := solaraudio.ReadProject(inputFile)
		inputFile.Close()
		if err != nil {
			return err
		}
		buffer, err := audition(project, auditionNotes, *seconds)
		if err != nil {
			return err
		}
		if *rawOut {
			raw, err := buffer.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(".raw", raw); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := buffer.Wav(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(".wav", wav); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			sink := audioContext.Output()
			err := sink.WriteAudio(buffer)
			sink.Close()
			if err != nil {
				return fmt.Errorf("could not play audio: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			jsonfiles, err := filepath.Glob(filepath.Join(param, "*.json"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for json files: %v\n", param, err)
				retval = 1
				continue
			}
			ymlfiles, err := filepath.Glob(filepath.Join(param, "*.yml"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for yml files: %v\n", param, err)
				retval = 1
				continue
			}
			files := append(ymlfiles, jsonfiles...)
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

// audition renders the project with the given notes held on every midi
// track for the first half of the render, so that the effect chains and the
// mixer settings of the project can be heard.
func audition(project solaraudio.Project, notes []byte, seconds float64) (solaraudio.AudioBuffer, error) {
	e, err := engine.New(project)
	if err != nil {
		return nil, err
	}
	for _, t := range project.Tracks {
		if t.Type != "midi" {
			continue
		}
		for _, note := range notes {
			e.NoteOn(t.ID, note, 100)
		}
	}
	const blockFrames = 512
	totalFrames := int(seconds * sampleRate)
	buffer := make(solaraudio.AudioBuffer, 2*totalFrames)
	released := false
	for frame := 0; frame < totalFrames; frame += blockFrames {
		if !released && frame >= totalFrames/2 {
			for _, t := range project.Tracks {
				for _, note := range notes {
					e.NoteOff(t.ID, note)
				}
			}
			released = true
		}
		end := frame + blockFrames
		if end > totalFrames {
			end = totalFrames
		}
		e.Render(buffer[2*frame : 2*end])
	}
	return buffer, nil
}

func parseNotes(s string) ([]byte, error) {
	var notes []byte
	for _, token := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || n < 0 || n > 127 {
			return nil, fmt.Errorf("invalid MIDI note %q", token)
		}
		notes = append(notes, byte(n))
	}
	return notes, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Solar Audio command line utility for auditioning .json/.yml project files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
