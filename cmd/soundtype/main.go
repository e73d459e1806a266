package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/sqweek/dialog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cbegin/soundtype-go"
	"github.com/cbegin/soundtype-go/internal/wav"
)

const defaultText = "soundtype"

func main() {
	var (
		textInline  = flag.String("text", "", "text to turn into a melody")
		textPath    = flag.String("file", "", "path to a text file")
		presetID    = flag.String("preset", "piano", "instrument preset (see -list)")
		outPath     = flag.String("out", "", "output WAV path (default "+soundtype.DefaultFilename+")")
		saveDialog  = flag.Bool("save-dialog", false, "ask for the output file name")
		play        = flag.Bool("play", false, "play the melody live")
		interactive = flag.Bool("interactive", false, "play a note for each key typed; Enter plays the line")
		allDir      = flag.String("all", "", "render one WAV per preset into this directory")
		inspectPath = flag.String("inspect", "", "print the format of a WAV file and exit")
		list        = flag.Bool("list", false, "list presets and exit")
		backendName = flag.String("backend", "ebiten", "live audio backend: ebiten|oto|headless")
		sampleRate  = flag.Int("sample-rate", soundtype.DefaultSampleRate, "sample rate")
		channels    = flag.Int("channels", soundtype.DefaultChannels, "channels in the WAV file")
		nfc         = flag.Bool("nfc", true, "normalize text to NFC before mapping")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *inspectPath != "" {
		if err := inspectFile(*inspectPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	backend, err := soundtype.BackendByName(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	engine, err := soundtype.NewEngine(
		soundtype.WithSampleRate(*sampleRate),
		soundtype.WithChannels(*channels),
		soundtype.WithBackend(backend),
		soundtype.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	if *list {
		listPresets(engine)
		return
	}
	p, err := engine.Preset(*presetID)
	if err != nil {
		log.Fatal(err)
	}

	if *interactive {
		if err := runInteractive(engine, p.ID); err != nil {
			log.Fatal(err)
		}
		return
	}

	text, err := resolveText(*textPath, *textInline)
	if err != nil {
		log.Fatal(err)
	}
	if *nfc {
		text = norm.NFC.String(text)
	}

	if *allDir != "" {
		if err := exportAll(engine, text, *allDir); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *play {
		if err := engine.PlayText(text, p.ID); err != nil {
			log.Fatal(err)
		}
		engine.Wait()
		// Let the last note ring out.
		time.Sleep(time.Duration(p.Envelope.Duration()*float64(time.Second)) + 100*time.Millisecond)
		if *outPath == "" && !*saveDialog {
			return
		}
	}

	path := *outPath
	if *saveDialog {
		path, err = dialog.File().Filter("WAV audio", "wav").SetStartFile(soundtype.DefaultFilename).Title("Save melody").Save()
		if errors.Is(err, dialog.ErrCancelled) {
			fmt.Println("save cancelled")
			return
		}
		if err != nil {
			log.Fatal(err)
		}
	}
	if path == "" {
		path = soundtype.DefaultFilename
	}
	if err := writeMelody(engine, text, p.ID, path); err != nil {
		log.Fatal(err)
	}
}

func resolveText(path string, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return defaultText, nil
}

func writeMelody(engine *soundtype.Engine, text, presetID, path string) error {
	data, err := engine.RenderWAV(text, presetID)
	if err != nil {
		return err
	}
	if data == nil {
		fmt.Println("empty text; nothing to write")
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	d := wavLength(data, engine.SampleRate(), engine.Channels())
	fmt.Printf("wrote %s (%s, %s)\n", path, humanize.Bytes(uint64(len(data))), durafmt.Parse(d).LimitFirstN(2))
	return nil
}

// wavLength is the playing time of an encoded file, taken from its data chunk.
func wavLength(data []byte, sampleRate, channels int) time.Duration {
	frames := (len(data) - wav.HeaderSize) / (channels * wav.BitsPerSample / 8)
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

func listPresets(engine *soundtype.Engine) {
	title := cases.Title(language.BrazilianPortuguese)
	for _, p := range engine.Presets() {
		env := p.Envelope
		fmt.Printf("%-13s %-12s %-9s %8.2f Hz  A%.2f D%.2f S%.2f R%.2f\n",
			p.ID, p.Name, title.String(string(p.Waveform)), p.BaseFreq,
			env.Attack, env.Decay, env.Sustain, env.Release)
	}
}

func inspectFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := wav.Inspect(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	seconds := float64(info.Frames()) / float64(max(info.SampleRate, 1))
	fmt.Printf("%s: format=%d channels=%d rate=%d Hz bits=%d frames=%d data=%s length=%s\n",
		path, info.AudioFormat, info.Channels, info.SampleRate, info.BitDepth, info.Frames(),
		humanize.Bytes(uint64(info.DataBytes)),
		durafmt.Parse(time.Duration(seconds*float64(time.Second))).LimitFirstN(2))
	return nil
}
