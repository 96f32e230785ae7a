// Package options holds the command-line and config-file settings.
package options

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
)

// Options configures a run. Fields carry toml tags so a -config file can set
// any of them; explicitly given flags take precedence over the file.
type Options struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	Collapsed bool   `toml:"collapsed"` // start with the panel collapsed
	LogLevel  string `toml:"log_level"`

	// Record renders offscreen to OutputFile instead of opening the editor.
	Record     bool    `toml:"record"`
	Duration   float64 `toml:"duration"`
	FPS        int     `toml:"fps"`
	OutputFile string  `toml:"output"`
	FFmpegPath string  `toml:"ffmpeg"`

	Config string `toml:"-"`
}

// Defaults returns the built-in settings.
func Defaults() Options {
	return Options{
		Width:      1280,
		Height:     720,
		Title:      "shadertuner",
		LogLevel:   "info",
		Duration:   10.0,
		FPS:        60,
		OutputFile: "output.mp4",
	}
}

// Parse builds Options from command-line args (without the program name).
// Precedence, lowest first: defaults, the -config file, explicit flags.
// flag.ErrHelp is returned unwrapped when -h or -help is given.
func Parse(args []string, output io.Writer) (*Options, error) {
	d := Defaults()
	fv := d

	fs := flag.NewFlagSet("shadertuner", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&fv.Config, "config", "", "TOML file with settings")
	fs.IntVar(&fv.Width, "width", d.Width, "Width of the window or output")
	fs.IntVar(&fv.Height, "height", d.Height, "Height of the window or output")
	fs.StringVar(&fv.Title, "title", d.Title, "Window title prefix")
	fs.BoolVar(&fv.Collapsed, "collapsed", d.Collapsed, "Start with the parameter panel collapsed")
	fs.StringVar(&fv.LogLevel, "log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&fv.Record, "record", d.Record, "Enable recording mode")
	fs.Float64Var(&fv.Duration, "duration", d.Duration, "Duration to record in seconds")
	fs.IntVar(&fv.FPS, "fps", d.FPS, "Frames per second for recording")
	fs.StringVar(&fv.OutputFile, "output", d.OutputFile, "Output file name for recording")
	fs.StringVar(&fv.FFmpegPath, "ffmpeg", d.FFmpegPath, "Path to ffmpeg executable")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	o := d
	if fv.Config != "" {
		fileOpts, err := LoadFile(fv.Config)
		if err != nil {
			return nil, err
		}
		if err := copier.CopyWithOption(&o, &fileOpts, copier.Option{IgnoreEmpty: true}); err != nil {
			return nil, fmt.Errorf("failed to merge config %s: %w", fv.Config, err)
		}
		o.Config = fv.Config
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			o.Width = fv.Width
		case "height":
			o.Height = fv.Height
		case "title":
			o.Title = fv.Title
		case "collapsed":
			o.Collapsed = fv.Collapsed
		case "log-level":
			o.LogLevel = fv.LogLevel
		case "record":
			o.Record = fv.Record
		case "duration":
			o.Duration = fv.Duration
		case "fps":
			o.FPS = fv.FPS
		case "output":
			o.OutputFile = fv.OutputFile
		case "ffmpeg":
			o.FFmpegPath = fv.FFmpegPath
		}
	})

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// LoadFile reads Options from a TOML file. Unknown keys are an error.
func LoadFile(path string) (Options, error) {
	var o Options
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("failed to read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return o, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return o, nil
}

// Validate reports settings that cannot be used.
func (o *Options) Validate() error {
	var errs []error
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", o.Width, o.Height))
	}
	if _, err := o.Level(); err != nil {
		errs = append(errs, err)
	}
	if o.Record {
		if o.FPS <= 0 {
			errs = append(errs, fmt.Errorf("invalid fps %d", o.FPS))
		}
		if o.Duration <= 0 {
			errs = append(errs, fmt.Errorf("invalid duration %g", o.Duration))
		}
		if o.OutputFile == "" {
			errs = append(errs, errors.New("record mode needs an output file"))
		}
	}
	return errors.Join(errs...)
}

// Level returns LogLevel as a slog level.
func (o *Options) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	return l, nil
}
