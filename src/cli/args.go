package cli

import (
	"flag"
	"fmt"
	"io"

	"favicongen/src/config"
)

const usageText = `Usage: generate-favicons <source-image> <app-name> [output-folder] [flags]

Generates favicons, touch icons, Android home-screen icons and Windows tiles
from one source image, plus site.webmanifest, browserconfig.xml and
head-instructions.html.

Arguments:
  source-image    path to the source raster image (png, jpeg, gif, bmp, tiff, webp)
  app-name        application name used in the manifest and meta tags
  output-folder   destination folder (default "static")

Flags:
  -h, --help      show this help
  -v, --verbose   log every generated file
  -c, --config    YAML config file
  -w, --watch     regenerate when the source image changes
      --json      print the generation report as JSON
`

// Usage writes the usage text
func Usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// Options holds parsed command line input
type Options struct {
	Source     string
	Name       string
	OutputDir  string
	ConfigPath string
	Verbose    bool
	Watch      bool
	JSON       bool
	Help       bool
}

// ParseArgs parses arguments; flags may appear before, between or after positionals
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{}

	fs := flag.NewFlagSet("generate-favicons", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.Help, "h", false, "")
	fs.BoolVar(&opts.Help, "help", false, "")
	fs.BoolVar(&opts.Verbose, "v", false, "")
	fs.BoolVar(&opts.Verbose, "verbose", false, "")
	fs.StringVar(&opts.ConfigPath, "c", "", "")
	fs.StringVar(&opts.ConfigPath, "config", "", "")
	fs.BoolVar(&opts.Watch, "w", false, "")
	fs.BoolVar(&opts.Watch, "watch", false, "")
	fs.BoolVar(&opts.JSON, "json", false, "")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, &config.ValidationError{Message: err.Error()}
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	if opts.Help {
		return opts, nil
	}
	if len(positional) > 3 {
		return nil, &config.ValidationError{Message: fmt.Sprintf("too many arguments: %v", positional[3:])}
	}

	if len(positional) > 0 {
		opts.Source = positional[0]
	}
	if len(positional) > 1 {
		opts.Name = positional[1]
	}
	if len(positional) > 2 {
		opts.OutputDir = positional[2]
	}
	return opts, nil
}

// BuildConfig layers config file, environment and command line, in that order
func BuildConfig(opts *Options, envFiles ...string) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, &config.ValidationError{Field: "config", Message: err.Error()}
		}
		cfg = loaded
	}

	if err := config.LoadEnv(cfg, envFiles...); err != nil {
		return nil, &config.ValidationError{Field: "env", Message: err.Error()}
	}

	if opts.Source != "" {
		cfg.Source = opts.Source
	}
	if opts.Name != "" {
		cfg.Name = opts.Name
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Verbose {
		cfg.Verbose = true
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.CheckSource(); err != nil {
		return nil, err
	}
	return cfg, nil
}
