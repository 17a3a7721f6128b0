// Command seedrand writes reproducible random values as text, one per
// line.
//
// The engine position can be saved to a descriptor file with -save and
// resumed from it with -restore, so a long stream can be produced in
// several runs.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cheggaaa/pb/v3"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/opd-ai/go-seedrand"
	"github.com/opd-ai/go-seedrand/internal/config"
	"github.com/opd-ai/go-seedrand/internal/logging"
	"github.com/opd-ai/go-seedrand/internal/uniformity"
)

// batchSize is the number of values drawn per AppendText call.
const batchSize = 4096

type options struct {
	configPath string
	restore    string
	save       string
	out        string
	zstd       bool
	progress   bool
	check      bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "seedrand: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seedrand", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	seed := fs.String("seed", "", "Seed (empty for OS entropy)")
	seedType := fs.String("seed-type", config.SeedAuto, "Seed interpretation: auto, int or string")
	kind := fs.String("kind", seedrand.KindFloat64.String(), "Value kind")
	count := fs.Int("n", 10, "Number of values")
	jump := fs.Int64("jump", 0, "Jump ahead this many core units before drawing")
	fs.StringVar(&opts.restore, "restore", "", "Resume from a descriptor JSON file")
	fs.StringVar(&opts.save, "save", "", "Write the final descriptor JSON to this file")
	fs.StringVar(&opts.out, "out", "", "Output file (default stdout)")
	fs.BoolVar(&opts.zstd, "zstd", false, "Compress the output with zstd")
	fs.BoolVar(&opts.progress, "progress", false, "Show a progress bar on stderr")
	fs.BoolVar(&opts.check, "check", false, "Run a uniformity check on float output")
	logLevel := fs.String("log-level", "", "Log level")
	logFormat := fs.String("log-format", "", "Log format: console or json")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	// Explicit flags win over the file and the environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "seed-type":
			cfg.SeedType = *seedType
		case "kind":
			cfg.Kind = *kind
		case "n":
			cfg.Count = *count
		case "jump":
			cfg.Jump = *jump
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	seedrand.SetLogger(log)

	return generate(cfg, opts, stdout, stderr, log)
}

func generate(cfg config.Config, opts options, stdout, stderr io.Writer, log zerolog.Logger) error {
	kind, err := seedrand.ParseKind(cfg.Kind)
	if err != nil {
		return err
	}
	e, err := openEngine(cfg, opts.restore)
	if err != nil {
		return err
	}
	if cfg.Jump > 0 {
		if err := e.Jump(cfg.Jump); err != nil {
			return err
		}
	}

	var w io.Writer = stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	w = bw
	var zw *zstd.Encoder
	if opts.zstd {
		if zw, err = zstd.NewWriter(bw); err != nil {
			return err
		}
		w = zw
	}

	bar := pb.New(cfg.Count)
	bar.SetWriter(stderr)
	if opts.progress {
		bar.Start()
	}

	var samples []float64
	check := opts.check && kind.IsFloat()
	if opts.check && !check {
		log.Warn().Str("kind", kind.String()).Msg("uniformity check needs a float kind, skipped")
	}

	buf := make([]byte, 0, batchSize*24)
	for left := cfg.Count; left > 0; {
		n := min(left, batchSize)
		if buf, err = e.AppendText(buf[:0], kind, n); err != nil {
			return err
		}
		if check {
			if samples, err = appendSamples(samples, buf, kind); err != nil {
				return err
			}
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
		left -= n
		bar.Add(n)
	}
	if opts.progress {
		bar.Finish()
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	d := e.Descriptor()
	log.Info().Int("count", cfg.Count).Str("kind", kind.String()).Str("descriptor", d.String()).Msg("generated")

	if opts.save != "" {
		if err := saveDescriptor(opts.save, d); err != nil {
			return err
		}
	}
	if check {
		r, err := uniformity.Check(samples)
		if err != nil {
			return err
		}
		fmt.Fprintln(stderr, r)
		if !r.Pass(0.001) {
			return fmt.Errorf("uniformity check failed: %v", r)
		}
	}
	return nil
}

// openEngine restores from the descriptor file at path, or seeds a new
// engine from cfg when path is empty.
func openEngine(cfg config.Config, path string) (*seedrand.Engine, error) {
	if path == "" {
		seed, err := cfg.SeedValue()
		if err != nil {
			return nil, err
		}
		return seedrand.New(seed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	var d seedrand.Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	return seedrand.Restore(d)
}

func saveDescriptor(path string, d seedrand.Descriptor) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// appendSamples parses the lines in text as floats shifted into [0,1).
func appendSamples(samples []float64, text []byte, kind seedrand.Kind) ([]float64, error) {
	for _, line := range bytes.Split(bytes.TrimSuffix(text, []byte("\n")), []byte("\n")) {
		v, err := strconv.ParseFloat(string(line), 64)
		if err != nil {
			return samples, err
		}
		if kind == seedrand.KindFloat64OneTwo {
			v -= 1
		}
		samples = append(samples, v)
	}
	return samples, nil
}
