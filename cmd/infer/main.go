// Command infer reads a tabular file, infers a type for every column and
// prints the conversion result as JSON.
//
//	infer [-directives file.yaml] [-seed n] [-error-rate f] [-debug] <file>
//
// A directives file is a YAML list of field/type pairs:
//
//	- field: Score
//	  type: number
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/dataprocess/internal/core"
	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/ingest"
	"github.com/JonMunkholm/dataprocess/internal/logging"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "infer:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("infer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	directivesPath := fs.String("directives", "", "YAML file of column type directives")
	seed := fs.Uint64("seed", 0, "sampler seed (0 = random)")
	errorRate := fs.Float64("error-rate", infer.DefaultErrorRate, "fraction of values a converter may lose")
	debug := fs.Bool("debug", false, "log inference decisions and dump converted columns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *errorRate <= 0 || *errorRate > 1 {
		return fmt.Errorf("-error-rate %g must be in (0, 1]", *errorRate)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one file, got %d", fs.NArg())
	}
	path := fs.Arg(0)

	level := "warn"
	if *debug {
		level = "debug"
	}
	logger := logging.New(stderr, level, "text")

	directives, err := loadDirectives(*directivesPath, logger)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := ingest.Read(ctx, path, f, ingest.Options{})
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := infer.ValidateDirectives(raw, directives); err != nil {
		return err
	}

	opts := infer.DefaultOptions()
	opts.ErrorRate = *errorRate
	opts.Logger = logger
	if *seed != 0 {
		opts.Sampler = infer.NewSeededSampler(*seed)
	}
	converted := infer.New(opts).InferAndConvert(raw, directives...)

	if *debug {
		cfg := spew.ConfigState{Indent: "  ", MaxDepth: 3, DisablePointerAddresses: true}
		for _, col := range converted.Columns {
			fmt.Fprintf(stderr, "%s (%s): %s", col.Name, core.DFType(col), cfg.Sdump(col.Values[:min(len(col.Values), 5)]))
		}
	}

	res, err := core.BuildResult(uuid.New(), path, converted)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func loadDirectives(path string, logger *slog.Logger) ([]infer.Directive, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var directives []infer.Directive
	if err := yaml.Unmarshal(data, &directives); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("loaded directives", "path", path, "count", len(directives))
	return directives, nil
}
