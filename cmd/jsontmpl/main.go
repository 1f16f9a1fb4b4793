// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Command jsontmpl generates JSON templates from type declarations.
//
// Usage:
//
//	jsontmpl [flags] <type>[,<type>...]
//
// Flags:
//
//	-provider    source, catalog or auto (default: auto)
//	-dir         Package directory for the source provider (default: .)
//	-pkg         Comma-separated package patterns (default: ./...)
//	-tags        Comma-separated build tags
//	-catalog     Descriptor document (YAML or JSON)
//	-config      Configuration file (YAML or JSON)
//	-depth       Maximum nesting depth (default: 5)
//	-format      Output format: json or yaml (default: json)
//	-o           Output file or directory (default: stdout)
//	-copy        Copy the output to the clipboard
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/jsontmpl/descriptor"
	"github.com/albertocavalcante/jsontmpl/internal/catalog"
	"github.com/albertocavalcante/jsontmpl/internal/config"
	"github.com/albertocavalcante/jsontmpl/internal/logging"
	"github.com/albertocavalcante/jsontmpl/internal/source"
	"github.com/albertocavalcante/jsontmpl/render"
	"github.com/albertocavalcante/jsontmpl/template"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath  string
	catalogPath string
	dir         string
	patterns    string
	dirSet      bool
	output      string
	copy        bool
	verbose     bool
	types       []string
}

func run() error {
	cfg := config.New()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help")

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Configuration file (YAML or JSON)")
	flag.StringVar(&opts.catalogPath, "catalog", "", "Descriptor document (YAML or JSON, - for stdin)")
	flag.StringVar(&opts.dir, "dir", ".", "Package directory for the source provider")
	flag.StringVar(&opts.patterns, "pkg", "./...", "Comma-separated package patterns")
	flag.StringVar(&opts.output, "o", "", "Output file or directory (default: stdout)")
	flag.BoolVar(&opts.copy, "copy", false, "Copy the output to the clipboard")
	flag.BoolVar(&opts.verbose, "verbose", false, "Verbose output")
	typeList := flag.String("t", "", "Comma-separated types to generate")
	flag.String("provider", cfg.Provider, "Descriptor provider: source, catalog or auto")
	flag.String("tags", "", "Comma-separated build tags")
	flag.Int("depth", cfg.MaxDepth, "Maximum nesting depth")
	flag.String("format", cfg.Format, "Output format")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `jsontmpl - JSON Template Generator

Generate a JSON template from a type declaration: every field under its
serialized name, documented fields as ${comment} placeholders.

Usage:
  jsontmpl [flags] <type>[,<type>...]

Flags:
  -provider string   Descriptor provider: source, catalog or auto (default: auto)
  -dir string        Package directory for the source provider (default: .)
  -pkg string        Comma-separated package patterns (default: ./...)
  -tags string       Comma-separated build tags
  -catalog string    Descriptor document (YAML or JSON, - for stdin)
  -config string     Configuration file (YAML or JSON)
  -depth int         Maximum nesting depth (default: %d)
  -format string     Output format: %s (default: json)
  -t string          Comma-separated types to generate
  -o string          Output file or directory (default: stdout)
  -copy              Copy the output to the clipboard
  -verbose           Verbose output
  -version           Show version information
  -help              Show this help

Formats:
%s
Examples:
  # Template of a Go type in the current module
  jsontmpl Order

  # Several types, one file each
  jsontmpl -o ./templates/ Order,Customer

  # Types declared in a descriptor document, as YAML
  jsontmpl -catalog ./model.yaml -format yaml com.example.Person

  # Copy a template to the clipboard
  jsontmpl -copy -dir ./api example.com/shop.Page[example.com/shop.Item]

`, template.DefaultMaxDepth, strings.Join(render.List(), ", "), formatList())
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		return nil
	}

	if *showVersion {
		fmt.Printf("jsontmpl %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	}

	if opts.configPath != "" {
		if err := cfg.LoadFile(opts.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	// Flags override the configuration file.
	flag.Visit(func(f *flag.Flag) { applyFlag(cfg, &opts, f) })
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg, opts.verbose)
	if opts.configPath != "" {
		logger.Debug("loaded config", "path", opts.configPath)
	}

	opts.types = append(splitTypes(*typeList), splitTypes(strings.Join(flag.Args(), ","))...)
	if len(opts.types) == 0 {
		flag.Usage()
		return errors.New("no type given")
	}

	renderer, ok := render.Get(cfg.Format)
	if !ok {
		return fmt.Errorf("unknown format %q (available: %s)", cfg.Format, strings.Join(render.List(), ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := newProvider(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}

	results, err := generate(ctx, provider, cfg, opts.types, logger)
	if err != nil {
		return err
	}
	for _, res := range results {
		for _, w := range res.Warnings {
			logger.Warn(w.Message, "type", w.TypeName, "field", w.Field, "code", w.Code)
		}
	}

	return emit(renderer, render.Config{Indent: cfg.Indent, Options: cfg.Options}, results, opts, logger)
}

// applyFlag applies a flag set on the command line over the
// configuration file. -tags replaces the configured build tags.
func applyFlag(cfg *config.Config, opts *options, f *flag.Flag) {
	switch f.Name {
	case "provider":
		cfg.Provider = f.Value.String()
	case "depth":
		cfg.MaxDepth = f.Value.(flag.Getter).Get().(int)
	case "format":
		cfg.Format = f.Value.String()
	case "tags":
		cfg.BuildTags = splitList(f.Value.String())
	case "dir":
		opts.dirSet = true
	}
}

// newLogger builds the logger from the logLevel and logFormat settings.
// -verbose forces the debug level.
func newLogger(cfg *config.Config, verbose bool) *log.Logger {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.JSON = cfg.LogFormat == config.LogFormatJSON
	if verbose {
		logCfg.Level = log.DebugLevel
	}
	return logging.New(logCfg)
}

// formatList describes the embedded renderers, one per line.
func formatList() string {
	var sb strings.Builder
	for _, r := range render.All() {
		meta := r.Metadata()
		fmt.Fprintf(&sb, "  %-18s %s\n", meta.Name, meta.Description)
	}
	return sb.String()
}

// newProvider builds the descriptor provider selected by cfg. In auto
// mode a catalog given together with an explicit -dir is consulted first,
// with the Go packages as fallback for the types it does not declare.
func newProvider(ctx context.Context, cfg *config.Config, opts options, logger *log.Logger) (descriptor.Provider, error) {
	if cfg.Provider == config.ProviderCatalog && opts.catalogPath == "" {
		return nil, errors.New("the catalog provider needs -catalog")
	}
	var cat descriptor.Provider
	if cfg.Provider != config.ProviderSource && opts.catalogPath != "" {
		p, err := loadCatalog(cfg, opts, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Provider == config.ProviderCatalog || !opts.dirSet {
			return p, nil
		}
		cat = p
	}
	src, err := loadSource(ctx, cfg, opts, logger)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return src, nil
	}
	logger.Debug("chaining providers", "first", opts.catalogPath, "then", opts.dir)
	return descriptor.Chain(cat, src), nil
}

func loadCatalog(cfg *config.Config, opts options, logger *log.Logger) (*catalog.Catalog, error) {
	doc, err := catalog.Load(opts.catalogPath)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(doc, catalog.Options{
		Preset:          cfg.Conventions.Preset,
		LibraryPrefixes: cfg.Conventions.LibraryPrefixes,
		Collections:     cfg.Conventions.Collections,
		Maps:            cfg.Conventions.Maps,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", opts.catalogPath, err)
	}
	for _, missing := range cat.Missing() {
		logger.Warn("referenced type is not declared", "type", missing)
	}
	logger.Debug("loaded catalog", "path", opts.catalogPath, "types", len(cat.Names()))
	return cat, nil
}

func loadSource(ctx context.Context, cfg *config.Config, opts options, logger *log.Logger) (*source.Provider, error) {
	conv, err := cfg.BuildConventions(descriptor.PresetGo)
	if err != nil {
		return nil, err
	}
	logger.Debug("loading packages", "dir", opts.dir, "patterns", opts.patterns)
	p, err := source.Load(ctx, source.Config{
		Dir:         opts.dir,
		Patterns:    splitList(opts.patterns),
		Tags:        cfg.BuildTags,
		DocTag:      cfg.DocTag,
		Conventions: conv,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded packages", "packages", len(p.Packages()), "types", len(p.Names()))
	return p, nil
}

// reacher is implemented by providers that can list the declared types a
// root depends on.
type reacher interface {
	Reachable(root descriptor.TypeRef) []string
}

// generate builds the templates of names concurrently. Results keep the
// order of names.
func generate(ctx context.Context, p descriptor.Provider, cfg *config.Config, names []string, logger *log.Logger) ([]*template.Result, error) {
	gen := template.New(p, template.Options{MaxDepth: cfg.MaxDepth})
	results := make([]*template.Result, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			ref, err := descriptor.Lookup(p, name)
			if err != nil {
				return err
			}
			if r, ok := p.(reacher); ok && logger.GetLevel() <= log.DebugLevel {
				logger.Debug("generating", "type", ref, "declared", r.Reachable(ref))
			}
			res, err := gen.Generate(ctx, ref)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// emit renders the results to the selected sinks. A single result renders
// as is; several results render as one object keyed by type, or as one
// file per type when the output is a directory.
func emit(r render.Renderer, rcfg render.Config, results []*template.Result, opts options, logger *log.Logger) error {
	ext := r.Metadata().FileExtension

	if opts.output != "" && (strings.HasSuffix(opts.output, "/") || isDir(opts.output)) {
		out := render.NewOutput()
		for _, res := range results {
			data, err := r.Render(res.Value, rcfg)
			if err != nil {
				return fmt.Errorf("render %s: %w", res.Type, err)
			}
			out.Add(fileName(res.Type, ext), data)
		}
		if err := out.WriteDir(opts.output); err != nil {
			return err
		}
		for _, name := range out.Names() {
			logger.Info("wrote", "path", filepath.Join(opts.output, name))
		}
		return nil
	}

	v := results[0].Value
	if len(results) > 1 {
		fields := make([]template.Field, len(results))
		for i, res := range results {
			fields[i] = template.Field{Name: res.Type.String(), Value: res.Value}
		}
		v = template.Object(fields...)
	}
	data, err := r.Render(v, rcfg)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	switch {
	case opts.output != "":
		if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("wrote", "path", opts.output)
	case !opts.copy:
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if opts.copy {
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		logger.Info("copied to clipboard", "bytes", len(data))
	}
	return nil
}

// fileName names the output file of ref: its simple name, followed by the
// simple names of its arguments. ext includes the leading dot.
func fileName(ref descriptor.TypeRef, ext string) string {
	parts := []string{descriptor.SimpleName(ref.Name)}
	for _, a := range ref.Args {
		parts = append(parts, descriptor.SimpleName(a.Name))
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, strings.Join(parts, "_"))
	return name + ext
}

// splitTypes splits a comma-separated list of type expressions, keeping
// the commas between generic arguments.
func splitTypes(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	var types []string
	for _, t := range out {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
