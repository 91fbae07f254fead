// Command oilc composes WGSL shader modules.
//
// Usage:
//
//	oilc [options] <main.wgsl>
//	oilc -manifest compose.yaml
//
// Examples:
//
//	oilc shader.wgsl                       # Preprocess and validate
//	oilc -D WIREFRAME shader.wgsl          # Activate a shader def
//	oilc -D MAX_LIGHTS=8 -o out.wgsl shader.wgsl
//	oilc -manifest compose.yaml            # Register modules, then compose
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"

	"github.com/gogpu/oil"
)

var (
	output   = flag.String("o", "", "output file (default: stdout)")
	manifest = flag.String("manifest", "", "composition manifest (yaml)")
	verbose  = flag.Bool("v", false, "log module registrations")
	version  = flag.Bool("version", false, "print version")
)

const oilVersion = "0.1.0-dev"

func main() {
	var defs defineFlags
	flag.Var(&defs, "D", "activate a shader def, NAME or NAME=value (repeatable)")
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("oilc version %s\n", oilVersion)
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	composer := oil.NewComposer(oil.WithLogger(logger))

	var err error
	var artifact *oil.Artifact
	switch {
	case *manifest != "":
		artifact, err = composeManifest(composer, *manifest, defs)
	case flag.NArg() == 1:
		artifact, err = composeFile(composer, flag.Arg(0), defs)
	default:
		fmt.Fprintln(os.Stderr, "Error: expected one input file or -manifest")
		usage()
		os.Exit(1)
	}
	if err != nil {
		fail(err, composer)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(artifact.WGSL()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Composed %d module(s) to %s\n", len(artifact.Modules()), *output)
	} else {
		fmt.Print(artifact.WGSL())
	}
}

func composeFile(composer *oil.Composer, path string, defs defineFlags) (*oil.Artifact, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return composer.Make(oil.ModuleDescriptor{
		Source:    string(source),
		Activated: defs.activated,
		DefValues: defs.values,
	})
}

// fail renders the failure and exits. Diagnostics get the reporter
// treatment with a colored headline; plain errors are printed as-is.
func fail(err error, composer *oil.Composer) {
	var diag *oil.Diagnostic
	if errors.As(err, &diag) {
		out := termenv.NewOutput(os.Stderr)
		header := out.String("composition failed").Bold().Foreground(out.Color("9"))
		fmt.Fprintln(os.Stderr, header)
		fmt.Fprint(os.Stderr, oil.Reporter{}.Render(diag, composer.Registry()))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: oilc [options] <main.wgsl>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  oilc shader.wgsl                 Compose to stdout\n")
	fmt.Fprintf(os.Stderr, "  oilc -D WIREFRAME shader.wgsl    Activate a shader def\n")
	fmt.Fprintf(os.Stderr, "  oilc -manifest compose.yaml      Compose a module manifest\n")
}
