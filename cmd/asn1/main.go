package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/urfave/cli/v2"

	"github.com/jacoelho/asn1"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	var stopCPUProfile func() error
	app := &cli.App{
		Name:            "asn1",
		Usage:           "compile ASN.1 descriptors and render values as GSER",
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
			&cli.StringFlag{Name: "cpuprofile", Usage: "write CPU profile to `FILE`"},
			&cli.StringFlag{Name: "memprofile", Usage: "write memory profile to `FILE`"},
		},
		Before: func(c *cli.Context) error {
			path := c.String("cpuprofile")
			if path == "" {
				return nil
			}
			stop, err := startCPUProfile(path)
			if err != nil {
				if writeErr := writef(stderr, "error starting CPU profile: %v\n", err); writeErr != nil {
					return cli.Exit("", 1)
				}
				return cli.Exit("", 1)
			}
			stopCPUProfile = stop
			return nil
		},
		After: func(c *cli.Context) error {
			if stopCPUProfile != nil {
				if err := stopCPUProfile(); err != nil {
					_ = writef(stderr, "error stopping CPU profile: %v\n", err)
				}
			}
			if path := c.String("memprofile"); path != "" {
				if err := writeMemProfile(path); err != nil {
					_ = writef(stderr, "error writing memory profile: %v\n", err)
				}
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "types",
				Usage: "print the compiled tree of each type",
				Flags: []cli.Flag{
					specFlag(),
					&cli.StringFlag{Name: "type", Usage: "print only the type `NAME`"},
				},
				Action: func(c *cli.Context) error {
					return runTypes(c, stdout, stderr)
				},
			},
			{
				Name:  "values",
				Usage: "render every value assignment",
				Flags: []cli.Flag{
					specFlag(),
					&cli.IntFlag{Name: "indent", Usage: "pretty print with `N` spaces per level"},
					&cli.StringFlag{Name: "module", Usage: "render only values of module `M`"},
				},
				Action: func(c *cli.Context) error {
					return runValues(c, stdout, stderr)
				},
			},
		},
		Action: func(c *cli.Context) error {
			if err := cli.ShowAppHelp(c); err != nil {
				return err
			}
			if c.Args().Present() {
				return fmt.Errorf("unknown command %q", c.Args().First())
			}
			return errors.New("a command is required")
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}

	if err := app.Run(append([]string{"asn1"}, args...)); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 2
	}
	return 0
}

func specFlag() cli.Flag {
	return &cli.StringFlag{Name: "spec", Required: true, Usage: "path to the JSON descriptor `FILE`"}
}

func compile(c *cli.Context, stderr io.Writer) (*asn1.Schema, error) {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	path := c.String("spec")
	schema, err := asn1.CompilePath(path, asn1.NewCompileOptions().WithLogger(logger))
	if err != nil {
		if writeErr := writef(stderr, "error compiling %s: %v\n", path, err); writeErr != nil {
			return nil, cli.Exit("", 1)
		}
		return nil, cli.Exit("", 1)
	}
	return schema, nil
}

func runTypes(c *cli.Context, stdout, stderr io.Writer) error {
	schema, err := compile(c, stderr)
	if err != nil {
		return err
	}

	if name := c.String("type"); name != "" {
		t, err := schema.Type(name)
		if err != nil {
			if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
				return cli.Exit("", 1)
			}
			return cli.Exit("", 1)
		}
		if err := writeln(stdout, t.String()); err != nil {
			return cli.Exit("", 1)
		}
		return nil
	}

	for _, module := range schema.Modules() {
		for _, t := range schema.Types(module) {
			if err := writef(stdout, "%s.%s %s\n", module, t.Name(), t); err != nil {
				return cli.Exit("", 1)
			}
		}
	}
	return nil
}

func runValues(c *cli.Context, stdout, stderr io.Writer) error {
	schema, err := compile(c, stderr)
	if err != nil {
		return err
	}

	opts := asn1.NewEncodeOptions()
	if c.IsSet("indent") {
		opts = opts.WithIndent(c.Int("indent"))
		if err := opts.Validate(); err != nil {
			return fmt.Errorf("invalid --indent: %w", err)
		}
	}

	modules := schema.Modules()
	if module := c.String("module"); module != "" {
		modules = []string{module}
	}

	failed := 0
	for _, module := range modules {
		for _, name := range schema.ValueNames(module) {
			encoded, err := schema.EncodeValue(module, name, opts)
			if err != nil {
				failed++
				if writeErr := writef(stderr, "error: %s.%s: %v\n", module, name, err); writeErr != nil {
					return cli.Exit("", 1)
				}
				continue
			}
			if err := writeln(stdout, string(encoded)); err != nil {
				return cli.Exit("", 1)
			}
		}
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("start cpu profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("close cpu profile %s: %w", path, err)
		}
		return nil
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("write mem profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close mem profile %s: %w", path, err)
	}
	return nil
}
