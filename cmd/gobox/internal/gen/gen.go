package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/broady/gobox/manifest"
	"github.com/broady/gobox/source"
)

type Cmd struct {
	Out     string   `arg:"" optional:"" help:"Output file (default: stdout)." default:"-"`
	Package []string `help:"Packages to scan." short:"p" default:"."`
	Types   []string `help:"Root type names (default: all exported types)." short:"t"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	m, err := source.Load(context.Background(), source.Options{
		Packages:  c.Package,
		RootTypes: c.Types,
	})
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	for _, w := range m.Warnings {
		logger.Warn(w.Message, "code", w.Code, "type", w.TypeName)
	}

	if c.Out == "-" {
		return manifest.Encode(os.Stdout, m)
	}
	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	if err := manifest.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %d types to %s\n", len(m.Types), c.Out)
	return nil
}
