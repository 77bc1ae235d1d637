package check

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/gobox/cmd/gobox/internal/load"
)

type Cmd struct {
	Manifests []string `arg:"" help:"Manifest files to check, loaded in order (- for stdin)."`
	Strict    bool     `help:"Fail when a manifest redefines a type with a different shape."`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	for _, path := range c.Manifests {
		m, err := load.Manifest(path)
		if err != nil {
			return err
		}
		if errs := m.Validate(); len(errs) > 0 {
			for _, err := range errs {
				fmt.Printf("✗ %s: %v\n", path, err)
			}
			return errors.New("manifest validation failed")
		}
		fmt.Printf("✓ %s: %d types, %d warnings\n", path, len(m.Types), len(m.Warnings))
	}

	reg, err := load.Registry(logger, c.Strict, c.Manifests...)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %d types registered\n", reg.Len())
	fmt.Println("✓ All references resolvable")
	return nil
}
