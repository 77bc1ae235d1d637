package probe

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/broady/gobox/cmd/gobox/internal/load"
	"github.com/broady/gobox/manifest"
)

type Cmd struct {
	Query     string   `arg:"" help:"Probe query, e.g. 'value=*main.Dog&nil=true&target=main.Animal'."`
	Manifests []string `arg:"" help:"Manifest files to load, in order (- for stdin)."`
	JSON      bool     `help:"Print the result as JSON." name:"json"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	p, err := manifest.ParseProbe(c.Query)
	if err != nil {
		return err
	}
	reg, err := load.Registry(logger, false, c.Manifests...)
	if err != nil {
		return err
	}

	res, err := p.Run(reg)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	mark := "✗"
	if res.Matched {
		mark = "✓"
	}
	fmt.Printf("%s %s.(%s) = %s\n", mark, res.Box, p.Target, res.Result)
	return nil
}
