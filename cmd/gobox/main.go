package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/broady/gobox/cmd/gobox/internal/check"
	"github.com/broady/gobox/cmd/gobox/internal/describe"
	"github.com/broady/gobox/cmd/gobox/internal/gen"
	"github.com/broady/gobox/cmd/gobox/internal/probe"
)

type CLI struct {
	Verbose bool `help:"Log registry activity to stderr." short:"v"`

	Version  VersionCmd   `cmd:"" help:"Print version information."`
	Gen      gen.Cmd      `cmd:"" help:"Write a type manifest for Go packages."`
	Check    check.Cmd    `cmd:"" help:"Validate manifests and load them into a registry."`
	Describe describe.Cmd `cmd:"" help:"Print the types declared by a manifest."`
	Probe    probe.Cmd    `cmd:"" help:"Box a value and try a type assertion against a manifest."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("gobox"),
		kong.Description("Inspect and exercise runtime type manifests."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
