// Package load reads manifest files for the gobox subcommands.
package load

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/broady/gobox"
	"github.com/broady/gobox/manifest"
)

// Manifest reads the manifest at path. "-" reads stdin. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON.
func Manifest(path string) (*manifest.Manifest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	decode := manifest.Decode
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		decode = manifest.DecodeYAML
	}
	m, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Registry loads every manifest in paths, in order, into a fresh registry.
// Later manifests may refer to types declared by earlier ones.
func Registry(logger *slog.Logger, strict bool, paths ...string) (*gobox.Registry, error) {
	if len(paths) == 0 {
		return nil, errors.New("no manifests given")
	}
	reg := gobox.NewRegistry().WithLogger(logger)
	if strict {
		reg.WithStrictRedefinition()
	}
	for _, path := range paths {
		m, err := Manifest(path)
		if err != nil {
			return nil, err
		}
		if err := manifest.Load(reg, m); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("manifest loaded", "path", path, "types", len(m.Types))
	}
	return reg, nil
}
