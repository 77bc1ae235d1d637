package describe

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/broady/gobox"
	"github.com/broady/gobox/cmd/gobox/internal/load"
	"github.com/broady/gobox/reflection"
	"github.com/broady/gobox/types"
)

type Cmd struct {
	Manifests []string `arg:"" help:"Manifest files to load, in order (- for stdin)."`
	Type      []string `help:"Only describe these qualified type names." short:"t"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	reg, err := load.Registry(logger, false, c.Manifests...)
	if err != nil {
		return err
	}

	names := c.Type
	if len(names) == 0 {
		names = reg.Names()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 1, ' ', 0)
	for _, name := range names {
		desc, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("type %s not found", name)
		}
		Write(w, reg, desc)
	}
	return w.Flush()
}

// Write prints desc in declaration form followed by its method set.
func Write(w io.Writer, reg *gobox.Registry, desc types.Type) {
	t := reflection.TypeFor(reg, desc)

	switch t.Kind() {
	case types.KindStruct:
		fmt.Fprintf(w, "type %s struct {\n", desc.TypeName())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := f.Name
			if f.Anonymous {
				name = ""
			}
			if f.Tag != "" {
				fmt.Fprintf(w, "\t%s\t%s\t`%s`\n", name, f.Type, f.Tag)
			} else {
				fmt.Fprintf(w, "\t%s\t%s\n", name, f.Type)
			}
		}
		fmt.Fprintln(w, "}")
	case types.KindInterface:
		fmt.Fprintf(w, "type %s interface {\n", desc.TypeName())
		for _, m := range desc.(*types.Interface).Methods {
			fmt.Fprintf(w, "\t%s%s\n", m.Name, signature(m))
		}
		fmt.Fprintln(w, "}")
		return
	default:
		underlying := types.Underlying(desc)
		fmt.Fprintf(w, "type %s %s\n", desc.TypeName(), types.TypeString(underlying))
	}

	short := t.Name()
	for _, m := range reg.MethodSet(types.NewPointer(desc)) {
		recv := short
		if m.PointerReceiver {
			recv = "*" + short
		}
		fmt.Fprintf(w, "func (%s) %s%s\n", recv, m.Name, signature(m.Method))
	}
	fmt.Fprintln(w)
}

// signature formats m's parameters and results, e.g. "(int) (string, error)".
func signature(m types.Method) string {
	return strings.TrimPrefix(types.TypeString(m.Signature()), "func")
}
