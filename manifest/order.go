package manifest

import (
	"errors"

	"github.com/broady/gobox/types"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// SortByDependency orders m.Types so that every record follows the records
// it refers to. Records in a reference cycle cannot be ordered; they stay
// together, in their original relative order, at the position of the cycle.
// References to types outside the manifest are ignored.
//
// Load does not need this ordering. It is a convenience for readers and for
// consumers that register records one at a time.
func (m *Manifest) SortByDependency() {
	index := make(map[string]int64, len(m.Types))
	g := simple.NewDirectedGraph()
	for i, t := range m.Types {
		index[t.Name] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for i, t := range m.Types {
		for _, ref := range t.references() {
			j, ok := index[ref]
			if !ok || j == int64(i) {
				continue
			}
			// Edges run from dependency to dependent.
			g.SetEdge(g.NewEdge(simple.Node(j), simple.Node(i)))
		}
	}

	sorted, err := topo.SortStabilized(g, nil)
	var cycles topo.Unorderable
	if err != nil && !errors.As(err, &cycles) {
		return
	}

	out := make([]TypeRecord, 0, len(m.Types))
	next := 0
	for _, n := range sorted {
		if n != nil {
			out = append(out, m.Types[n.ID()])
			continue
		}
		for _, member := range cycles[next] {
			out = append(out, m.Types[member.ID()])
		}
		next++
	}
	m.Types = out
}

// references returns the names of the named types t refers to, in order of
// appearance. Undecodable expressions are skipped; Validate reports them.
func (t TypeRecord) references() []string {
	var refs []string
	seen := make(map[string]bool)
	record := func(name string) (types.Type, bool) {
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
		return &types.Named{Name: name}, true
	}

	parseExpr(t.Underlying, record)
	for _, f := range t.Fields {
		parseExpr(f.Type, record)
	}
	for _, mr := range t.Methods {
		mr.method(record)
	}
	return refs
}
