// Package network turns raw OSM data into classified, drawable lines.
//
// Build resolves the node references of every way, classifies it with
// feature.Classify and collects the result per group. Ways referencing a
// node that is not part of the data, or matching no classification rule,
// are left out; upstream extracts are routinely cut at the bbox edge, so a
// partial way is expected input and not an error.
package network

import (
	"context"
	"runtime"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/natevvv/osm-vector-map/pkg/feature"
)

// Stats counts what happened to the input ways during a build.
// Unresolved + Unclassified + Classified == Ways. Classified counts lines
// before merging; Merged is the number of joins a Merger made, so
// Len() == Classified - Merged.
type Stats struct {
	Ways         int `json:"ways"`
	Unresolved   int `json:"unresolved"`
	Unclassified int `json:"unclassified"`
	Classified   int `json:"classified"`
	Merged       int `json:"merged"`
}

type Network struct {
	grouped map[feature.Group][]*Line
	lines   []*Line
	stats   Stats
}

// Lines returns the lines of group g in input order.
func (n *Network) Lines(g feature.Group) []*Line {
	return n.grouped[g]
}

// All returns every classified line in input order.
func (n *Network) All() []*Line {
	return n.lines
}

func (n *Network) Len() int {
	return len(n.lines)
}

func (n *Network) Stats() Stats {
	return n.stats
}

// Groups returns the non-empty groups in draw order.
func (n *Network) Groups() []feature.Group {
	groups := make([]feature.Group, 0, len(n.grouped))
	for _, g := range feature.GroupOrder {
		if len(n.grouped[g]) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Counts returns the number of lines per non-empty group.
func (n *Network) Counts() map[feature.Group]int {
	counts := make(map[feature.Group]int, len(n.grouped))
	for g, lines := range n.grouped {
		counts[g] = len(lines)
	}
	return counts
}

func (n *Network) add(l *Line) {
	n.grouped[l.Group] = append(n.grouped[l.Group], l)
	n.lines = append(n.lines, l)
}

func newNetwork(ways int) *Network {
	return &Network{
		grouped: make(map[feature.Group][]*Line),
		lines:   make([]*Line, 0, ways),
		stats:   Stats{Ways: ways},
	}
}

type builder struct {
	nodes        map[int64]*Node
	relationWays map[int64]struct{}
}

func newBuilder(data *Data) *builder {
	b := &builder{
		nodes:        make(map[int64]*Node, len(data.Nodes)),
		relationWays: data.relationWays(),
	}
	for i := range data.Nodes {
		b.nodes[data.Nodes[i].ID] = &data.Nodes[i]
	}
	return b
}

type outcome int

const (
	classified outcome = iota
	unresolved
	unclassified
)

func (b *builder) line(w *Way) (*Line, outcome) {
	if len(w.NodeRefs) < 2 {
		return nil, unresolved
	}

	line := &Line{WayID: w.ID, Tags: w.Tags}
	line.Points = make([]orb.Point, len(w.NodeRefs))
	for i, ref := range w.NodeRefs {
		node, ok := b.nodes[ref]
		if !ok {
			return nil, unresolved
		}
		line.Points[i] = node.Point
	}

	_, member := b.relationWays[w.ID]
	line.Group = feature.Classify(w.Tags, member)
	if line.Group == feature.None {
		return nil, unclassified
	}
	return line, classified
}

func (n *Network) record(l *Line, o outcome) {
	switch o {
	case classified:
		n.stats.Classified++
		n.add(l)
	case unresolved:
		n.stats.Unresolved++
	case unclassified:
		n.stats.Unclassified++
	}
}

// Build classifies all ways of data in a single pass.
func Build(data *Data) *Network {
	b := newBuilder(data)
	n := newNetwork(len(data.Ways))
	for i := range data.Ways {
		n.record(b.line(&data.Ways[i]))
	}
	return n
}

// BuildParallel classifies ways on up to workers goroutines and produces the
// same network as Build. workers <= 0 uses GOMAXPROCS.
func BuildParallel(ctx context.Context, data *Data, workers int) (*Network, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	b := newBuilder(data)
	lines := make([]*Line, len(data.Ways))
	outcomes := make([]outcome, len(data.Ways))

	chunk := (len(data.Ways) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(data.Ways); start += chunk {
		end := min(start+chunk, len(data.Ways))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				lines[i], outcomes[i] = b.line(&data.Ways[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// merge by input index so group order matches Build
	n := newNetwork(len(data.Ways))
	for i := range lines {
		n.record(lines[i], outcomes[i])
	}
	return n, nil
}
