package network

import (
	"github.com/paulmach/orb"
)

// Merger chains lines that continue each other into single lines, so a
// street split into many ways is drawn as one path.
type Merger struct {
	network         *Network
	mergeCount      int
	unmergableCount int
}

func NewMerger(n *Network) *Merger {
	return &Merger{
		network: n,
	}
}

// Merge joins a line with the line starting at its end point when both have
// the same group and name. Closed rings are never merged. The merged line
// keeps the id and tags of the first line; group membership and the relative
// order of the remaining lines are unchanged.
func (m *Merger) Merge() {
	startToLines := make(map[orb.Point][]*Line)

	for _, l := range m.network.lines {
		if l.Closed() {
			m.unmergableCount++
			continue
		}
		startToLines[l.Start()] = append(startToLines[l.Start()], l)
	}

	before := m.mergeCount
	merged := make(map[*Line]bool)
	result := newNetwork(m.network.stats.Ways)
	result.stats = m.network.stats

	for _, l := range m.network.lines {
		if merged[l] {
			continue
		}
		merged[l] = true

		current := l
		for !current.Closed() {
			foundNext := false
			for _, next := range startToLines[current.End()] {
				if merged[next] || !canMerge(current, next) {
					continue
				}
				current = mergeTwoLines(current, next)
				merged[next] = true
				m.mergeCount++
				foundNext = true
				break
			}

			if !foundNext {
				break
			}
		}

		result.add(current)
	}

	result.stats.Merged += m.mergeCount - before
	m.network = result
}

func canMerge(l1, l2 *Line) bool {
	return l1.Group == l2.Group &&
		l1.Name() == l2.Name() &&
		!l2.Closed()
}

func mergeTwoLines(l1, l2 *Line) *Line {
	merged := &Line{
		WayID: l1.WayID,
		Group: l1.Group,
		Tags:  l1.Tags,
	}

	merged.Points = make([]orb.Point, 0, len(l1.Points)+len(l2.Points)-1)
	merged.Points = append(merged.Points, l1.Points...)
	// the first point of l2 duplicates the last point of l1
	merged.Points = append(merged.Points, l2.Points[1:]...)

	return merged
}

func (m *Merger) Network() *Network {
	return m.network
}

func (m *Merger) MergeCount() int {
	return m.mergeCount
}

func (m *Merger) UnmergableLineCount() int {
	return m.unmergableCount
}

// Merge is a shorthand for running a Merger over n.
func Merge(n *Network) *Network {
	m := NewMerger(n)
	m.Merge()
	return m.Network()
}
