// Package nearest answers "which original point is closest to here" queries
// over a snapshot of track positions. It is built transiently for each
// resampling call and used to carry attributes over to synthesized points.
package nearest

import (
	"math"

	"github.com/yildizm/trackedit/internal/geom"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Index is a 2-d tree over a position snapshot.
type Index struct {
	tree *kdtree.Tree
	size int
}

// New builds an index over pts. Indices returned by Nearest refer to pts.
func New(pts []geom.Point) *Index {
	items := make(entries, len(pts))
	for i, p := range pts {
		items[i] = entry{pos: [2]float64{p.X, p.Y}, index: i}
	}
	idx := &Index{size: len(pts)}
	if len(items) > 0 {
		idx.tree = kdtree.New(items, false)
	}
	return idx
}

// Len returns the number of indexed points.
func (x *Index) Len() int { return x.size }

// Nearest returns the index of the snapshot point closest to p and the
// euclidean distance to it. When several points are equally close, the one
// the tree visits first wins; which one that is is unspecified. index is -1
// for an empty index.
func (x *Index) Nearest(p geom.Point) (index int, dist float64) {
	if x.tree == nil {
		return -1, math.Inf(1)
	}
	got, d2 := x.tree.Nearest(entry{pos: [2]float64{p.X, p.Y}, index: -1})
	if got == nil {
		return -1, math.Inf(1)
	}
	return got.(entry).index, math.Sqrt(d2)
}

// entry is one indexed position remembering where it came from.
type entry struct {
	pos   [2]float64
	index int
}

func (e entry) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return e.pos[d] - c.(entry).pos[d]
}

func (e entry) Dims() int { return 2 }

// Distance returns the squared euclidean distance, as kdtree expects.
func (e entry) Distance(c kdtree.Comparable) float64 {
	o := c.(entry)
	dx := e.pos[0] - o.pos[0]
	dy := e.pos[1] - o.pos[1]
	return dx*dx + dy*dy
}

type entries []entry

func (p entries) Index(i int) kdtree.Comparable { return p[i] }
func (p entries) Len() int                      { return len(p) }
func (p entries) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p entries) Pivot(d kdtree.Dim) int {
	return plane{entries: p, dim: d}.Pivot()
}

// plane sorts entries along one dimension for median selection.
type plane struct {
	entries
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.entries[i].pos[p.dim] < p.entries[j].pos[p.dim] }
func (p plane) Swap(i, j int)      { p.entries[i], p.entries[j] = p.entries[j], p.entries[i] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.entries = p.entries[start:end]
	return p
}
