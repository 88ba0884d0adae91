// Package overlay loads the read-only point sets drawn behind the track: the
// inner and outer lane boundaries and a backdrop. They are decoration only. A
// missing or malformed file yields an empty layer and a warning, never an
// error.
package overlay

import (
	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/logger"
	"github.com/yildizm/trackedit/internal/track"
)

// Kind names an overlay layer.
type Kind string

const (
	InnerLane Kind = "inner_lane"
	OuterLane Kind = "outer_lane"
	Backdrop  Kind = "backdrop"
)

// Kinds lists the layers in drawing order, back to front.
var Kinds = []Kind{Backdrop, InnerLane, OuterLane}

// Paths holds the file of every layer. Empty paths are skipped.
type Paths struct {
	Inner    string
	Outer    string
	Backdrop string
}

// Of returns the path configured for kind.
func (p Paths) Of(kind Kind) string {
	switch kind {
	case InnerLane:
		return p.Inner
	case OuterLane:
		return p.Outer
	case Backdrop:
		return p.Backdrop
	}
	return ""
}

// Layer is one loaded overlay. Err records why Points is empty, if it is
// because of a failure.
type Layer struct {
	Kind   Kind
	Path   string
	Points []geom.Point
	Err    error
}

// Empty reports whether the layer has nothing to draw.
func (l Layer) Empty() bool { return len(l.Points) == 0 }

// Set is the full collection of overlay layers.
type Set struct {
	layers map[Kind]Layer
}

// LoadLayer reads the x and y columns of path. Failures are logged as
// warnings and produce an empty layer.
func LoadLayer(kind Kind, path string, log *logger.Logger) Layer {
	layer := Layer{Kind: kind, Path: path}
	if path == "" {
		return layer
	}
	if log == nil {
		log = logger.Nop()
	}

	ps, stats, err := track.ReadFile(path, track.LoadOptions{})
	if err != nil {
		layer.Err = err
		log.WarnWithFields("overlay unavailable", []logger.Field{
			logger.F("layer", kind), logger.Path(path), logger.Error(err),
		})
		return layer
	}
	if stats.Dropped > 0 {
		log.DebugWithFields("overlay rows skipped", []logger.Field{
			logger.F("layer", kind), logger.Count(stats.Dropped),
		})
	}
	layer.Points = ps.Positions()
	return layer
}

// Load reads every configured layer.
func Load(paths Paths, log *logger.Logger) *Set {
	s := &Set{layers: make(map[Kind]Layer, len(Kinds))}
	for _, kind := range Kinds {
		s.layers[kind] = LoadLayer(kind, paths.Of(kind), log)
	}
	return s
}

// Layer returns the layer of kind.
func (s *Set) Layer(kind Kind) Layer {
	if s == nil {
		return Layer{Kind: kind}
	}
	return s.layers[kind]
}

// Layers returns every layer in drawing order.
func (s *Set) Layers() []Layer {
	out := make([]Layer, 0, len(Kinds))
	for _, kind := range Kinds {
		out = append(out, s.Layer(kind))
	}
	return out
}

// Replace swaps in a freshly loaded layer.
func (s *Set) Replace(l Layer) {
	if s.layers == nil {
		s.layers = make(map[Kind]Layer, len(Kinds))
	}
	s.layers[l.Kind] = l
}

// Bounds returns the bounding rectangle of every non-empty layer.
func (s *Set) Bounds() (geom.Rect, bool) {
	var (
		r  geom.Rect
		ok bool
	)
	for _, l := range s.Layers() {
		b, has := geom.Bounds(l.Points)
		if !has {
			continue
		}
		if !ok {
			r, ok = b, true
			continue
		}
		r = r.Union(b.Min).Union(b.Max)
	}
	return r, ok
}
