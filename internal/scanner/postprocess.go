package scanner

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"floorplan-navigator/internal/geometry"
)

// finalize applies the format-independent clean-up to an extraction and
// returns the sorted rooms and paths plus the overall bounds.
func finalize(x *extraction, cfg Config) ([]Room, []Path, geometry.Bounds) {
	rooms := make([]Room, 0, len(x.rooms))
	dropped := 0
	for _, r := range x.rooms {
		r.Bounds = geometry.NormalizeBounds(r.Bounds)
		if r.Bounds.Area() < cfg.MinRoomArea {
			dropped++
			continue
		}
		r.Confidence = clampConfidence(r.Confidence)
		rooms = append(rooms, r)
	}
	if dropped > 0 {
		x.warnf("discarded %d room(s) smaller than %.0f square units", dropped, cfg.MinRoomArea)
	}

	paths := make([]Path, 0, len(x.paths))
	droppedSegs, droppedPaths := 0, 0
	for _, p := range x.paths {
		segs := make([]geometry.Segment, 0, len(p.Segments))
		for _, s := range p.Segments {
			segs = append(segs, s.Rounded())
		}
		if cfg.SimplifyTolerance > 0 {
			segs = simplifySegments(segs, cfg.SimplifyTolerance)
		}
		kept := segs[:0]
		for _, s := range segs {
			if s.Length() < cfg.MinPathLength {
				droppedSegs++
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			droppedPaths++
			continue
		}
		p.Segments = kept
		p.Confidence = clampConfidence(p.Confidence)
		if p.Width != nil {
			w := geometry.Round(*p.Width)
			p.Width = &w
		}
		paths = append(paths, p)
	}
	if droppedSegs > 0 {
		x.warnf("discarded %d segment(s) shorter than %.0f units", droppedSegs, cfg.MinPathLength)
	}
	if droppedPaths > 0 {
		x.warnf("discarded %d path(s) with no remaining segments", droppedPaths)
	}

	assignIDs(rooms, paths, x)

	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i].Bounds, rooms[j].Bounds
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return rooms[i].ID < rooms[j].ID
	})
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := paths[i].Segments[0].Start, paths[j].Segments[0].Start
		if a != b {
			return geometry.Less(a, b)
		}
		return paths[i].ID < paths[j].ID
	})

	associateLabels(rooms, x.labels, cfg)

	var bounds geometry.Bounds
	if x.bounds != nil {
		bounds = *x.bounds
	} else {
		var ext geometry.Extent
		for _, r := range rooms {
			ext.AddBounds(r.Bounds)
		}
		for _, p := range paths {
			for _, s := range p.Segments {
				ext.AddPoint(s.Start)
				ext.AddPoint(s.End)
			}
		}
		bounds = ext.Bounds()
	}
	return rooms, paths, bounds
}

// associateLabels attaches each label to the nearest room center within the
// configured radius, unless that room already has a label.
func associateLabels(rooms []Room, labels []Label, cfg Config) {
	for _, l := range labels {
		nearest := -1
		best := cfg.LabelRadius
		for i := range rooms {
			d := l.Position.Distance(rooms[i].Bounds.Center())
			if d < best {
				best = d
				nearest = i
			}
		}
		if nearest < 0 || rooms[nearest].Label != "" {
			continue
		}
		rooms[nearest].Label = l.Text
		rooms[nearest].Confidence = clampConfidence(rooms[nearest].Confidence + cfg.LabelConfidenceBoost)
	}
}

func clampConfidence(c float64) float64 {
	return geometry.Round(math.Max(0, math.Min(1, c)))
}

// assignIDs derives ids from geometry for items that came without one.
func assignIDs(rooms []Room, paths []Path, x *extraction) {
	seenRooms := make(map[string]bool, len(rooms))
	for i := range rooms {
		if rooms[i].ID == "" {
			rooms[i].ID = RoomID(rooms[i].Bounds)
		}
		if seenRooms[rooms[i].ID] {
			x.warnf("duplicate room id %s", rooms[i].ID)
		}
		seenRooms[rooms[i].ID] = true
	}

	seenPaths := make(map[string]int, len(paths))
	for i := range paths {
		if paths[i].ID == "" {
			id := PathID(paths[i].Segments[0])
			if n := seenPaths[id]; n > 0 {
				paths[i].ID = fmt.Sprintf("%s_%d", id, n+1)
			} else {
				paths[i].ID = id
			}
			seenPaths[id]++
			continue
		}
		seenPaths[paths[i].ID]++
	}
}

// RoomID derives a stable room id from its bounds. Rooms with identical bounds
// share an id.
func RoomID(b geometry.Bounds) string {
	return fmt.Sprintf("ROOM_%d_%d_%d_%d",
		int(math.Round(b.X)), int(math.Round(b.Y)), int(math.Round(b.Width)), int(math.Round(b.Height)))
}

// PathID derives a stable path id from its first segment.
func PathID(first geometry.Segment) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%.2f,%.2f,%.2f,%.2f", first.Start.X, first.Start.Y, first.End.X, first.End.Y)
	return fmt.Sprintf("PATH_%08x", h.Sum32())
}

// simplifySegments runs Douglas-Peucker over every connected run of segments.
func simplifySegments(segs []geometry.Segment, tolerance float64) []geometry.Segment {
	if len(segs) < 2 {
		return segs
	}
	var out []geometry.Segment
	run := orb.LineString{segs[0].Start.Orb(), segs[0].End.Orb()}
	flush := func() {
		simplified, ok := simplify.DouglasPeucker(tolerance).Simplify(run.Clone()).(orb.LineString)
		if !ok || len(simplified) < 2 {
			simplified = run
		}
		for i := 0; i < len(simplified)-1; i++ {
			out = append(out, geometry.Segment{
				Start: geometry.FromOrb(simplified[i]),
				End:   geometry.FromOrb(simplified[i+1]),
			})
		}
	}
	for _, s := range segs[1:] {
		if geometry.FromOrb(run[len(run)-1]) == s.Start {
			run = append(run, s.End.Orb())
			continue
		}
		flush()
		run = orb.LineString{s.Start.Orb(), s.End.Orb()}
	}
	flush()
	return out
}
