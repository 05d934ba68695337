package scanner

import (
	"encoding/json"
	"fmt"
	"strings"

	"floorplan-navigator/internal/geometry"
)

// decodePlan decodes structured input item by item so that one malformed room
// does not discard the rest of the document.
func decodePlan(data []byte) (*Plan, []string) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return &Plan{}, []string{fmt.Sprintf("JSON parsing error: %v", err)}
	}

	plan := &Plan{}
	var errs []string

	rawItems := func(key string) []json.RawMessage {
		raw, ok := top[key]
		if !ok || string(raw) == "null" {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			errs = append(errs, fmt.Sprintf("%s: expected an array: %v", key, err))
			return nil
		}
		return items
	}

	for i, raw := range rawItems("rooms") {
		var r PlanRoom
		if err := json.Unmarshal(raw, &r); err != nil {
			errs = append(errs, ItemError{Kind: "room", Index: i, Err: err}.Error())
			continue
		}
		plan.Rooms = append(plan.Rooms, r)
	}

	decodePaths := func(key string) []PlanPath {
		var out []PlanPath
		for i, raw := range rawItems(key) {
			var p PlanPath
			if err := json.Unmarshal(raw, &p); err != nil {
				errs = append(errs, ItemError{Kind: strings.TrimSuffix(key, "s"), Index: i, Err: err}.Error())
				continue
			}
			out = append(out, p)
		}
		return out
	}
	plan.Corridors = decodePaths("corridors")
	plan.Paths = decodePaths("paths")
	plan.Walkways = decodePaths("walkways")

	for i, raw := range rawItems("labels") {
		var l PlanLabel
		if err := json.Unmarshal(raw, &l); err != nil {
			errs = append(errs, ItemError{Kind: "label", Index: i, Err: err}.Error())
			continue
		}
		plan.Labels = append(plan.Labels, l)
	}

	if raw, ok := top["bounds"]; ok && string(raw) != "null" {
		var b geometry.Bounds
		if err := json.Unmarshal(raw, &b); err != nil {
			errs = append(errs, fmt.Sprintf("bounds: %v", err))
		} else {
			plan.Bounds = &b
		}
	}
	return plan, errs
}

func extractPlan(plan *Plan) *extraction {
	x := &extraction{}
	if plan.Bounds != nil {
		b := geometry.NormalizeBounds(*plan.Bounds)
		x.bounds = &b
	}

	for i, r := range plan.Rooms {
		room, err := roomFromPlan(r)
		if err != nil {
			x.warnf("%s", ItemError{Kind: "room", Index: i, ID: r.ID, Err: err}.Error())
			continue
		}
		x.rooms = append(x.rooms, room)
	}

	groups := []struct {
		kind     string
		items    []PlanPath
		fallback PathType
	}{
		{"corridor", plan.Corridors, PathTypeCorridor},
		{"path", plan.Paths, PathTypeWalkway},
		{"walkway", plan.Walkways, PathTypeWalkway},
	}
	for _, g := range groups {
		for i, p := range g.items {
			path, err := pathFromPlan(p, g.fallback)
			if err != nil {
				x.warnf("%s", ItemError{Kind: g.kind, Index: i, ID: p.ID, Err: err}.Error())
				continue
			}
			x.paths = append(x.paths, path)
		}
	}

	for _, l := range plan.Labels {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		x.labels = append(x.labels, Label{Text: text, Position: geometry.Point{X: l.X, Y: l.Y}})
	}
	return x
}

func roomFromPlan(r PlanRoom) (Room, error) {
	var b geometry.Bounds
	switch {
	case r.Bounds != nil:
		b = *r.Bounds
	case r.X != nil && r.Y != nil:
		b = geometry.Bounds{X: *r.X, Y: *r.Y, Width: deref(r.Width, 100), Height: deref(r.Height, 100)}
	default:
		return Room{}, fmt.Errorf("%w: no bounds or x/y", ErrMissingGeometry)
	}

	label := strings.TrimSpace(r.Label)
	if label == "" {
		label = strings.TrimSpace(r.Name)
	}
	typ := RoomType(strings.TrimSpace(r.Type))
	if typ == "" {
		typ = RoomTypeRoom
	}
	return Room{
		ID:         r.ID,
		Bounds:     b,
		Label:      label,
		Type:       typ,
		Confidence: deref(r.Confidence, 0.9),
	}, nil
}

func pathFromPlan(p PlanPath, fallback PathType) (Path, error) {
	var segs []geometry.Segment
	switch {
	case len(p.Segments) > 0:
		segs = p.Segments
	case len(p.Points) > 1:
		segs = geometry.SegmentsFromPoints(p.Points)
	case p.Start != nil && p.End != nil:
		segs = []geometry.Segment{{Start: *p.Start, End: *p.End}}
	default:
		return Path{}, fmt.Errorf("%w: no segments, points or start/end", ErrMissingGeometry)
	}

	typ := PathType(strings.TrimSpace(p.Type))
	if typ == "" {
		typ = fallback
	}
	return Path{
		ID:         p.ID,
		Type:       typ,
		Segments:   segs,
		Width:      p.Width,
		Confidence: deref(p.Confidence, 0.9),
	}, nil
}

func deref(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
