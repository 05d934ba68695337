package scanner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplan-navigator/internal/geometry"
)

// Element is one markup element reduced to what the scanner needs.
type Element struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

// Attr returns the attribute value or "".
func (e Element) Attr(name string) string {
	return e.Attrs[name]
}

// Document is what a ShapeExtractor hands back: the root element and every
// shape or text element below it, in document order.
type Document struct {
	Root     Element
	Elements []Element
}

// ShapeExtractor turns vector markup into a flat element list.
type ShapeExtractor interface {
	Name() string
	Extract(markup string) (*Document, error)
}

// NewShapeExtractor returns the extractor for the given parser kind.
func NewShapeExtractor(kind MarkupParser) ShapeExtractor {
	if kind == MarkupPattern {
		return patternExtractor{}
	}
	return structuralExtractor{}
}

var shapeTags = map[string]bool{
	"rect": true, "polygon": true, "path": true,
	"line": true, "polyline": true, "text": true,
}

func marker(el Element) string {
	return strings.ToLower(el.Attr("class") + " " + el.Attr("role"))
}

func isRoomElement(el Element) bool {
	switch el.Tag {
	case "rect", "polygon", "path":
		return strings.Contains(marker(el), "room")
	}
	return false
}

func isPathElement(el Element) bool {
	switch el.Tag {
	case "path", "line", "polyline":
		m := marker(el)
		return strings.Contains(m, "corridor") || strings.Contains(m, "path")
	}
	return false
}

// extraction collects raw items before post-processing.
type extraction struct {
	rooms    []Room
	paths    []Path
	labels   []Label
	bounds   *geometry.Bounds
	warnings []string
	errors   []string
}

func (x *extraction) warnf(format string, args ...any) {
	x.warnings = append(x.warnings, fmt.Sprintf(format, args...))
}

func (x *extraction) fail(err error) {
	x.errors = append(x.errors, err.Error())
}

func extractMarkup(markup string, ext ShapeExtractor) *extraction {
	x := &extraction{}
	doc, err := ext.Extract(markup)
	if err != nil {
		x.errors = append(x.errors, fmt.Sprintf("SVG parsing error: %v", err))
		return x
	}

	if vb, ok := parseViewBox(doc.Root.Attr("viewBox")); ok {
		x.bounds = &vb
	} else if size, err := floatAttrs(doc.Root, "width", "height"); err == nil && size[0] > 0 && size[1] > 0 {
		b := geometry.NormalizeBounds(geometry.Bounds{Width: size[0], Height: size[1]})
		x.bounds = &b
	}

	roomIdx, pathIdx := 0, 0
	for _, el := range doc.Elements {
		switch {
		case isRoomElement(el):
			room, err := roomFromElement(el)
			if err != nil {
				x.fail(ItemError{Kind: "room", Index: roomIdx, ID: el.Attr("id"), Err: err})
			} else {
				x.rooms = append(x.rooms, room)
			}
			roomIdx++
		case isPathElement(el):
			path, approximated, err := pathFromElement(el)
			if err != nil {
				x.fail(ItemError{Kind: "path", Index: pathIdx, ID: el.Attr("id"), Err: err})
			} else {
				if approximated {
					x.warnf("path %d: curve commands approximated by straight segments", pathIdx)
				}
				x.paths = append(x.paths, path)
			}
			pathIdx++
		case el.Tag == "text":
			if label, ok := labelFromElement(el); ok {
				x.labels = append(x.labels, label)
			}
		}
	}
	return x
}

func parseViewBox(s string) (geometry.Bounds, bool) {
	nums, err := parseNumbers(s)
	if err != nil || len(nums) != 4 {
		return geometry.Bounds{}, false
	}
	return geometry.NormalizeBounds(geometry.Bounds{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}), true
}

func roomFromElement(el Element) (Room, error) {
	room := Room{
		ID:    el.Attr("id"),
		Label: strings.TrimSpace(el.Attr("data-label")),
		Type:  roomTypeFromMarkers(el.Attr("class") + " " + el.Attr("id")),
	}

	switch el.Tag {
	case "rect":
		vals, err := floatAttrs(el, "x", "y", "width", "height")
		if err != nil {
			return Room{}, err
		}
		room.Bounds = geometry.Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
		room.Confidence = 0.9
	case "polygon":
		pts, err := parsePointList(el.Attr("points"))
		if err != nil {
			return Room{}, err
		}
		b, ok := geometry.BoundingBox(pts)
		if !ok {
			return Room{}, ErrMissingGeometry
		}
		room.Bounds = b
		room.Confidence = 0.6
	case "path":
		_, vertices, _, err := parsePathData(el.Attr("d"))
		if err != nil {
			return Room{}, err
		}
		b, ok := geometry.BoundingBox(vertices)
		if !ok {
			return Room{}, ErrMissingGeometry
		}
		room.Bounds = b
		room.Confidence = 0.6
	}
	return room, nil
}

func pathFromElement(el Element) (Path, bool, error) {
	path := Path{
		ID:         el.Attr("id"),
		Type:       pathTypeFromMarkers(el.Attr("class") + " " + el.Attr("id")),
		Confidence: 0.7,
	}
	if strings.Contains(marker(el), "corridor") {
		path.Confidence = 0.9
	}
	if w := el.Attr("stroke-width"); w != "" {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(w), "px"), 64); err == nil {
			path.Width = &v
		}
	}

	var approximated bool
	switch el.Tag {
	case "line":
		vals, err := floatAttrs(el, "x1", "y1", "x2", "y2")
		if err != nil {
			return Path{}, false, err
		}
		path.Segments = []geometry.Segment{{
			Start: geometry.Point{X: vals[0], Y: vals[1]},
			End:   geometry.Point{X: vals[2], Y: vals[3]},
		}}
	case "polyline":
		pts, err := parsePointList(el.Attr("points"))
		if err != nil {
			return Path{}, false, err
		}
		path.Segments = geometry.SegmentsFromPoints(pts)
	case "path":
		segs, _, approx, err := parsePathData(el.Attr("d"))
		if err != nil {
			return Path{}, false, err
		}
		path.Segments = segs
		approximated = approx
	}
	if len(path.Segments) == 0 {
		return Path{}, false, ErrMissingGeometry
	}
	return path, approximated, nil
}

func labelFromElement(el Element) (Label, bool) {
	text := strings.Join(strings.Fields(el.Text), " ")
	if text == "" {
		return Label{}, false
	}
	vals, err := floatAttrs(el, "x", "y")
	if err != nil {
		return Label{}, false
	}
	return Label{Text: text, Position: geometry.Point{X: vals[0], Y: vals[1]}}, true
}

// floatAttrs parses the named attributes. A missing attribute reads as 0.
func floatAttrs(el Element, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		raw := strings.TrimSpace(el.Attr(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrBadNumber, name, raw)
		}
		out[i] = v
	}
	return out, nil
}

func roomTypeFromMarkers(s string) RoomType {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "stair"):
		return RoomTypeStair
	case strings.Contains(s, "elevator"), strings.Contains(s, "lift"):
		return RoomTypeElevator
	case strings.Contains(s, "exit"), strings.Contains(s, "entrance"):
		return RoomTypeExit
	case strings.Contains(s, "office"):
		return RoomTypeOffice
	}
	return RoomTypeRoom
}

func pathTypeFromMarkers(s string) PathType {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "corridor"):
		return PathTypeCorridor
	case strings.Contains(s, "hallway"):
		return PathTypeHallway
	case strings.Contains(s, "walkway"):
		return PathTypeWalkway
	}
	return PathTypeConnection
}

var numberRe = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

func parseNumbers(s string) ([]float64, error) {
	matches := numberRe.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, m)
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePointList(s string) ([]geometry.Point, error) {
	nums, err := parseNumbers(s)
	if err != nil {
		return nil, err
	}
	pts := make([]geometry.Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, geometry.Point{X: nums[i], Y: nums[i+1]})
	}
	return pts, nil
}

var pathTokenRe = regexp.MustCompile(`[MmLlHhVvZzCcSsQqTtAa]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Z': 0,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7,
}

// parsePathData walks SVG path data and returns the straight segments drawn,
// every vertex visited, and whether curve commands had to be approximated by
// a straight segment to their end point.
func parsePathData(d string) ([]geometry.Segment, []geometry.Point, bool, error) {
	tokens := pathTokenRe.FindAllString(d, -1)
	var (
		segs         []geometry.Segment
		vertices     []geometry.Point
		cur, start   geometry.Point
		cmd          byte
		approximated bool
	)

	lineTo := func(p geometry.Point) {
		segs = append(segs, geometry.Segment{Start: cur, End: p})
		vertices = append(vertices, p)
		cur = p
	}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if c := tok[0]; len(tok) == 1 && strings.ContainsRune("MmLlHhVvZzCcSsQqTtAa", rune(c)) {
			cmd = c
			i++
			if cmd == 'Z' || cmd == 'z' {
				if cur != start {
					lineTo(start)
				}
				cur = start
			}
			continue
		}
		if cmd == 0 {
			return nil, nil, false, fmt.Errorf("%w: path data must start with a command", ErrBadNumber)
		}

		upper := cmd &^ 0x20
		relative := cmd != upper
		n := pathArity[upper]
		if n == 0 || i+n > len(tokens) {
			return nil, nil, false, fmt.Errorf("%w: incomplete %c command", ErrBadNumber, cmd)
		}
		args := make([]float64, n)
		for k := 0; k < n; k++ {
			v, err := strconv.ParseFloat(tokens[i+k], 64)
			if err != nil {
				return nil, nil, false, fmt.Errorf("%w: %q", ErrBadNumber, tokens[i+k])
			}
			args[k] = v
		}
		i += n

		var next geometry.Point
		switch upper {
		case 'H':
			next = geometry.Point{X: args[0], Y: cur.Y}
			if relative {
				next.X += cur.X
			}
		case 'V':
			next = geometry.Point{X: cur.X, Y: args[0]}
			if relative {
				next.Y += cur.Y
			}
		default:
			next = geometry.Point{X: args[n-2], Y: args[n-1]}
			if relative {
				next.X += cur.X
				next.Y += cur.Y
			}
		}

		switch upper {
		case 'M':
			cur, start = next, next
			vertices = append(vertices, next)
			// Extra coordinate pairs after a moveto are implicit linetos.
			if relative {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'H', 'V':
			lineTo(next)
		default:
			approximated = true
			lineTo(next)
		}
	}
	return segs, vertices, approximated, nil
}
