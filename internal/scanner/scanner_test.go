package scanner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/scanner"
)

const officeSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 300">
  <!-- ground floor -->
  <g id="rooms">
    <rect id="lab" class="room" x="10" y="10" width="100" height="80"/>
    <rect class="room stairwell" x="200" y="10" width="60" height="60"/>
    <rect class="room" x="300" y="10" width="5" height="5"/>
    <polygon class="room office" points="10,150 110,150 110,250 10,250"/>
  </g>
  <line class="corridor" x1="0" y1="120" x2="390" y2="120" stroke-width="8"/>
  <path class="path" d="M 150 120 L 150 280"/>
  <line class="corridor" x1="0" y1="290" x2="5" y2="290"/>
  <text x="60" y="50"><tspan>Chem Lab</tspan></text>
</svg>`

func fixedConfig() scanner.Config {
	cfg := scanner.DefaultConfig()
	cfg.Source = "office.svg"
	cfg.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return cfg
}

func TestScanMarkup(t *testing.T) {
	res, err := scanner.Scan([]byte(officeSVG), fixedConfig())
	require.NoError(t, err)

	assert.Empty(t, res.Errors)
	assert.Equal(t, scanner.FormatMarkup, res.Metadata.Format)
	assert.Equal(t, "structural", res.Metadata.Extractor)
	assert.Equal(t, "office.svg", res.Metadata.Source)
	assert.Equal(t, scanner.Version, res.Metadata.Version)
	assert.Equal(t, geometry.Bounds{X: 0, Y: 0, Width: 400, Height: 300}, res.Metadata.Bounds)
	assert.NotEmpty(t, res.Metadata.Fingerprint)

	require.Len(t, res.Rooms, 3, "the 5x5 room is noise")
	lab := res.Rooms[0]
	assert.Equal(t, "lab", lab.ID)
	assert.Equal(t, "Chem Lab", lab.Label)
	assert.Equal(t, 1.0, lab.Confidence)
	assert.Equal(t, scanner.RoomTypeRoom, lab.Type)

	stair := res.Rooms[1]
	assert.Equal(t, scanner.RoomTypeStair, stair.Type)
	assert.Equal(t, "ROOM_200_10_60_60", stair.ID)
	assert.Equal(t, 0.9, stair.Confidence)

	office := res.Rooms[2]
	assert.Equal(t, scanner.RoomTypeOffice, office.Type)
	assert.Equal(t, geometry.Bounds{X: 10, Y: 150, Width: 100, Height: 100}, office.Bounds)
	assert.Equal(t, 0.6, office.Confidence)

	require.Len(t, res.Paths, 2)
	corridor := res.Paths[0]
	assert.Equal(t, scanner.PathTypeCorridor, corridor.Type)
	assert.Equal(t, 0.9, corridor.Confidence)
	require.NotNil(t, corridor.Width)
	assert.Equal(t, 8.0, *corridor.Width)

	connector := res.Paths[1]
	assert.Equal(t, scanner.PathTypeConnection, connector.Type)
	assert.Equal(t, 0.7, connector.Confidence)
	assert.Equal(t, geometry.Point{X: 150, Y: 280}, connector.Segments[0].End)

	assert.Contains(t, res.Warnings, "discarded 1 room(s) smaller than 100 square units")
	assert.Contains(t, res.Warnings, "discarded 1 path(s) with no remaining segments")
}

func TestScanExtractorsAgree(t *testing.T) {
	structural, err := scanner.Scan([]byte(officeSVG), fixedConfig())
	require.NoError(t, err)

	cfg := fixedConfig()
	cfg.MarkupParser = scanner.MarkupPattern
	pattern, err := scanner.Scan([]byte(officeSVG), cfg)
	require.NoError(t, err)

	assert.Equal(t, "pattern", pattern.Metadata.Extractor)
	assert.Equal(t, structural.Rooms, pattern.Rooms)
	assert.Equal(t, structural.Paths, pattern.Paths)
	assert.Len(t, pattern.Warnings, len(structural.Warnings)+1)
}

func TestScanIsDeterministic(t *testing.T) {
	a, err := scanner.Scan([]byte(officeSVG), fixedConfig())
	require.NoError(t, err)
	b, err := scanner.Scan([]byte(officeSVG), fixedConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScanMalformedMarkupIsSoftFailure(t *testing.T) {
	res, err := scanner.Scan([]byte(`<svg><rect class="room" x="0" y="0" width="50" height="50"></svg>`), fixedConfig())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "SVG parsing error")
	assert.Empty(t, res.Rooms)
	assert.Contains(t, res.Warnings, "no rooms or paths found in input")
}

func TestScanBadRoomGeometryIsReported(t *testing.T) {
	svg := `<svg><rect class="room" x="abc" y="0" width="50" height="50"/><rect class="room" x="0" y="0" width="50" height="50"/></svg>`
	res, err := scanner.Scan([]byte(svg), fixedConfig())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "room 0")
	assert.Len(t, res.Rooms, 1)
}

const structuredPlan = `{
  "rooms": [
    {"id": "R1", "bounds": {"x": 0, "y": 0, "width": 100, "height": 50}, "name": "Lab"},
    {"x": 200, "y": 0},
    {"label": "nowhere"},
    {"id": 5}
  ],
  "corridors": [
    {"points": [{"x": 0, "y": 100}, {"x": 150, "y": 100}, {"x": 150, "y": 300}]}
  ],
  "walkways": [
    {"start": {"x": 300, "y": 0}, "end": {"x": 300, "y": 10}}
  ]
}`

func TestScanStructured(t *testing.T) {
	res, err := scanner.Scan([]byte(structuredPlan), fixedConfig())
	require.NoError(t, err)

	assert.Equal(t, scanner.FormatStructured, res.Metadata.Format)
	require.Len(t, res.Errors, 1, "room 3 has a numeric id")
	assert.Contains(t, res.Errors[0], "room 3")

	require.Len(t, res.Rooms, 2)
	assert.Equal(t, "R1", res.Rooms[0].ID)
	assert.Equal(t, "Lab", res.Rooms[0].Label)
	assert.Equal(t, "ROOM_200_0_100_100", res.Rooms[1].ID)

	require.Len(t, res.Paths, 1)
	assert.Equal(t, scanner.PathTypeCorridor, res.Paths[0].Type)
	assert.Len(t, res.Paths[0].Segments, 2)
	assert.Regexp(t, `^PATH_[0-9a-f]{8}$`, res.Paths[0].ID)

	assert.Contains(t, res.Warnings, "room 2: missing geometry: no bounds or x/y")
	assert.Equal(t, geometry.Bounds{X: 0, Y: 0, Width: 300, Height: 300}, res.Metadata.Bounds)
}

func TestScanPlanMatchesScan(t *testing.T) {
	x, y := 200.0, 0.0
	plan := &scanner.Plan{
		Rooms: []scanner.PlanRoom{{X: &x, Y: &y}},
		Corridors: []scanner.PlanPath{{
			Points: []geometry.Point{{X: 0, Y: 100}, {X: 150, Y: 100}},
		}},
	}
	res, err := scanner.ScanPlan(plan, fixedConfig())
	require.NoError(t, err)
	require.Len(t, res.Rooms, 1)
	assert.Equal(t, "ROOM_200_0_100_100", res.Rooms[0].ID)
	require.Len(t, res.Paths, 1)

	_, err = scanner.ScanPlan(nil, fixedConfig())
	assert.ErrorIs(t, err, scanner.ErrUnsupportedFormat)
}

func TestIdenticalBoundsShareRoomID(t *testing.T) {
	b := geometry.Bounds{X: 12.004, Y: 7, Width: 40, Height: 30}
	assert.Equal(t, scanner.RoomID(geometry.NormalizeBounds(b)), scanner.RoomID(geometry.NormalizeBounds(b)))
	assert.Equal(t, "ROOM_12_7_40_30", scanner.RoomID(geometry.NormalizeBounds(b)))
}

func TestScanHardFailures(t *testing.T) {
	_, err := scanner.Scan([]byte("just some text"), fixedConfig())
	assert.ErrorIs(t, err, scanner.ErrUnsupportedFormat)

	_, err = scanner.Scan([]byte(`{"floors": []}`), fixedConfig())
	assert.ErrorIs(t, err, scanner.ErrUnsupportedFormat)

	_, err = scanner.Scan([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), fixedConfig())
	assert.ErrorIs(t, err, scanner.ErrRasterNotSupported)
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		filename string
		want     scanner.Format
	}{
		{"svg", `<svg></svg>`, "", scanner.FormatMarkup},
		{"xml prolog", `<?xml version="1.0"?><svg/>`, "", scanner.FormatMarkup},
		{"json", `{"rooms": []}`, "", scanner.FormatStructured},
		{"truncated json", `{"rooms": [`, "", scanner.FormatStructured},
		{"json without plan keys", `{"a": 1}`, "", scanner.FormatUnknown},
		{"extension hint", `<drawing/>`, "plan.svg", scanner.FormatMarkup},
		{"raster extension", `not really`, "plan.png", scanner.FormatRaster},
		{"text", `hello`, "", scanner.FormatUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, scanner.DetectFormat([]byte(c.input), c.filename))
		})
	}
}

func TestSimplifyTolerance(t *testing.T) {
	svg := `<svg><polyline class="corridor" points="0,0 50,0.5 100,0 100,100"/></svg>`

	plain, err := scanner.Scan([]byte(svg), fixedConfig())
	require.NoError(t, err)
	require.Len(t, plain.Paths, 1)
	assert.Len(t, plain.Paths[0].Segments, 3)

	cfg := fixedConfig()
	cfg.SimplifyTolerance = 1
	simplified, err := scanner.Scan([]byte(svg), cfg)
	require.NoError(t, err)
	require.Len(t, simplified.Paths, 1)
	assert.Equal(t, []geometry.Segment{
		{Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 100, Y: 0}},
		{Start: geometry.Point{X: 100, Y: 0}, End: geometry.Point{X: 100, Y: 100}},
	}, simplified.Paths[0].Segments)
}
