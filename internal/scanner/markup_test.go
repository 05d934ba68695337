package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan-navigator/internal/geometry"
)

func TestParsePathData(t *testing.T) {
	segs, vertices, approx, err := parsePathData("M 0 0 L 100 0 L 100 50 Z")
	require.NoError(t, err)
	assert.False(t, approx)
	require.Len(t, segs, 3)
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, segs[2].End)
	assert.Len(t, vertices, 4)

	segs, _, _, err = parsePathData("M10,10 h90 v40 l-90,0")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, geometry.Point{X: 100, Y: 10}, segs[0].End)
	assert.Equal(t, geometry.Point{X: 100, Y: 50}, segs[1].End)
	assert.Equal(t, geometry.Point{X: 10, Y: 50}, segs[2].End)

	segs, _, _, err = parsePathData("M0 0 50 0 50 50")
	require.NoError(t, err)
	assert.Len(t, segs, 2, "pairs after a moveto are implicit linetos")

	segs, _, approx, err = parsePathData("M0 0 C 10 10 20 10 30 0")
	require.NoError(t, err)
	assert.True(t, approx)
	require.Len(t, segs, 1)
	assert.Equal(t, geometry.Point{X: 30, Y: 0}, segs[0].End)

	_, _, _, err = parsePathData("10 10 L 20 20")
	assert.ErrorIs(t, err, ErrBadNumber)

	_, _, _, err = parsePathData("M 0 0 L 10")
	assert.ErrorIs(t, err, ErrBadNumber)
}

func TestPatternExtractorRequiresRoot(t *testing.T) {
	_, err := patternExtractor{}.Extract(`<rect class="room"/>`)
	assert.ErrorIs(t, err, ErrNoSVGRoot)

	doc, err := patternExtractor{}.Extract(`<svg><rect class='room' data-label="A &amp; B" x="1"/></svg>`)
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, "A & B", doc.Elements[0].Attr("data-label"))
	assert.Equal(t, "room", doc.Elements[0].Attr("class"))
}

func TestStructuralExtractorRequiresRoot(t *testing.T) {
	_, err := structuralExtractor{}.Extract(`<drawing><rect class="room"/></drawing>`)
	assert.ErrorIs(t, err, ErrNoSVGRoot)
}

func TestRoomAndPathTypes(t *testing.T) {
	assert.Equal(t, RoomTypeElevator, roomTypeFromMarkers("room lift-2"))
	assert.Equal(t, RoomTypeExit, roomTypeFromMarkers("room main-entrance"))
	assert.Equal(t, RoomTypeRoom, roomTypeFromMarkers("room"))
	assert.Equal(t, PathTypeHallway, pathTypeFromMarkers("path hallway"))
	assert.Equal(t, PathTypeWalkway, pathTypeFromMarkers("walkway path"))
}
