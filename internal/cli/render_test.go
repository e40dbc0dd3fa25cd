package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcePortalApi/internal/attendance"
)

func sampleProjections() []attendance.CategoryProjection {
	target := 75
	data := map[string]attendance.CategoryData{
		"Regular": {TotalClasses: 20, Presentees: 18, TotalAttendance: "90.00"},
		"ECA":     {TotalClasses: 10, Presentees: 2, TotalAttendance: "20.00"},
	}
	return attendance.ProjectAll(data, &target)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Count"},
		Rows:    [][]string{{"a", "1"}, {"longer", "123"}},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Name")
	assert.Contains(t, lines[3], "│ a      │")
	assert.Contains(t, lines[4], "│ longer │   123 │")

	assert.Empty(t, RenderTable(Table{}))
}

func TestProjectionTable(t *testing.T) {
	target := 75
	table := ProjectionTable(sampleProjections(), &target)

	assert.Equal(t, "Attendance (target 75%)", table.Title)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "ECA", table.Rows[0][0])
	assert.Contains(t, table.Rows[0][4], "unreachable (22 > 6 left)")
	assert.Equal(t, "Regular", table.Rows[1][0])
	assert.Equal(t, "can bunk 4", table.Rows[1][4])

	out := RenderTable(table)
	assert.Contains(t, out, "can bunk 4")
}

func TestWriteProjectionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProjectionsCSV(&buf, sampleProjections()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Category,Total Classes,Attended,Current %,Standing,Mode,Count,Max Remaining", lines[0])
	assert.Equal(t, "ECA,10,2,20.00,low,unreachable,22,6", lines[1])
	assert.Equal(t, "Regular,20,18,90.00,good,bunk,4,0", lines[2])
}
