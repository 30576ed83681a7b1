package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadZones(t *testing.T) {
	path := writeTempCSV(t, "zones.csv",
		"BT_ID,AREA\nZ1,12.5\nZ2,3.0\n")

	records, err := LoadZones(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Z1", records[0].ID)
	assert.Equal(t, "12.5", records[0].Attributes["AREA"])
	assert.Equal(t, "Z2", records[1].ID)
}

func TestLoadZonesAcceptsZoneIDHeader(t *testing.T) {
	path := writeTempCSV(t, "zones.csv", "zone_id\nZ1\n")

	records, err := LoadZones(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Z1", records[0].ID)
}

func TestLoadZonesMissingIDColumn(t *testing.T) {
	path := writeTempCSV(t, "zones.csv", "name\nmeadow\n")

	_, err := LoadZones(path)
	require.Error(t, err)
}

func TestLoadSurveyPoints(t *testing.T) {
	path := writeTempCSV(t, "survey.csv",
		"id,latitude,longitude,species,count,BT_ID\n"+
			"p1,37.5,127.1,vole,3,Z1\n"+
			"p2,37.6,127.2,owl,,Z2\n")

	points, err := LoadSurveyPoints(path)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "p1", points[0].ID)
	assert.InDelta(t, 37.5, points[0].Latitude, 1e-9)
	assert.InDelta(t, 127.1, points[0].Longitude, 1e-9)
	assert.Equal(t, "vole", points[0].Species)
	assert.Equal(t, "3", points[0].RawCount)
	assert.Equal(t, "Z1", points[0].ZoneID)

	// Counts stay textual; an empty field is preserved for the enricher.
	assert.Equal(t, "", points[1].RawCount)
	assert.Equal(t, "Z2", points[1].ZoneID)
}

func TestLoadSurveyPointsGeneratesMissingIDs(t *testing.T) {
	path := writeTempCSV(t, "survey.csv",
		"latitude,longitude,species\n37.5,127.1,vole\n37.6,127.2,owl\n")

	points, err := LoadSurveyPoints(path)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "1", points[0].ID)
	assert.Equal(t, "2", points[1].ID)
	assert.Empty(t, points[0].ZoneID)
}

func TestLoadSurveyPointsMissingRequiredColumns(t *testing.T) {
	path := writeTempCSV(t, "survey.csv", "latitude,longitude\n37.5,127.1\n")

	_, err := LoadSurveyPoints(path)
	require.Error(t, err)
}

func TestLoadTraitTableUTF8(t *testing.T) {
	path := writeTempCSV(t, "traits.csv",
		"S_Name,Owls_foods,D_Level,Alternative_S\n"+
			"vole,Prey_S,D3,Normal_S\n"+
			"owl,Normal_S,D1,Threatened_S\n")

	table, err := LoadTraitTable(path, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	row, ok := table.Lookup("vole")
	require.True(t, ok)
	assert.True(t, row.Diet.IsPrey())
}

func TestLoadTraitTableEUCKR(t *testing.T) {
	utf8Content := "S_Name,Owls_foods,D_Level,Alternative_S\n" +
		"수리부엉이,Normal_S,D1,Threatened_S\n" +
		"등줄쥐,Prey_S,D3,Normal_S\n"

	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), utf8Content)
	require.NoError(t, err)

	path := writeTempCSV(t, "traits_kr.csv", encoded)

	table, err := LoadTraitTable(path, EncodingEUCKR)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	row, ok := table.Lookup("등줄쥐")
	require.True(t, ok)
	assert.True(t, row.Diet.IsPrey())
}

func TestLoadTraitTableRejectsUnknownLabels(t *testing.T) {
	path := writeTempCSV(t, "traits.csv",
		"S_Name,Owls_foods,D_Level,Alternative_S\n"+
			"vole,Carnivore_S,D3,Normal_S\n")

	_, err := LoadTraitTable(path, EncodingUTF8)
	require.Error(t, err)
}

func TestLoadTraitTableUnsupportedEncoding(t *testing.T) {
	path := writeTempCSV(t, "traits.csv",
		"S_Name,Owls_foods,D_Level,Alternative_S\nvole,Prey_S,D3,Normal_S\n")

	_, err := LoadTraitTable(path, "shift-jis")
	require.Error(t, err)
}

func TestLoadTraitTableCaches(t *testing.T) {
	path := writeTempCSV(t, "traits.csv",
		"S_Name,Owls_foods,D_Level,Alternative_S\nvole,Prey_S,D3,Normal_S\n")

	first, err := LoadTraitTable(path, EncodingUTF8)
	require.NoError(t, err)

	second, err := LoadTraitTable(path, EncodingUTF8)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
