// Package loader reads the tabular inputs of a scoring run: the zone
// universe, the survey point table and the species trait reference table.
package loader

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/survey"
	"github.com/tphakala/foodchain-go/internal/trait"
	"github.com/tphakala/foodchain-go/internal/zone"
)

// Supported trait file encodings. Reference tables from the national
// survey program ship in EUC-KR.
const (
	EncodingEUCKR = "euc-kr"
	EncodingUTF8  = "utf-8"
)

// Trait table header names, matching the reference CSV format.
const (
	headerSpecies      = "S_Name"
	headerDiet         = "Owls_foods"
	headerTrophic      = "D_Level"
	headerSubstitution = "Alternative_S"
)

// traitTableCache avoids re-parsing the trait reference table when several
// runs share one process. Keyed by absolute path and encoding.
var traitTableCache = gocache.New(5*time.Minute, 10*time.Minute)

// decodingReader wraps r with a charset decoder when needed.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case EncodingEUCKR:
		return transform.NewReader(r, korean.EUCKR.NewDecoder()), nil
	case EncodingUTF8, "":
		return r, nil
	default:
		return nil, errors.Newf("unsupported encoding: %q", encoding).
			Category(errors.CategoryConfiguration).
			Context("encoding", encoding).
			Build()
	}
}

// readCSV parses an entire CSV file into header and records.
func readCSV(path, encoding string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", filepath.Base(path)).
			Build()
	}
	defer file.Close()

	decoded, err := decodingReader(file, encoding)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.New(err).
			Category(errors.CategoryFileParsing).
			Context("path", filepath.Base(path)).
			Build()
	}
	if len(rows) == 0 {
		return nil, nil, errors.Newf("empty table: %s", filepath.Base(path)).
			Category(errors.CategoryFileParsing).
			Build()
	}

	return rows[0], rows[1:], nil
}

// columnIndex finds a header column by any of its accepted names,
// case-insensitively. Returns -1 when absent.
func columnIndex(header []string, names ...string) int {
	for i, h := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

// LoadZones reads the zone universe table. The zone ID column may be
// named BT_ID (survey program convention) or zone_id; all other columns
// are kept as opaque attributes.
func LoadZones(path string) ([]zone.Record, error) {
	header, rows, err := readCSV(path, EncodingUTF8)
	if err != nil {
		return nil, err
	}

	idCol := columnIndex(header, "BT_ID", "zone_id")
	if idCol < 0 {
		return nil, errors.Newf("zone table %s has no BT_ID or zone_id column", filepath.Base(path)).
			Category(errors.CategoryFileParsing).
			Build()
	}

	records := make([]zone.Record, 0, len(rows))
	for _, row := range rows {
		if idCol >= len(row) {
			continue
		}
		rec := zone.Record{ID: strings.TrimSpace(row[idCol])}
		for i, value := range row {
			if i == idCol || i >= len(header) {
				continue
			}
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]string)
			}
			rec.Attributes[header[i]] = value
		}
		records = append(records, rec)
	}

	return records, nil
}

// LoadSurveyPoints reads the survey point table. Counts stay textual;
// coercion is the enricher's job.
func LoadSurveyPoints(path string) ([]survey.Point, error) {
	header, rows, err := readCSV(path, EncodingUTF8)
	if err != nil {
		return nil, err
	}

	idCol := columnIndex(header, "id", "point_id")
	latCol := columnIndex(header, "latitude", "lat")
	lonCol := columnIndex(header, "longitude", "lon", "lng")
	speciesCol := columnIndex(header, "species", "species_name")
	countCol := columnIndex(header, "count", "individual_count")
	zoneCol := columnIndex(header, "BT_ID", "zone_id")

	if latCol < 0 || lonCol < 0 || speciesCol < 0 {
		return nil, errors.Newf("survey table %s is missing latitude, longitude or species columns", filepath.Base(path)).
			Category(errors.CategoryFileParsing).
			Build()
	}

	points := make([]survey.Point, 0, len(rows))
	for i, row := range rows {
		point := survey.Point{}
		if idCol >= 0 && idCol < len(row) {
			point.ID = strings.TrimSpace(row[idCol])
		}
		if point.ID == "" {
			point.ID = strconv.Itoa(i + 1)
		}
		if latCol < len(row) {
			point.Latitude, _ = strconv.ParseFloat(strings.TrimSpace(row[latCol]), 64)
		}
		if lonCol < len(row) {
			point.Longitude, _ = strconv.ParseFloat(strings.TrimSpace(row[lonCol]), 64)
		}
		if speciesCol < len(row) {
			point.Species = row[speciesCol]
		}
		if countCol >= 0 && countCol < len(row) {
			point.RawCount = row[countCol]
		}
		if zoneCol >= 0 && zoneCol < len(row) {
			point.ZoneID = strings.TrimSpace(row[zoneCol])
		}
		points = append(points, point)
	}

	return points, nil
}

// LoadTraitTable reads and parses the species trait reference table,
// caching the parsed table per path and encoding.
func LoadTraitTable(path, encoding string) (*trait.Table, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	cacheKey := absPath + "|" + strings.ToLower(encoding)

	if cached, found := traitTableCache.Get(cacheKey); found {
		return cached.(*trait.Table), nil
	}

	header, rows, err := readCSV(path, encoding)
	if err != nil {
		return nil, err
	}

	speciesCol := columnIndex(header, headerSpecies, "species", "species_name")
	dietCol := columnIndex(header, headerDiet, "diet_category")
	trophicCol := columnIndex(header, headerTrophic, "trophic_level")
	substCol := columnIndex(header, headerSubstitution, "substitution_class")

	if speciesCol < 0 || dietCol < 0 || trophicCol < 0 || substCol < 0 {
		return nil, errors.Newf("trait table %s is missing required columns", filepath.Base(path)).
			Category(errors.CategoryFileParsing).
			Build()
	}

	traits := make([]trait.SpeciesTrait, 0, len(rows))
	for _, row := range rows {
		maxCol := max(speciesCol, dietCol, trophicCol, substCol)
		if maxCol >= len(row) {
			continue
		}

		diet, err := trait.ParseDietCategory(row[dietCol])
		if err != nil {
			return nil, err
		}
		trophic, err := trait.ParseTrophicLevel(row[trophicCol])
		if err != nil {
			return nil, err
		}
		substitution, err := trait.ParseSubstitutionClass(row[substCol])
		if err != nil {
			return nil, err
		}

		traits = append(traits, trait.SpeciesTrait{
			Species:      strings.TrimSpace(row[speciesCol]),
			Diet:         diet,
			Trophic:      trophic,
			Substitution: substitution,
		})
	}

	table, err := trait.NewTable(traits)
	if err != nil {
		return nil, err
	}

	traitTableCache.Set(cacheKey, table, gocache.DefaultExpiration)
	return table, nil
}
