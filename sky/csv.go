package sky

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anawas/Karabo-Pipeline/types"
)

// numericColumns is the fixed numeric width of a catalog row: RA, Dec, the
// four Stokes fluxes, reference frequency, spectral index, rotation measure,
// and the three Gaussian shape parameters.
const numericColumns = 12

// FromCSVFile loads a source catalog from a CSV survey extract.
//
// Each record carries the 12 numeric source columns in order (RA deg,
// Dec deg, Stokes I/Q/U/V Jy, reference frequency Hz, spectral index,
// rotation measure, major/minor FWHM, position angle) plus an optional
// trailing source ID. A header row is detected by a non-numeric first field
// and skipped. Missing trailing numeric fields default to zero, matching
// survey extracts that omit shape columns.
//
// Parameters:
//   - path: Catalog file path
//
// Returns:
//   - *types.SourceCollection: Parsed catalog
//   - error: I/O or parse failure with the offending line number
func FromCSVFile(path string) (*types.SourceCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true

	catalog := types.NewSourceCollection()
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		line++

		if line == 1 && isHeader(record) {
			continue
		}

		src, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		catalog.Append(src)
	}

	return catalog, nil
}

// isHeader reports whether a record looks like a column header row.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)

	return err != nil
}

func parseRecord(record []string) (types.Source, error) {
	if len(record) < 2 {
		return types.Source{}, fmt.Errorf("expected at least RA and Dec, got %d fields", len(record))
	}

	var cols [numericColumns]float64
	limit := min(len(record), numericColumns)
	for i := 0; i < limit; i++ {
		field := strings.TrimSpace(record[i])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return types.Source{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		cols[i] = v
	}

	src := types.Source{
		RADeg:           cols[0],
		DecDeg:          cols[1],
		StokesI:         cols[2],
		StokesQ:         cols[3],
		StokesU:         cols[4],
		StokesV:         cols[5],
		RefFreqHz:       cols[6],
		SpectralIndex:   cols[7],
		RotationMeasure: cols[8],
		MajorAxisFWHM:   cols[9],
		MinorAxisFWHM:   cols[10],
		PositionAngle:   cols[11],
	}
	if len(record) > numericColumns {
		src.ID = strings.TrimSpace(record[numericColumns])
	}

	return src, nil
}
