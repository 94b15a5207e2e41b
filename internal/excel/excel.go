package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"location-dedup/internal/geo"
	"location-dedup/internal/models"

	"github.com/xuri/excelize/v2"
)

// Column order of location sheets.
const (
	colID = iota
	colName
	colAddress
	colCity
	colPostalCode
	colCountry
	colLatitude
	colLongitude
)

func parseCoord(val string) (float64, error) {
	// Accept comma as decimal separator
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func OpenFile(filename string) (*excelize.File, error) {
	return excelize.OpenFile(filename)
}

// ReadLocations reads one location per row below the header of sheetName, or of the active sheet when
// sheetName is empty.
func ReadLocations(f *excelize.File, sheetName string) ([]models.Location, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("excel: failed to read sheet %q: %w", sheetName, err)
	}
	return LocationsFromRows(rows), nil
}

// LocationsFromRows converts raw rows in location column order, skipping the header row. Rows without
// any value are skipped and unparsable or out-of-range coordinates are left empty. Rows without an ID
// get one derived from their 1-based row number.
func LocationsFromRows(rows [][]string) []models.Location {
	locations := []models.Location{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		loc := models.Location{
			ID:         cell(row, colID),
			Name:       cell(row, colName),
			Address:    cell(row, colAddress),
			City:       cell(row, colCity),
			PostalCode: cell(row, colPostalCode),
			Country:    cell(row, colCountry),
		}

		lat, err1 := parseCoord(cell(row, colLatitude))
		lon, err2 := parseCoord(cell(row, colLongitude))
		if err1 == nil && err2 == nil && geo.Valid(lat, lon) {
			loc.Latitude = models.Coord(lat)
			loc.Longitude = models.Coord(lon)
		}

		if loc.ID == "" && loc.IsEmpty() {
			continue
		}
		if loc.ID == "" {
			loc.ID = fmt.Sprintf("row-%d", i+1)
		}
		locations = append(locations, loc)
	}
	return locations
}

const DefaultReportSheet = "Duplicates"

var reportHeaders = []interface{}{
	"Candidate ID", "Candidate Name", "Candidate Address", "Candidate City", "Candidate Postal Code",
	"Match ID", "Match Name", "Match Address", "Match City", "Match Postal Code",
	"Similarity (%)", "Distance (km)", "Reasons",
}

// WriteReports writes one row per candidate/match pair to a new workbook at path. Unique candidates get a
// single row with empty match columns.
func WriteReports(path string, reports []models.DuplicateReport, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultReportSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("excel: failed to create sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("excel: failed to create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", reportHeaders); err != nil {
		return fmt.Errorf("excel: failed to write header: %w", err)
	}

	rowNum := 2
	for _, r := range reports {
		c := r.Candidate
		candidateCols := []interface{}{c.ID, c.Name, c.Address, c.City, c.PostalCode}

		if len(r.Matches) == 0 {
			row := append(candidateCols, "", "", "", "", "", "", "", "")
			if err := writeRow(sw, rowNum, row); err != nil {
				return err
			}
			rowNum++
			continue
		}

		for _, m := range r.Matches {
			l := m.Location
			var distance interface{} = ""
			if m.DistanceKm != nil {
				distance = math.Round(*m.DistanceKm*100) / 100
			}
			row := append(append([]interface{}{}, candidateCols...),
				l.ID, l.Name, l.Address, l.City, l.PostalCode,
				math.Round(m.Similarity*1000)/10, distance, strings.Join(m.MatchReasons, "; "),
			)
			if err := writeRow(sw, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("excel: failed to flush rows: %w", err)
	}

	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("excel: failed to drop default sheet: %w", err)
		}
	}
	if index, err := f.GetSheetIndex(sheetName); err == nil {
		f.SetActiveSheet(index)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel: failed to save %s: %w", path, err)
	}
	return nil
}

func writeRow(sw *excelize.StreamWriter, rowNum int, row []interface{}) error {
	ref, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := sw.SetRow(ref, row); err != nil {
		return fmt.Errorf("excel: failed to write row %d: %w", rowNum, err)
	}
	return nil
}
