package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"weedwatch/models"
	"weedwatch/utils"
)

// Canonical field keys used in the alias table below.
const (
	fieldScientific = "scientific_name"
	fieldCommon     = "common_name"
	fieldRating     = "rating"
	fieldCCR        = "is_ccr"
)

// fieldAliases maps each canonical field to the header spellings seen
// in the regulatory exports. Matching is via utils.Norm, so case and
// spacing in the file do not matter.
var fieldAliases = map[string][]string{
	fieldScientific: {"scientific name", "scientific_name"},
	fieldCommon:     {"common name", "common_name"},
	fieldRating:     {"cdfa pest rating", "pest rating", "rating"},
	fieldCCR:        {"ccr 4500 noxious weeds", "is_ccr", "ccr"},
}

// delimiters tried in order. The exports are normally comma-separated,
// but some arrive tab- or semicolon-delimited; we re-parse with the
// next delimiter whenever the scientific-name column cannot be found.
var delimiters = []rune{',', '\t', ';'}

// Loader reads the two regulatory lists into memory.
//
// Missing-column policy: the scientific-name column is required in both
// files and its absence is a configuration error. A missing common-name
// column defaults to "", a missing rating column to "N/A", and a
// missing noxious-flag column to false.
type Loader struct {
	ratingsPath string
	noxiousPath string
	logger      *utils.Logger
}

// NewLoader creates a Loader for the given CSV paths.
func NewLoader(ratingsPath, noxiousPath string, logger *utils.Logger) *Loader {
	return &Loader{ratingsPath: ratingsPath, noxiousPath: noxiousPath, logger: logger}
}

// Load parses both lists and returns the species records plus the
// noxious name set.
func (l *Loader) Load() ([]*models.SpeciesRecord, NameSet, error) {
	records, err := l.LoadRatings()
	if err != nil {
		return nil, nil, err
	}
	noxious, err := l.LoadNoxious()
	if err != nil {
		return nil, nil, err
	}
	return records, noxious, nil
}

// LoadRatings parses the pest-ratings list into normalized records.
func (l *Loader) LoadRatings() ([]*models.SpeciesRecord, error) {
	header, rows, cols, err := readTable(l.ratingsPath)
	if err != nil {
		return nil, err
	}

	if _, ok := cols[fieldRating]; !ok {
		l.logger.Warn("[refdata] %s has no rating column (header: %v) — defaulting ratings to N/A", l.ratingsPath, header)
	}

	records := make([]*models.SpeciesRecord, 0, len(rows))
	for _, row := range rows {
		sci := cell(row, cols, fieldScientific)
		if isHeaderEcho(sci) {
			continue
		}
		sci = utils.CollapseSpace(sci)
		if sci == "" {
			continue
		}

		rating := "N/A"
		if v := cell(row, cols, fieldRating); v != "" {
			rating = strings.ToUpper(v)
		}

		records = append(records, &models.SpeciesRecord{
			ScientificName: sci,
			CommonName:     utils.CollapseSpace(cell(row, cols, fieldCommon)),
			Rating:         rating,
			CCRFlag:        utils.YesNo(cell(row, cols, fieldCCR)),
		})
	}

	l.logger.Info("[refdata] Loaded %d species records from %s", len(records), l.ratingsPath)
	return records, nil
}

// LoadNoxious parses the noxious-weed list into a normalized name set.
func (l *Loader) LoadNoxious() (NameSet, error) {
	_, rows, cols, err := readTable(l.noxiousPath)
	if err != nil {
		return nil, err
	}

	set := NewNameSet()
	for _, row := range rows {
		sci := cell(row, cols, fieldScientific)
		if isHeaderEcho(sci) {
			continue
		}
		set.Add(sci)
	}

	l.logger.Info("[refdata] Loaded %d noxious names from %s", set.Len(), l.noxiousPath)
	return set, nil
}

// readTable reads a delimited file, locating columns via the alias
// table. It retries with alternate delimiters until the required
// scientific-name column shows up.
func readTable(path string) (header []string, rows [][]string, cols map[string]int, err error) {
	for _, delim := range delimiters {
		header, rows, err = readRows(path, delim)
		if err != nil {
			return nil, nil, nil, err
		}
		cols = locateColumns(header)
		if _, ok := cols[fieldScientific]; ok {
			return header, rows, cols, nil
		}
	}
	return nil, nil, nil, fmt.Errorf("refdata: required scientific-name column missing in %s (header: %v)", path, header)
}

func readRows(path string, delim rune) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("refdata: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		record, rerr := r.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, nil, fmt.Errorf("refdata: parse %s: %w", path, rerr)
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, nil, fmt.Errorf("refdata: %s is empty", path)
	}
	return header, rows, nil
}

// locateColumns maps canonical fields to column indexes by consulting
// the alias table once per header.
func locateColumns(header []string) map[string]int {
	cols := make(map[string]int, len(fieldAliases))
	for i, h := range header {
		key := utils.Norm(h)
		for field, aliases := range fieldAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if key == alias {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

// cell returns the trimmed value of a canonical field in a row, or ""
// when the column is absent or the row is short.
func cell(row []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(row) {
		return ""
	}
	return utils.CollapseSpace(row[i])
}

// isHeaderEcho reports whether a scientific-name cell is actually a
// duplicated header row that slipped into the data.
func isHeaderEcho(sci string) bool {
	key := utils.Norm(sci)
	for _, alias := range fieldAliases[fieldScientific] {
		if key == alias {
			return true
		}
	}
	return false
}
