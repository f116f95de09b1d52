package models

// SpeciesRecord is one normalized row from the pest-ratings list.
// Records are loaded once per scan and never mutated afterwards.
type SpeciesRecord struct {
	ScientificName string
	CommonName     string
	Rating         string
	CCRFlag        bool
}

// ScanTarget is a SpeciesRecord prepared for marketplace searching:
// the query string is composed up front and the combined regulatory
// flag is filled in by the orchestrator at scan time.
type ScanTarget struct {
	ScientificName string
	CommonName     string
	Rating         string
	IsCCR          bool
	Query          string
}

// SeverityRank maps a pest rating to its queue priority. Lower ranks
// scan first; any unrecognized rating sorts after the known ones.
func SeverityRank(rating string) int {
	switch rating {
	case "A":
		return 0
	case "B":
		return 1
	case "C":
		return 2
	default:
		return 3
	}
}
