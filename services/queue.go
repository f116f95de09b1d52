package services

import (
	"sort"

	"weedwatch/models"
	"weedwatch/utils"
)

// BuildQueue converts species records into an ordered list of scan
// targets, prioritized by regulatory severity. The list is truncated
// to maxItems after sorting, so the result is always a strict prefix
// of the full priority order.
func BuildQueue(records []*models.SpeciesRecord, maxItems int) []models.ScanTarget {
	targets := make([]models.ScanTarget, 0, len(records))
	for _, r := range records {
		targets = append(targets, models.ScanTarget{
			ScientificName: r.ScientificName,
			CommonName:     r.CommonName,
			Rating:         r.Rating,
			IsCCR:          r.CCRFlag,
			Query:          utils.CollapseSpace(r.ScientificName + " " + r.CommonName),
		})
	}

	sort.SliceStable(targets, func(i, j int) bool {
		ri, rj := models.SeverityRank(targets[i].Rating), models.SeverityRank(targets[j].Rating)
		if ri != rj {
			return ri < rj
		}
		return targets[i].ScientificName < targets[j].ScientificName
	})

	if maxItems >= 0 && len(targets) > maxItems {
		targets = targets[:maxItems]
	}
	return targets
}
