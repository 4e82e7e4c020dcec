package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"delivery-trends/analytics"
	"delivery-trends/helpers"
)

// handleExportSeriesCSV streams the interest series as CSV: one row per
// week, one column per brand. Missing values become empty cells.
func (s *Server) handleExportSeriesCSV(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=trends_series_%d.csv", time.Now().Unix()))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := append([]string{"date"}, snapshot.Series.Brands...)
	writer.Write(header)

	for i, date := range snapshot.Series.Dates {
		row := make([]string, 0, len(header))
		row = append(row, date.Format("2006-01-02"))
		for _, brand := range snapshot.Series.Brands {
			v := snapshot.Series.Values[brand][i]
			if v == nil {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(*v, 'f', -1, 64))
			}
		}
		writer.Write(row)
	}
}

// handleExportRegionsCSV streams the region table as CSV.
func (s *Server) handleExportRegionsCSV(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=trends_regions_%d.csv", time.Now().Unix()))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := append([]string{"region"}, snapshot.Regions.Brands...)
	writer.Write(header)

	for _, region := range snapshot.Regions.Regions() {
		row := make([]string, 0, len(header))
		row = append(row, region)
		for _, brand := range snapshot.Regions.Brands {
			row = append(row, strconv.FormatFloat(snapshot.Regions.Scores[region][brand], 'f', -1, 64))
		}
		writer.Write(row)
	}
}

// handleExportSummary generates the markdown summary document: peak values
// per brand and the top-5 regions for the selected brand.
func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	brand := s.brandParam(r)
	if brand == "" {
		respondWithError(w, http.StatusBadRequest, "unknown brand", nil)
		return
	}

	snapshot := s.service.Snapshot(r.Context())

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=trends_summary_%d.md", time.Now().Unix()))

	fmt.Fprintf(w, "# Search Interest Summary\n\n")
	fmt.Fprintf(w, "Generated %s. Geography: %s. Horizon: %s.\n\n",
		time.Now().UTC().Format("2006-01-02 15:04 MST"), snapshot.Geo, snapshot.Timeframe)
	if snapshot.Warning != "" {
		fmt.Fprintf(w, "> ⚠️  %s\n\n", snapshot.Warning)
	}

	fmt.Fprintf(w, "## Peak Interest\n\n")
	for _, peak := range analytics.Peaks(snapshot.Series) {
		fmt.Fprintf(w, "- **%s**: %s index on %s\n",
			peak.Brand, helpers.FormatIndex(peak.Value), peak.Date.Format("2006-01-02"))
	}

	fmt.Fprintf(w, "\n## Top 5 Regions — %s\n\n", brand)
	for i, rank := range analytics.TopRegions(snapshot.Regions, brand, 5) {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, rank.Region, helpers.FormatIndex(rank.Value))
	}
}
