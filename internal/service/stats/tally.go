package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

// DefectTally scans every record with defect data and returns the ranked
// frequency table (admin only). Each record contributes at most one count
// per (label, category); a record can hit both categories and several
// labels within one.
//
// Counts are ordered descending; ties keep the order in which labels were
// first observed across the scan, which is why the counter tracks
// insertion order explicitly.
func (s *Service) DefectTally(ctx context.Context, actorID string) ([]domain.DefectTallyEntry, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListDefectColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats.DefectTally: %w", err)
	}

	counter := newTallyCounter()
	for _, row := range rows {
		s.countColumn(ctx, counter, row.InspectionID, row.DefectiveItems, domain.DefectCategoryCar)
		s.countColumn(ctx, counter, row.InspectionID, row.TruckTrailerItems, domain.DefectCategoryTruckTrailer)
	}

	return counter.ranked(), nil
}

// countColumn normalizes one stored defect column and feeds its defective
// labels to the counter. A malformed column is logged and skipped; it must
// never abort the aggregation for the remaining records.
func (s *Service) countColumn(ctx context.Context, c *tallyCounter, inspectionID int64, raw []byte, category domain.DefectCategory) {
	m, err := domain.DecodeDefectMap(raw)
	if err != nil {
		s.log.WarnContext(ctx, "skipping malformed defect map",
			slog.Int64("inspection_id", inspectionID),
			slog.String("category", category.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, label := range m.Labels() {
		if m.Defective(label) {
			c.increment(label, category)
		}
	}
}

// ---------------------------------------------------------------------------
// Insertion-ordered counter
// ---------------------------------------------------------------------------

type tallyKey struct {
	label    string
	category domain.DefectCategory
}

type tallyCounter struct {
	order  []tallyKey
	counts map[tallyKey]int
}

func newTallyCounter() *tallyCounter {
	return &tallyCounter{counts: make(map[tallyKey]int)}
}

func (c *tallyCounter) increment(label string, category domain.DefectCategory) {
	key := tallyKey{label: label, category: category}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns entries sorted by count descending; the sort is stable
// over first-observation order so equal counts keep their original
// relative position.
func (c *tallyCounter) ranked() []domain.DefectTallyEntry {
	entries := make([]domain.DefectTallyEntry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, domain.DefectTallyEntry{
			Label:    key.label,
			Count:    c.counts[key],
			Category: key.category,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
