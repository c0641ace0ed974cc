package recurring

import (
	"sort"
	"time"

	"github.com/budget-planner/backend/internal/domain/entity"
	"github.com/budget-planner/backend/internal/domain/valueobject"
)

// detectPatterns runs the per-merchant pipeline: sort by date, cluster by
// amount, analyze each qualifying cluster's intervals and build a pattern for
// every cluster that clears the confidence threshold. Clusters that do not
// qualify simply contribute nothing.
func detectPatterns(
	merchantName string,
	transactions []*entity.BankTransaction,
	today time.Time,
	cfg valueobject.DetectionConfig,
) []*entity.RecurringPattern {
	if len(transactions) < cfg.MinOccurrences {
		return nil
	}

	sorted := make([]*entity.BankTransaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var patterns []*entity.RecurringPattern
	for _, cluster := range clusterByAmount(sorted, cfg) {
		if len(cluster.Transactions) < cfg.MinOccurrences {
			continue
		}

		dates := make([]time.Time, len(cluster.Transactions))
		for i, tx := range cluster.Transactions {
			dates[i] = tx.Date
		}

		analysis, ok := analyzeIntervals(dates, cfg)
		if !ok {
			continue
		}

		patterns = append(patterns, buildPattern(merchantName, cluster, analysis, today, cfg))
	}

	return patterns
}
