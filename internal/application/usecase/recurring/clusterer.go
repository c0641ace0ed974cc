package recurring

import (
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/domain/entity"
	"github.com/budget-planner/backend/internal/domain/valueobject"
)

// amountCluster groups same-merchant transactions that share one amount
// archetype. The anchor is the amount of the first transaction ever assigned
// to the cluster and is the reference every later candidate is compared to.
type amountCluster struct {
	Anchor       decimal.Decimal
	Transactions []*entity.BankTransaction
}

// clusterByAmount partitions transactions of a single merchant into
// tolerance-based amount clusters using greedy first-fit: each transaction
// joins the first cluster whose anchor it is within tolerance of, otherwise
// it opens a new cluster. Transactions must arrive in ascending date order;
// the encounter order determines which amount becomes an anchor.
func clusterByAmount(transactions []*entity.BankTransaction, cfg valueobject.DetectionConfig) []*amountCluster {
	var clusters []*amountCluster

	for _, tx := range transactions {
		var target *amountCluster
		for _, cluster := range clusters {
			if cfg.IsAmountWithinTolerance(cluster.Anchor, tx.Amount) {
				target = cluster
				break
			}
		}

		if target == nil {
			clusters = append(clusters, &amountCluster{
				Anchor:       tx.Amount,
				Transactions: []*entity.BankTransaction{tx},
			})
			continue
		}
		target.Transactions = append(target.Transactions, tx)
	}

	return clusters
}
