package chainmanager

import (
	"context"
	"math/big"
	"sync"

	"github.com/sirupsen/logrus"
)

// DepositQuery selects one asset manager balance.
type DepositQuery struct {
	ChainID string
	Token   string
}

// DepositResult is the outcome of one DepositQuery. Balance is zero when Err is set.
type DepositResult struct {
	ChainID string
	Token   string
	Balance *big.Int
	Err     error
}

// GetDeposits reads every queried balance concurrently. A failing chain yields a zero
// balance and its error; it never cancels the other reads. Results keep query order.
func (r *SpokeRegistry) GetDeposits(ctx context.Context, queries []DepositQuery) []DepositResult {
	results := make([]DepositResult, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query DepositQuery) {
			defer wg.Done()

			result := DepositResult{ChainID: query.ChainID, Token: query.Token, Balance: new(big.Int)}
			spoke, err := r.Get(query.ChainID)
			if err == nil {
				var balance *big.Int
				balance, err = spoke.GetDeposit(ctx, query.Token)
				if err == nil && balance != nil {
					result.Balance = balance
				}
			}
			if err != nil {
				result.Err = err
				r.logger.WithFields(logrus.Fields{
					"chain": query.ChainID,
					"token": query.Token,
				}).WithError(err).Warn("Failed to read deposit")
			}
			results[i] = result
		}(i, query)
	}
	wg.Wait()

	return results
}
