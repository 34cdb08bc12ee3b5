package solana

import (
	"context"
	"sort"

	sol "github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// defaultComputeUnits is used when simulation fails.
	defaultComputeUnits uint64 = 200_000
	// computeUnitBuffer is the percentage applied to simulated compute units.
	computeUnitBuffer uint64 = 120
	// maxComputeUnits is the per-transaction compute limit.
	maxComputeUnits uint64 = 1_400_000
	// defaultPriorityFee is the compute unit price in micro-lamports used when no recent fees are known.
	defaultPriorityFee uint64 = 1_000
	// baseSignatureFee is the lamports charged per signature.
	baseSignatureFee uint64 = 5_000
)

// simulateComputeUnits simulates the instructions to calculate required compute units.
// Signature verification is off for simulation, so the transaction carries an empty signature.
func (s *solana) simulateComputeUnits(ctx context.Context, client Client, instructions []sol.Instruction, payer sol.PublicKey, blockhash sol.Hash) (uint64, error) {
	tx, err := sol.NewTransaction(instructions, blockhash, sol.TransactionPayer(payer))
	if err != nil {
		return 0, errors.Wrap(err, "failed to create transaction")
	}
	tx.Signatures = make([]sol.Signature, 1)

	sim, err := client.SimulateTransaction(ctx, tx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to simulate transaction")
	}
	if sim == nil || sim.Value == nil {
		return 0, errors.New("empty simulation result")
	}
	if sim.Value.Err != nil {
		return 0, errors.Errorf("simulation failed: %v", sim.Value.Err)
	}
	if sim.Value.UnitsConsumed == nil {
		return 0, errors.New("simulation did not report compute units")
	}
	return *sim.Value.UnitsConsumed, nil
}

// computeUnitLimit returns the buffered compute unit limit for instructions.
func (s *solana) computeUnitLimit(ctx context.Context, client Client, instructions []sol.Instruction, payer sol.PublicKey, blockhash sol.Hash) uint64 {
	units, err := s.simulateComputeUnits(ctx, client, instructions, payer, blockhash)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to simulate transaction, using default compute units")
		units = defaultComputeUnits
	}

	units = (units * computeUnitBuffer) / 100
	if units > maxComputeUnits {
		units = maxComputeUnits
	}
	return units
}

// getPriorityFee returns the median of recently paid compute unit prices for the given program.
func (s *solana) getPriorityFee(ctx context.Context, client Client, program sol.PublicKey) uint64 {
	fees, err := client.GetRecentPrioritizationFees(ctx, sol.PublicKeySlice{program})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to get recent prioritization fees, using default")
		return defaultPriorityFee
	}
	if len(fees) == 0 {
		return defaultPriorityFee
	}

	values := make([]uint64, 0, len(fees))
	for _, fee := range fees {
		values = append(values, fee.PrioritizationFee)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values[len(values)/2]
}

// withComputeBudget prepends compute unit limit and price instructions.
func (s *solana) withComputeBudget(ctx context.Context, client Client, instructions []sol.Instruction, payer sol.PublicKey, blockhash sol.Hash) ([]sol.Instruction, error) {
	units := s.computeUnitLimit(ctx, client, instructions, payer, blockhash)
	priorityFee := s.getPriorityFee(ctx, client, instructions[len(instructions)-1].ProgramID())

	s.logger.WithFields(logrus.Fields{
		"chainID":      s.config.ID,
		"computeUnits": units,
		"priorityFee":  priorityFee,
		"costInSol":    lamportsToSol(estimateCost(units, priorityFee)),
	}).Debug("Compute budget estimated")

	setComputeUnitLimitIx, err := computebudget.NewSetComputeUnitLimitInstruction(uint32(units)).ValidateAndBuild()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create compute unit limit instruction")
	}
	setPriorityFeeIx, err := computebudget.NewSetComputeUnitPriceInstruction(priorityFee).ValidateAndBuild()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create priority fee instruction")
	}

	final := make([]sol.Instruction, 0, len(instructions)+2)
	final = append(final, setComputeUnitLimitIx, setPriorityFeeIx)
	return append(final, instructions...), nil
}

// estimateCost returns the lamports paid for one signature plus the priority fee.
func estimateCost(units, microLamportsPerUnit uint64) uint64 {
	return baseSignatureFee + (units*microLamportsPerUnit)/1_000_000
}

// lamportsToSol converts lamports to SOL for logging.
func lamportsToSol(lamports uint64) float64 {
	return float64(lamports) / 1e9
}
