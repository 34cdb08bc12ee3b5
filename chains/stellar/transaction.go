package stellar

import (
	"context"
	"math/big"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

const (
	txTimeout = 300
	// readOnlyAccount is the all-zero account used as source of read-only simulations.
	readOnlyAccount = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"
)

type simulateResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

type simulateResponse struct {
	Error           string           `json:"error"`
	TransactionData string           `json:"transactionData"`
	MinResourceFee  int64            `json:"minResourceFee,string"`
	Results         []simulateResult `json:"results"`
	LatestLedger    int64            `json:"latestLedger"`
}

type sendResponse struct {
	Status         string `json:"status"`
	Hash           string `json:"hash"`
	ErrorResultXDR string `json:"errorResultXdr"`
}

// newInvocation builds a single InvokeHostFunction transaction from source.
func (s *stellar) newInvocation(source txnbuild.Account, args xdr.InvokeContractArgs, fee int64, auth []xdr.SorobanAuthorizationEntry, data *xdr.SorobanTransactionData) (*txnbuild.Transaction, error) {
	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type:           xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &args,
		},
		Auth: auth,
	}
	if data != nil {
		op.Ext = xdr.TransactionExt{V: 1, SorobanData: data}
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        source,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              fee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(txTimeout)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transaction")
	}
	return tx, nil
}

// simulate runs tx through Soroban simulateTransaction; a simulation error is ErrSimulationFailed.
func (s *stellar) simulate(ctx context.Context, tx *txnbuild.Transaction) (*simulateResponse, error) {
	envelope, err := tx.Base64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode transaction")
	}

	var resp simulateResponse
	if err := s.soroban.Call(ctx, "simulateTransaction", map[string]string{"transaction": envelope}, &resp); err != nil {
		return nil, errors.Wrap(commonerrors.ErrSimulationFailed, err.Error())
	}
	if resp.Error != "" {
		return nil, errors.Wrap(commonerrors.ErrSimulationFailed, resp.Error)
	}
	return &resp, nil
}

// readContract simulates a read-only invocation and returns its return value.
func (s *stellar) readContract(ctx context.Context, args xdr.InvokeContractArgs) (xdr.ScVal, error) {
	source := txnbuild.NewSimpleAccount(readOnlyAccount, 0)
	tx, err := s.newInvocation(&source, args, txnbuild.MinBaseFee, nil, nil)
	if err != nil {
		return xdr.ScVal{}, err
	}
	resp, err := s.simulate(ctx, tx)
	if err != nil {
		return xdr.ScVal{}, err
	}
	if len(resp.Results) == 0 {
		return xdr.ScVal{}, errors.Wrap(commonerrors.ErrSimulationFailed, "simulation returned no result")
	}

	var val xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(resp.Results[0].XDR, &val); err != nil {
		return xdr.ScVal{}, errors.Wrap(err, "failed to decode simulation result")
	}
	return val, nil
}

// prepareTransaction simulates the invocation from source and assembles the footprint, auth
// entries and resource fee into the final transaction.
func (s *stellar) prepareTransaction(ctx context.Context, source string, args xdr.InvokeContractArgs) (*txnbuild.Transaction, error) {
	account, err := s.accounts.AccountDetail(horizonclient.AccountRequest{AccountID: source})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load account %s", source)
	}

	draft := txnbuild.NewSimpleAccount(source, account.Sequence)
	tx, err := s.newInvocation(&draft, args, txnbuild.MinBaseFee, nil, nil)
	if err != nil {
		return nil, err
	}
	sim, err := s.simulate(ctx, tx)
	if err != nil {
		return nil, err
	}

	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionData, &data); err != nil {
		return nil, errors.Wrap(err, "failed to decode soroban transaction data")
	}
	var auth []xdr.SorobanAuthorizationEntry
	if len(sim.Results) > 0 {
		for _, entry := range sim.Results[0].Auth {
			var a xdr.SorobanAuthorizationEntry
			if err := xdr.SafeUnmarshalBase64(entry, &a); err != nil {
				return nil, errors.Wrap(err, "failed to decode authorization entry")
			}
			auth = append(auth, a)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"chainID":     s.config.ID,
		"function":    string(args.FunctionName),
		"resourceFee": sim.MinResourceFee,
	}).Debug("Simulation succeeded")

	final := txnbuild.NewSimpleAccount(source, account.Sequence)
	return s.newInvocation(&final, args, txnbuild.MinBaseFee+sim.MinResourceFee, auth, &data)
}

// rawTransaction wraps tx; Encoded is the unsigned envelope base64.
func (s *stellar) rawTransaction(tx *txnbuild.Transaction, from, to string, args xdr.InvokeContractArgs) (*types.RawTransaction, error) {
	envelope, err := tx.Base64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode transaction")
	}
	data, err := args.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode invocation")
	}
	return &types.RawTransaction{
		ChainID: s.config.ID,
		Family:  types.STELLAR,
		From:    from,
		To:      to,
		Data:    data,
		Encoded: envelope,
		Native:  tx,
	}, nil
}

// signAndSend signs the envelope and submits it once through sendTransaction.
func (s *stellar) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction) (*types.TxResult, error) {
	tx, ok := raw.Native.(*txnbuild.Transaction)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	signed, err := w.SignTransaction(tx, s.passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	envelope, err := signed.Base64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode signed transaction")
	}

	var resp sendResponse
	if err := s.soroban.Call(ctx, "sendTransaction", map[string]string{"transaction": envelope}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}
	if resp.Status == "ERROR" || resp.Status == "TRY_AGAIN_LATER" {
		return nil, errors.Errorf("transaction %s rejected with status %s: %s", resp.Hash, resp.Status, resp.ErrorResultXDR)
	}

	s.logger.WithFields(logrus.Fields{
		"chainID": s.config.ID,
		"txHash":  resp.Hash,
		"status":  resp.Status,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID: s.config.ID,
		Hash:    resp.Hash,
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}

// tokenBalance returns token.balance(owner).
func (s *stellar) tokenBalance(ctx context.Context, token, owner xdr.ScAddress) (*big.Int, error) {
	val, err := s.readContract(ctx, invokeArgs(token, "balance", addressVal(owner)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read token balance")
	}
	return bigFromI128(val)
}
