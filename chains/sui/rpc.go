package sui

import (
	"context"
	"math/big"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// coinPageLimit bounds how many coin objects are considered per deposit.
const coinPageLimit = 50

type coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

type coinPage struct {
	Data        []coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type balance struct {
	CoinType     string `json:"coinType"`
	TotalBalance string `json:"totalBalance"`
}

type objectResponse struct {
	Data *struct {
		ObjectID string `json:"objectId"`
		Owner    struct {
			Shared *struct {
				InitialSharedVersion uint64 `json:"initial_shared_version"`
			} `json:"Shared"`
		} `json:"owner"`
	} `json:"data"`
}

type executionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type gasCostSummary struct {
	ComputationCost string `json:"computationCost"`
	StorageCost     string `json:"storageCost"`
	StorageRebate   string `json:"storageRebate"`
}

type dryRunResponse struct {
	Effects struct {
		Status  executionStatus `json:"status"`
		GasUsed gasCostSummary  `json:"gasUsed"`
	} `json:"effects"`
}

type executeResponse struct {
	Digest  string `json:"digest"`
	Effects *struct {
		Status executionStatus `json:"status"`
	} `json:"effects"`
}

func (c coin) ref() (ObjectRef, error) {
	id, err := ParseAddress(c.CoinObjectID)
	if err != nil {
		return ObjectRef{}, err
	}
	version, err := strconv.ParseUint(c.Version, 10, 64)
	if err != nil {
		return ObjectRef{}, errors.Wrapf(err, "coin %s version", c.CoinObjectID)
	}
	digest, err := base58.Decode(c.Digest)
	if err != nil {
		return ObjectRef{}, errors.Wrapf(err, "coin %s digest", c.CoinObjectID)
	}
	return ObjectRef{ObjectID: id, Version: version, Digest: digest}, nil
}

func (c coin) amount() *big.Int {
	v, ok := new(big.Int).SetString(c.Balance, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// getCoins returns the first page of owner's coins of coinType.
func (s *sui) getCoins(ctx context.Context, owner, coinType string) ([]coin, error) {
	var page coinPage
	if err := s.client.Call(ctx, "suix_getCoins", []interface{}{owner, coinType, nil, coinPageLimit}, &page); err != nil {
		return nil, errors.Wrap(err, "failed to get coins")
	}
	return page.Data, nil
}

func (s *sui) referenceGasPrice(ctx context.Context) (uint64, error) {
	var price string
	if err := s.client.Call(ctx, "suix_getReferenceGasPrice", []interface{}{}, &price); err != nil {
		return 0, errors.Wrap(err, "failed to get reference gas price")
	}
	v, err := strconv.ParseUint(price, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid gas price %q", price)
	}
	return v, nil
}

// sharedObject resolves the initial shared version of a shared object.
func (s *sui) sharedObject(ctx context.Context, id Address, mutable bool) (*SharedObject, error) {
	var resp objectResponse
	options := map[string]bool{"showOwner": true}
	if err := s.client.Call(ctx, "sui_getObject", []interface{}{addressHex(id), options}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get object")
	}
	if resp.Data == nil || resp.Data.Owner.Shared == nil {
		return nil, errors.Errorf("object %s is not shared", addressHex(id))
	}
	return &SharedObject{ObjectID: id, InitialSharedVersion: resp.Data.Owner.Shared.InitialSharedVersion, Mutable: mutable}, nil
}

func (s *sui) getBalance(ctx context.Context, owner, coinType string) (*big.Int, error) {
	var resp balance
	if err := s.client.Call(ctx, "suix_getBalance", []interface{}{owner, coinType}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	v, ok := new(big.Int).SetString(resp.TotalBalance, 10)
	if !ok {
		return nil, errors.Errorf("invalid balance %q", resp.TotalBalance)
	}
	return v, nil
}

func parseCost(v string) uint64 {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
