package dbconfig

import (
	"context"
	"database/sql"
	"strings"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/dbconfig/models"
	"github.com/pkg/errors"
)

const chainColumns = `
          id,
          chain_id,
          name,
          family,
          relay_chain_id,
          native_token,
          network_id,
          tx_type,
          rpc_url,
          active,
          created_at,
          updated_at
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChain(row rowScanner) (models.Chain, error) {
	var chain models.Chain
	var nativeToken, networkID, rpcURL sql.NullString

	err := row.Scan(
		&chain.ID,
		&chain.ChainID,
		&chain.Name,
		&chain.Family,
		&chain.RelayChainID,
		&nativeToken,
		&networkID,
		&chain.TxType,
		&rpcURL,
		&chain.Active,
		&chain.CreatedAt,
		&chain.UpdatedAt,
	)
	if err != nil {
		return chain, err
	}

	chain.Family = strings.ToUpper(chain.Family)
	if nativeToken.Valid {
		chain.NativeToken = nativeToken.String
	}
	if networkID.Valid {
		chain.NetworkID = networkID.String
	}
	if rpcURL.Valid {
		chain.RPCURL = rpcURL.String
	}
	return chain, nil
}

// GetChains returns all chains from the database, optionally filtering by active status.
func (r *DBConfig) GetChains(ctx context.Context, activeOnly bool) ([]models.Chain, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := "SELECT" + chainColumns + "FROM chains"

	var args []interface{}
	if activeOnly {
		query += " WHERE active = $1"
		args = append(args, true)
	}

	query += " ORDER BY relay_chain_id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	var chains []models.Chain
	for rows.Next() {
		chain, err := scanChain(rows)
		if err != nil {
			return nil, dbError(err)
		}
		chains = append(chains, chain)
	}

	if err = rows.Err(); err != nil {
		return nil, dbError(err)
	}

	return chains, nil
}

// GetChainByID returns the chain with the given spoke chain id.
func (r *DBConfig) GetChainByID(ctx context.Context, chainID string) (*models.Chain, error) {
	if chainID == "" {
		return nil, commonerrors.ErrInvalidChainID
	}

	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	chain, err := scanChain(db.QueryRowContext(ctx, "SELECT"+chainColumns+"FROM chains WHERE chain_id = $1", chainID))
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(commonerrors.ErrChainNotFound, chainID)
	}
	if err != nil {
		return nil, dbError(err)
	}

	return &chain, nil
}

// GetChainAddresses returns the named contract addresses of chainID.
func (r *DBConfig) GetChainAddresses(ctx context.Context, chainID string) ([]models.ChainAddress, error) {
	if chainID == "" {
		return nil, commonerrors.ErrInvalidChainID
	}

	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
       SELECT chain_id, name, address
       FROM chain_addresses
       WHERE chain_id = $1
       ORDER BY name ASC
    `, chainID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	var addresses []models.ChainAddress
	for rows.Next() {
		var address models.ChainAddress
		if err := rows.Scan(&address.ChainID, &address.Name, &address.Address); err != nil {
			return nil, dbError(err)
		}
		addresses = append(addresses, address)
	}

	if err = rows.Err(); err != nil {
		return nil, dbError(err)
	}

	return addresses, nil
}
