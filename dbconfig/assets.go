package dbconfig

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/dbconfig/models"
)

// GetHubAssets returns the hub asset mappings of every spoke chain.
func (r *DBConfig) GetHubAssets(ctx context.Context, activeOnly bool) ([]models.HubAsset, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
       SELECT
           id,
           spoke_chain_id,
           original_asset,
           symbol,
           asset,
           vault,
           decimals,
           active
       FROM hub_assets
    `

	var args []interface{}
	if activeOnly {
		query += " WHERE active = $1"
		args = append(args, true)
	}

	query += " ORDER BY spoke_chain_id ASC, symbol ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	var assets []models.HubAsset
	for rows.Next() {
		var asset models.HubAsset
		err := rows.Scan(
			&asset.ID,
			&asset.SpokeChainID,
			&asset.OriginalAsset,
			&asset.Symbol,
			&asset.Asset,
			&asset.Vault,
			&asset.Decimals,
			&asset.Active,
		)
		if err != nil {
			return nil, dbError(err)
		}
		assets = append(assets, asset)
	}

	if err = rows.Err(); err != nil {
		return nil, dbError(err)
	}

	return assets, nil
}
