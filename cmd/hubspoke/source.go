package main

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/dbconfig"
	"github.com/icon-project/sodax-frontend-sub008/registry"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// registryFlags selects where the chain registry is read from. The file always supplies the
// hub; with a database DSN the spoke chains and hub assets come from postgres instead.
type registryFlags struct {
	File     string
	Database string
}

func (f *registryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.File, "registry", "r", "", "Registry file (.toml or .json).")
	cmd.Flags().StringVar(&f.Database, "database", "", "Postgres DSN to load spoke chains and hub assets from.")
	_ = cmd.MarkFlagRequired("registry")
}

func (f *registryFlags) load(ctx context.Context) (*registry.Registry, error) {
	reg, err := registry.LoadFile(f.File)
	if err != nil {
		return nil, err
	}
	if f.Database == "" {
		return reg, nil
	}

	db, err := dbconfig.NewDBConfig(f.Database)
	if err != nil {
		return nil, err
	}
	reg, err = db.LoadRegistry(ctx, reg.Hub())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load registry from database")
	}
	return reg, nil
}
