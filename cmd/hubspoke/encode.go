package main

import (
	"fmt"

	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEncodeAddressCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "encode-address <address>",
		Short: "Prints the hub encoding of a spoke address",
		Long: `Prints the canonical byte encoding of a spoke address as 0x-prefixed hex.

This is the form the hub wallet factory and the asset managers
use to identify a spoke user.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := types.ParseChainFamily(family)
			if f == types.UNKNOWN {
				return errors.Wrapf(commonerrors.ErrUnsupportedFamily, "%q", family)
			}
			encoded, err := codec.EncodeHex(f, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	cmd.Flags().StringVarP(&family, "family", "f", "", "Chain family of the address (EVM, SOLANA, SUI, ...).")
	_ = cmd.MarkFlagRequired("family")

	return cmd
}
