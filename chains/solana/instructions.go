package solana

import (
	"bytes"
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	sol "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Instruction names of the asset manager and connection programs.
const (
	instructionTransfer    = "transfer"
	instructionSendMessage = "send_message"
)

// PDA seeds.
var (
	seedConfig      = []byte("config")
	seedVault       = []byte("vault")
	seedVaultNative = []byte("vault_native")
)

// discriminator returns the 8-byte Anchor instruction selector.
func discriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))
	return sum[:8]
}

// transferData encodes the asset manager transfer(amount: u64, to: Vec<u8>, data: Vec<u8>) arguments.
func transferData(amount uint64, to []byte, data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator(instructionTransfer))

	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint64(amount, bin.LE); err != nil {
		return nil, errors.Wrap(err, "failed to encode amount")
	}
	if err := enc.WriteBytes(to, true); err != nil {
		return nil, errors.Wrap(err, "failed to encode recipient")
	}
	if err := enc.WriteBytes(data, true); err != nil {
		return nil, errors.Wrap(err, "failed to encode data")
	}
	return buf.Bytes(), nil
}

// sendMessageData encodes the connection send_message(to: u64, to_address: Vec<u8>, data: Vec<u8>) arguments.
func sendMessageData(dstChainID uint64, dstAddress []byte, payload []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator(instructionSendMessage))

	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint64(dstChainID, bin.LE); err != nil {
		return nil, errors.Wrap(err, "failed to encode destination chain")
	}
	if err := enc.WriteBytes(dstAddress, true); err != nil {
		return nil, errors.Wrap(err, "failed to encode destination address")
	}
	if err := enc.WriteBytes(payload, true); err != nil {
		return nil, errors.Wrap(err, "failed to encode payload")
	}
	return buf.Bytes(), nil
}

// programAccounts holds the PDAs a deposit or message touches.
type programAccounts struct {
	assetManagerConfig sol.PublicKey
	connectionConfig   sol.PublicKey
	vault              sol.PublicKey
}

// findPDA derives a program address, ignoring the bump.
func findPDA(programID sol.PublicKey, seeds ...[]byte) (sol.PublicKey, error) {
	addr, _, err := sol.FindProgramAddress(seeds, programID)
	if err != nil {
		return sol.PublicKey{}, errors.Wrap(err, "failed to derive program address")
	}
	return addr, nil
}

// vaultAddress returns the asset manager vault holding mint, or the native vault when native is set.
func (s *solana) vaultAddress(mint sol.PublicKey, native bool) (sol.PublicKey, error) {
	if native {
		return findPDA(s.assetManager, seedVaultNative)
	}
	return findPDA(s.assetManager, seedVault, mint.Bytes())
}

func (s *solana) deriveAccounts(mint sol.PublicKey, native bool) (*programAccounts, error) {
	amConfig, err := findPDA(s.assetManager, seedConfig)
	if err != nil {
		return nil, err
	}
	connConfig, err := findPDA(s.connection, seedConfig)
	if err != nil {
		return nil, err
	}
	vault, err := s.vaultAddress(mint, native)
	if err != nil {
		return nil, err
	}
	return &programAccounts{
		assetManagerConfig: amConfig,
		connectionConfig:   connConfig,
		vault:              vault,
	}, nil
}

// createTransferInstruction creates the asset manager transfer instruction. Native deposits move
// lamports into the native vault; token deposits move tokens out of the payer's associated token
// account into the mint's vault.
func (s *solana) createTransferInstruction(payer, mint sol.PublicKey, native bool, data []byte) (sol.Instruction, error) {
	accounts, err := s.deriveAccounts(mint, native)
	if err != nil {
		return nil, err
	}

	metas := sol.AccountMetaSlice{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: accounts.assetManagerConfig, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.vault, IsSigner: false, IsWritable: true},
	}
	if !native {
		payerATA, err := GetAssociatedTokenAddress(mint, payer)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get associated token address for payer")
		}
		metas = append(metas,
			&sol.AccountMeta{PublicKey: payerATA, IsSigner: false, IsWritable: true},
			&sol.AccountMeta{PublicKey: mint, IsSigner: false, IsWritable: false},
			&sol.AccountMeta{PublicKey: sol.TokenProgramID, IsSigner: false, IsWritable: false},
		)
	}
	metas = append(metas,
		&sol.AccountMeta{PublicKey: accounts.connectionConfig, IsSigner: false, IsWritable: true},
		&sol.AccountMeta{PublicKey: s.connection, IsSigner: false, IsWritable: false},
		&sol.AccountMeta{PublicKey: sol.SystemProgramID, IsSigner: false, IsWritable: false},
	)

	return sol.NewInstruction(s.assetManager, metas, data), nil
}

// createSendMessageInstruction creates the connection send_message instruction.
func (s *solana) createSendMessageInstruction(payer sol.PublicKey, data []byte) (sol.Instruction, error) {
	connConfig, err := findPDA(s.connection, seedConfig)
	if err != nil {
		return nil, err
	}

	return sol.NewInstruction(
		s.connection,
		sol.AccountMetaSlice{
			{PublicKey: payer, IsSigner: true, IsWritable: true},
			{PublicKey: connConfig, IsSigner: false, IsWritable: true},
			{PublicKey: sol.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		data,
	), nil
}

// GetAssociatedTokenAddress returns the token account address for a given token and owner.
// This is a deterministic address that follows Solana's Associated Token Account Program conventions.
func GetAssociatedTokenAddress(tokenMint, owner sol.PublicKey) (sol.PublicKey, error) {
	seeds := [][]byte{
		owner.Bytes(),
		sol.TokenProgramID.Bytes(),
		tokenMint.Bytes(),
	}

	addr, _, err := sol.FindProgramAddress(
		seeds,
		sol.SPLAssociatedTokenAccountProgramID,
	)

	return addr, err
}
