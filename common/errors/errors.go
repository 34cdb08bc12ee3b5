package errors

import "github.com/pkg/errors"

var (
	ErrChainNotFound          = errors.New("chain not found")
	ErrInvalidChainID         = errors.New("invalid chain id")
	ErrInvalidConfig          = errors.New("invalid chain configuration")
	ErrChainExists            = errors.New("chain already exists in registry")
	ErrFactoryNotProvided     = errors.New("chain factory not provided")
	ErrNotImplemented         = errors.New("functionality not implemented")
	ErrDatabaseConnect        = errors.New("failed to connect to database")
	ErrMissingContractAddress = errors.New("contract address not configured")

	// Precondition violations.
	ErrInvalidAddress      = errors.New("invalid address")
	ErrUnsupportedFamily   = errors.New("unsupported chain family")
	ErrAssetNotSupported   = errors.New("asset is not supported on the hub")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrInvalidDecimals     = errors.New("invalid token decimals")
	ErrAmountOverflow      = errors.New("amount does not fit in uint256")
	ErrEmptyBatch          = errors.New("contract call batch is empty")
	ErrEmptyPayload        = errors.New("payload is empty")
	ErrWalletNotConfigured = errors.New("wallet not configured for provider")
	ErrWrongWalletType     = errors.New("wallet does not match chain family")

	// Chain-specific transaction failures.
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrSimulationFailed      = errors.New("transaction simulation failed")
	ErrHubRead               = errors.New("hub chain read failed")
)
