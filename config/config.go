package config

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
	"github.com/fiamma-chain/cosmwasm-client-go/log"
	"github.com/fiamma-chain/cosmwasm-client-go/registry"

	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// Defaults applied by ApplyDefaults when a field is left at its zero value.
const (
	DefaultGasFactor = 1.2

	DefaultQueryTimeout     = 15 * time.Second
	DefaultBroadcastTimeout = 30 * time.Second

	DefaultRetryAttempts = uint(5)
	DefaultRetryDelay    = 1 * time.Second

	DefaultTxPollDelay    = 5 * time.Second
	DefaultTxPollAttempts = uint(60)

	DefaultEventBufferSize        = 256
	DefaultDecodeFailureThreshold = 20
)

// Config holds everything needed to construct a client. All fields are
// validated up front so that a bad URL or key fails at construction rather
// than on first use.
type Config struct {
	// Endpoints
	NodeGrpcURI  string
	WebsocketURI string

	// Key material, hex encoded secp256k1.
	PrivateKey string

	// Chain parameters. If ChainName is set, missing chain parameters are
	// resolved from the chain registry.
	ChainName     string
	ChainID       string
	AddressPrefix string
	FeeDenom      string
	GasPrice      float64
	GasFactor     float64
	Memo          string

	// Optional default contract for execute calls and event subscriptions.
	ContractAddress string

	// Timeouts per operation class.
	QueryTimeout     time.Duration
	BroadcastTimeout time.Duration

	// Bounded retry for queries. Broadcasts are never retried.
	RetryAttempts uint
	RetryDelay    time.Duration

	// Confirmation polling.
	TxPollDelay    time.Duration
	TxPollAttempts uint

	// Event subscription tuning.
	EventBufferSize        int
	DecodeFailureThreshold int
}

// ApplyDefaults fills zero-valued tuning fields with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.GasFactor == 0 {
		c.GasFactor = DefaultGasFactor
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = DefaultQueryTimeout
	}
	if c.BroadcastTimeout == 0 {
		c.BroadcastTimeout = DefaultBroadcastTimeout
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.TxPollDelay == 0 {
		c.TxPollDelay = DefaultTxPollDelay
	}
	if c.TxPollAttempts == 0 {
		c.TxPollAttempts = DefaultTxPollAttempts
	}
	if c.EventBufferSize == 0 {
		c.EventBufferSize = DefaultEventBufferSize
	}
	if c.DecodeFailureThreshold == 0 {
		c.DecodeFailureThreshold = DefaultDecodeFailureThreshold
	}
}

// Validate checks endpoints, key material and addresses. Key parsing itself
// happens in the crypto package; here we only check shape.
func (c *Config) Validate() error {
	if err := validateGrpcURI(c.NodeGrpcURI); err != nil {
		return err
	}

	if err := validateWebsocketURI(c.WebsocketURI); err != nil {
		return err
	}

	if strings.TrimSpace(c.PrivateKey) == "" {
		return clienterr.ErrInvalidConfig.Wrap("private key is required")
	}

	if c.ChainID == "" {
		return clienterr.ErrInvalidConfig.Wrap("chain id is required")
	}

	if c.AddressPrefix == "" {
		return clienterr.ErrInvalidConfig.Wrap("address prefix is required")
	}

	if c.FeeDenom == "" {
		return clienterr.ErrInvalidConfig.Wrap("fee denom is required")
	}

	if c.ContractAddress != "" {
		hrp, _, err := bech32.DecodeAndConvert(c.ContractAddress)
		if err != nil {
			return clienterr.ErrInvalidAddress.Wrapf("contract address %s: %s", c.ContractAddress, err)
		}
		if hrp != c.AddressPrefix {
			return clienterr.ErrInvalidAddress.Wrapf("contract address prefix %s does not match chain prefix %s", hrp, c.AddressPrefix)
		}
	}

	return nil
}

// ResolveFromRegistry fills missing chain parameters from the chain registry
// entry for ChainName. Fields set explicitly always win.
func (c *Config) ResolveFromRegistry(ctx context.Context, registryClient *registry.RegistryClient, log *log.Logger) error {
	if c.ChainName == "" {
		return nil
	}

	chainInfo, err := registryClient.GetChainInfo(ctx, c.ChainName)
	if err != nil {
		return clienterr.ErrInvalidConfig.Wrapf("failed to resolve chain %s from registry: %s", c.ChainName, err)
	}

	if c.ChainID == "" {
		c.ChainID = chainInfo.ChainID
	}
	if c.AddressPrefix == "" {
		c.AddressPrefix = chainInfo.Bech32Prefix
	}
	if c.FeeDenom == "" && len(chainInfo.Fees.FeeTokens) > 0 {
		c.FeeDenom = chainInfo.Fees.FeeTokens[0].Denom
		if c.GasPrice == 0 {
			c.GasPrice = chainInfo.Fees.FeeTokens[0].FixedMinGasPrice
		}
	}

	log.Info().Str("chain name", c.ChainName).Str("chain id", c.ChainID).Str("prefix", c.AddressPrefix).Msg("Resolved chain parameters from registry")
	return nil
}

func validateGrpcURI(uri string) error {
	if uri == "" {
		return clienterr.ErrInvalidConfig.Wrap("grpc uri is required")
	}

	if strings.Contains(uri, "://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return clienterr.ErrInvalidConfig.Wrapf("grpc uri %s: %s", uri, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return clienterr.ErrInvalidConfig.Wrapf("grpc uri %s: unsupported scheme %s", uri, parsed.Scheme)
		}
		if parsed.Host == "" {
			return clienterr.ErrInvalidConfig.Wrapf("grpc uri %s: missing host", uri)
		}
		return nil
	}

	// Bare host:port
	if !strings.Contains(uri, ":") {
		return clienterr.ErrInvalidConfig.Wrapf("grpc uri %s: expected host:port", uri)
	}
	return nil
}

func validateWebsocketURI(uri string) error {
	if uri == "" {
		return clienterr.ErrInvalidConfig.Wrap("websocket uri is required")
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return clienterr.ErrInvalidConfig.Wrapf("websocket uri %s: %s", uri, err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return clienterr.ErrInvalidConfig.Wrapf("websocket uri %s: scheme must be ws or wss", uri)
	}
	if parsed.Host == "" {
		return clienterr.ErrInvalidConfig.Wrapf("websocket uri %s: missing host", uri)
	}
	return nil
}
