package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ruteri/mysql-ratls-launcher/abiutil"
)

// WhitelistConfig is an opaque whitelist value handed to the attestation
// layer. It is never parsed by the launcher.
type WhitelistConfig string

// ErrNoWhitelist marks clean absence: the source had no whitelist to offer,
// as opposed to failing while fetching one. Both fall through to the next
// source.
var ErrNoWhitelist = errors.New("no whitelist available")

// WhitelistField is the policy document field carrying the whitelist value.
const WhitelistField = "RATLS_WHITELIST_CONFIG"

// GetSGXConfigSelector is the 4-byte call selector of the policy contract's
// getSGXConfig() view function (0x062e2252).
var GetSGXConfigSelector = crypto.Keccak256([]byte("getSGXConfig()"))[:4]

// ContractCaller performs a read-only contract call and returns the raw
// hex-encoded result. Implemented by *ethcall.Client.
type ContractCaller interface {
	Call(ctx context.Context, to common.Address, calldata []byte) (string, error)
}

// Source is one place a whitelist may come from.
type Source interface {
	Name() string

	// Resolve returns the whitelist value, ErrNoWhitelist when the source has
	// none, or any other error when the source failed.
	Resolve(ctx context.Context) (WhitelistConfig, error)
}

// OnchainSource resolves the whitelist from a policy contract.
type OnchainSource struct {
	caller  ContractCaller
	address common.Address
	log     *slog.Logger
}

// NewOnchainSource creates a source querying the policy contract at the given
// address through the provided caller.
func NewOnchainSource(caller ContractCaller, address common.Address, log *slog.Logger) *OnchainSource {
	return &OnchainSource{caller: caller, address: address, log: log}
}

func (s *OnchainSource) Name() string { return "onchain" }

// Resolve performs the contract call, decodes the returned ABI string, parses
// it as a JSON policy document, and extracts the whitelist field. An empty
// call result or a document without the field is clean absence; everything
// else that goes wrong is a failure. Either way the caller falls through.
func (s *OnchainSource) Resolve(ctx context.Context) (WhitelistConfig, error) {
	result, err := s.caller.Call(ctx, s.address, GetSGXConfigSelector)
	if err != nil {
		return "", fmt.Errorf("policy contract call failed: %w", err)
	}

	if result == "" || result == "0x" {
		s.log.Info("no policy published on contract", slog.String("contract", s.address.Hex()))
		return "", ErrNoWhitelist
	}

	blob, err := abiutil.DecodeDynamicString(result)
	if err != nil {
		return "", fmt.Errorf("decoding policy payload: %w", err)
	}
	if len(blob) == 0 {
		s.log.Info("empty policy on contract", slog.String("contract", s.address.Hex()))
		return "", ErrNoWhitelist
	}

	var doc map[string]any
	if err := json.Unmarshal(blob, &doc); err != nil {
		return "", fmt.Errorf("parsing policy document: %w", err)
	}

	value, ok := doc[WhitelistField]
	if !ok {
		return "", fmt.Errorf("%w: policy document has no %s field", ErrNoWhitelist, WhitelistField)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("policy field %s is not a string", WhitelistField)
	}
	if str == "" {
		return "", ErrNoWhitelist
	}
	return WhitelistConfig(str), nil
}

// EnvSource wraps a whitelist value captured from the process environment
// before resolution started.
type EnvSource struct {
	value string
}

// NewEnvSource creates a source for a pre-existing environment value. An
// empty value means the source has nothing to offer.
func NewEnvSource(value string) *EnvSource {
	return &EnvSource{value: value}
}

func (s *EnvSource) Name() string { return "environment" }

func (s *EnvSource) Resolve(ctx context.Context) (WhitelistConfig, error) {
	if s.value == "" {
		return "", ErrNoWhitelist
	}
	return WhitelistConfig(s.value), nil
}
