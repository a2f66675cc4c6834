package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain tries an ordered list of whitelist sources, first success wins.
type Chain struct {
	sources []Source
	log     *slog.Logger
}

// NewChain creates a resolution chain over the given sources in priority
// order.
func NewChain(log *slog.Logger, sources ...Source) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{sources: sources, log: log}
}

// Resolve walks the sources in order and returns the first whitelist found.
// Each source is tried exactly once; any failure falls through to the next.
// An exhausted chain returns an error wrapping ErrNoWhitelist.
func (c *Chain) Resolve(ctx context.Context) (WhitelistConfig, error) {
	start := time.Now()
	var errs []error

	for _, source := range c.sources {
		whitelist, err := source.Resolve(ctx)
		if err == nil {
			c.log.Info("resolved attestation whitelist",
				slog.String("source", source.Name()),
				slog.Duration("duration", time.Since(start)))
			return whitelist, nil
		}

		if errors.Is(err, ErrNoWhitelist) {
			c.log.Debug("no whitelist from source", slog.String("source", source.Name()))
		} else {
			c.log.Warn("whitelist source failed, falling back",
				slog.String("source", source.Name()),
				"err", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", source.Name(), err))
	}

	return "", fmt.Errorf("%w: %d sources exhausted: %v", ErrNoWhitelist, len(errs), errs)
}

// Config carries the whitelist resolution inputs read from the launcher's
// configuration surface.
type Config struct {
	// ContractAddress is the policy contract address, empty when no on-chain
	// policy is configured.
	ContractAddress string

	// RPCURL is the JSON-RPC endpoint used to reach the contract. Required
	// whenever ContractAddress is set.
	RPCURL string

	// ExistingWhitelist is the whitelist value found in the process
	// environment before resolution, empty when absent.
	ExistingWhitelist string
}

// BuildChain assembles the resolution chain for the given configuration.
//
// With no contract address configured only the environment source is used. A
// contract address without an RPC endpoint, an invalid address, or a missing
// caller is a configuration error local to whitelist resolution: it is
// logged and the on-chain source is skipped. None of these cases is fatal.
func BuildChain(log *slog.Logger, cfg Config, caller ContractCaller) *Chain {
	envSource := NewEnvSource(cfg.ExistingWhitelist)

	if cfg.ContractAddress == "" {
		return NewChain(log, envSource)
	}
	if cfg.RPCURL == "" {
		log.Warn("contract address configured without an RPC endpoint, skipping on-chain policy",
			slog.String("contract", cfg.ContractAddress))
		return NewChain(log, envSource)
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		log.Warn("invalid policy contract address, skipping on-chain policy",
			slog.String("contract", cfg.ContractAddress))
		return NewChain(log, envSource)
	}
	if caller == nil {
		log.Warn("no RPC client available, skipping on-chain policy",
			slog.String("contract", cfg.ContractAddress))
		return NewChain(log, envSource)
	}

	onchain := NewOnchainSource(caller, common.HexToAddress(cfg.ContractAddress), log)
	return NewChain(log, onchain, envSource)
}
