package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/mysql-ratls-launcher/common"
	"github.com/ruteri/mysql-ratls-launcher/ethcall"
	"github.com/ruteri/mysql-ratls-launcher/launch"
	"github.com/ruteri/mysql-ratls-launcher/policy"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:    "contract-address",
		Usage:   "Policy contract address to resolve the attestation whitelist from",
		EnvVars: []string{"CONTRACT_ADDRESS"},
	},
	&cli.StringFlag{
		Name:    "rpc-url",
		Usage:   "Ethereum JSON-RPC endpoint for the policy contract call",
		EnvVars: []string{"RPC_URL"},
	},
	&cli.BoolFlag{
		Name:  "dry-run",
		Usage: "assemble and log the launch spec without replacing the process",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: "mysql-ratls-launcher",
		Usage: "add 'service' tag to logs",
	},
}

func main() {
	app := &cli.App{
		Name:   "mysql-ratls-launcher",
		Usage:  "Configure the RA-TLS environment, resolve the attestation whitelist, and exec mysqld. Arguments after the flags are passed to mysqld verbatim.",
		Flags:  flags,
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool("log-debug"),
		JSON:    cCtx.Bool("log-json"),
		Service: cCtx.String("log-service"),
		Version: common.Version,
	})
	if cCtx.Bool("log-uid") {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}

	env := launch.NewEnvironment()
	launch.Configure(logger, env)

	contractAddress := cCtx.String("contract-address")
	rpcURL := cCtx.String("rpc-url")
	existing, _ := env.Lookup(launch.EnvWhitelistConfig)

	var caller policy.ContractCaller
	if contractAddress != "" && rpcURL != "" {
		client, err := ethcall.New(rpcURL, logger)
		if err != nil {
			logger.Warn("could not set up RPC client, falling back to environment whitelist", "err", err)
		} else {
			defer client.Close()
			caller = client
		}
	}

	chain := policy.BuildChain(logger, policy.Config{
		ContractAddress:   contractAddress,
		RPCURL:            rpcURL,
		ExistingWhitelist: existing,
	}, caller)

	whitelist, err := chain.Resolve(cCtx.Context)
	if err == nil {
		env.Set(launch.EnvWhitelistConfig, string(whitelist))
		logger.Info("attestation whitelist enforced")
	} else {
		logger.Info("no attestation whitelist configured, any attested peer will be accepted")
	}

	spec := launch.BuildSpec(env, cCtx.Args().Slice())

	if cCtx.Bool("dry-run") {
		logger.Info("dry run, not replacing process",
			slog.String("path", spec.Path),
			slog.Any("args", spec.Args),
			slog.Any("env", spec.Env))
		return nil
	}

	logger.Info("replacing process with workload", slog.String("path", spec.Path))
	if err := spec.Exec(); err != nil {
		logger.Error("workload exec failed", "err", err)
		return err
	}
	return nil
}
