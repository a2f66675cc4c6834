package launch

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Configure applies the fixed RA-TLS bindings to the environment record and
// provisions the backing directories for the certificate and key paths.
//
// The algorithm, verification, and peer-certificate flags are always forced,
// overwriting any externally supplied value: they encode security defaults
// the operator must not weaken. The certificate and key paths are defaulted
// only when absent, so operator overrides survive.
//
// Directory creation failure is a warning, not an error: the TLS layer will
// fail loudly and specifically if a path is truly unusable, which is a better
// diagnostic than aborting here.
func Configure(log *slog.Logger, env *Environment) {
	env.Set(EnvCertAlgorithm, CertAlgorithm)
	env.Set(EnvEnableVerify, "1")
	env.Set(EnvRequirePeerCert, "1")

	certPath := env.SetDefault(EnvCertPath, DefaultCertPath)
	keyPath := env.SetDefault(EnvKeyPath, DefaultKeyPath)

	for _, path := range []string{certPath, keyPath} {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("could not create directory, continuing", slog.String("dir", dir), "err", err)
		}
	}

	log.Debug("launch environment configured",
		slog.String("cert_path", certPath),
		slog.String("key_path", keyPath))
}
