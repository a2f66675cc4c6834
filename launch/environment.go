package launch

import (
	"os"
	"strings"
)

// Environment variable names forming the RA-TLS contract between the launcher
// and the workload's attestation-aware TLS layer.
const (
	EnvCertAlgorithm   = "RA_TLS_CERT_ALGORITHM"
	EnvEnableVerify    = "RATLS_ENABLE_VERIFY"
	EnvRequirePeerCert = "RATLS_REQUIRE_PEER_CERT"
	EnvCertPath        = "RATLS_CERT_PATH"
	EnvKeyPath         = "RATLS_KEY_PATH"
	EnvWhitelistConfig = "RATLS_WHITELIST_CONFIG"
	EnvDataDir         = "MYSQL_DATA_DIR"
	EnvMysqldPath      = "MYSQLD_PATH"
)

// CertAlgorithm is the fixed signature algorithm for the RA-TLS certificate,
// matching the chain-compatible curve.
const CertAlgorithm = "secp256k1"

// Default filesystem locations. The certificate lives under an
// integrity-protected path since it is public by nature; the private key
// lives under the enclave's confidentiality-protected sealed storage and must
// never be recoverable outside it.
const (
	DefaultMysqldPath = "/usr/sbin/mysqld"
	DefaultCertPath   = "/var/lib/mysql-ssl/server-cert.pem"
	DefaultKeyPath    = "/app/wallet/mysql-keys/server-key.pem"
	DefaultCAPath     = "/var/lib/mysql-ssl/ca.pem"
	DefaultDataDir    = "/app/wallet/mysql-data"
)

const mysqlUser = "mysql"

// Environment is an ordered environment-variable record. It snapshots the
// process environment once and collects every binding the workload will
// inherit, keeping first-seen key order stable.
type Environment struct {
	keys   []string
	values map[string]string
}

// NewEnvironment snapshots the current process environment.
func NewEnvironment() *Environment {
	return NewEnvironmentFrom(os.Environ())
}

// NewEnvironmentFrom builds an Environment from explicit KEY=VALUE pairs.
// Entries without a '=' are dropped.
func NewEnvironmentFrom(environ []string) *Environment {
	env := &Environment{values: make(map[string]string)}
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		env.Set(key, value)
	}
	return env
}

// Set binds key to value, overwriting any existing binding.
func (e *Environment) Set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// SetDefault binds key to value only when the key is absent or empty, and
// returns the effective value. An empty existing value counts as unset, the
// same way getenv treats it.
func (e *Environment) SetDefault(key, value string) string {
	if current, ok := e.values[key]; ok && current != "" {
		return current
	}
	e.Set(key, value)
	return value
}

// Get returns the bound value, or "" when absent.
func (e *Environment) Get(key string) string {
	return e.values[key]
}

// Lookup returns the bound value and whether the key is bound.
func (e *Environment) Lookup(key string) (string, bool) {
	value, ok := e.values[key]
	return value, ok
}

// Environ renders the record as KEY=VALUE pairs in stable order, ready for
// the exec call.
func (e *Environment) Environ() []string {
	out := make([]string, 0, len(e.keys))
	for _, key := range e.keys {
		out = append(out, key+"="+e.values[key])
	}
	return out
}
