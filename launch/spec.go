package launch

// Spec is the assembled exec image: workload binary path, full argument
// vector, and the environment it inherits. Built once, immediately before the
// replacement call.
type Spec struct {
	Path string
	Args []string
	Env  []string
}

// BuildSpec derives the workload launch spec from the environment record. The
// argument vector is the binary path, the six fixed flags in their mandated
// order, then the caller-supplied arguments verbatim so operators can extend
// or override.
func BuildSpec(env *Environment, passthroughArgs []string) *Spec {
	path := env.Get(EnvMysqldPath)
	if path == "" {
		path = DefaultMysqldPath
	}
	dataDir := env.Get(EnvDataDir)
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	certPath := env.Get(EnvCertPath)
	if certPath == "" {
		certPath = DefaultCertPath
	}
	keyPath := env.Get(EnvKeyPath)
	if keyPath == "" {
		keyPath = DefaultKeyPath
	}

	args := []string{
		path,
		"--user=" + mysqlUser,
		"--datadir=" + dataDir,
		"--ssl-ca=" + DefaultCAPath,
		"--ssl-cert=" + certPath,
		"--ssl-key=" + keyPath,
		"--require-secure-transport=ON",
	}
	args = append(args, passthroughArgs...)

	return &Spec{Path: path, Args: args, Env: env.Environ()}
}
