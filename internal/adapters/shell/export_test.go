package shell

// ResolveEnvironmentExported exposes resolveEnvironment to the external tests.
func ResolveEnvironmentExported(sysEnv []string, overrides map[string]string, stage string) []string {
	return resolveEnvironment(sysEnv, overrides, stage)
}

// LookPathExported exposes lookPath to the external tests.
func LookPathExported(file string, env []string) (string, error) {
	return lookPath(file, env)
}
