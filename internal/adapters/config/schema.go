package config

// Shadefile is the structure of the shade.yaml configuration file.
// Durations are kept as strings so that parse errors can name their key.
type Shadefile struct {
	Version       string              `yaml:"version"`
	Backend       string              `yaml:"backend"`
	PollInterval  string              `yaml:"poll_interval"`
	FrameInterval string              `yaml:"frame_interval"`
	Watch         *bool               `yaml:"watch"`
	Debounce      string              `yaml:"debounce"`
	LogFormat     string              `yaml:"log_format"`
	LogLevel      string              `yaml:"log_level"`
	MetricsAddr   string              `yaml:"metrics_addr"`
	Compiler      *CompilerConfig     `yaml:"compiler"`
	Programs      map[string][]string `yaml:"programs"`
}

// CompilerConfig configures the external compiler of the command backend.
type CompilerConfig struct {
	Command []string          `yaml:"command"`
	Env     map[string]string `yaml:"env"`
}
