package config

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds pin API connection details
type APIConfig struct {
	URL            string            `mapstructure:"url"`
	Key            string            `mapstructure:"key"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	Headers        map[string]string `mapstructure:"headers"`
}

// FilterConfig contains filter presets and the default expression
type FilterConfig struct {
	Presets           map[string]string `mapstructure:"presets"`
	DefaultExpression string            `mapstructure:"default_expression"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
