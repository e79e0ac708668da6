package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the host (optionally with scheme or port) of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost"`
	// Port is appended to Endpoint when the endpoint does not carry one. 0 disables it.
	Port int `mapstructure:"port" default:"9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Region is the location of the buckets (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// EncodeKeys query-escapes uploaded filenames before using them as object keys.
	EncodeKeys bool `mapstructure:"encode_keys" default:"true"`
	// ReplacePolicy makes public grants overwrite the bucket policy instead of merging into it.
	ReplacePolicy bool `mapstructure:"replace_policy" default:"false"`
}
