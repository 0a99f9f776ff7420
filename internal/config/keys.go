package config

const (
	KeySpecLocation   = "spec_location"
	KeyBaseURL        = "base_url"
	KeyOverridesFile  = "overrides_file"
	KeyLogLevel       = "log_level"
	KeyHTTPHost       = "http_host"
	KeyHTTPPort       = "http_port"
	KeyEndpointPath   = "endpoint_path"
	KeyStdio          = "stdio"
	KeyRequestTimeout = "request_timeout_seconds"
	KeyServerName     = "server_name"
	KeyStaticHeaders  = "static_headers"
)
