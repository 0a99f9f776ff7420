package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyHTTPHost, "0.0.0.0")
	viper.SetDefault(KeyHTTPPort, 8000)
	viper.SetDefault(KeyEndpointPath, "/mcp/jsonrpc")
	viper.SetDefault(KeyStdio, false)
	viper.SetDefault(KeyRequestTimeout, 30)
	viper.SetDefault(KeyServerName, "openapi-mcp-bridge")
}

func SpecLocation() string  { return viper.GetString(KeySpecLocation) }
func BaseURL() string       { return viper.GetString(KeyBaseURL) }
func OverridesFile() string { return viper.GetString(KeyOverridesFile) }
func LogLevel() string      { return viper.GetString(KeyLogLevel) }
func HTTPHost() string      { return viper.GetString(KeyHTTPHost) }
func HTTPPort() int         { return viper.GetInt(KeyHTTPPort) }
func EndpointPath() string  { return viper.GetString(KeyEndpointPath) }
func Stdio() bool           { return viper.GetBool(KeyStdio) }
func ServerName() string    { return viper.GetString(KeyServerName) }

func RequestTimeout() time.Duration {
	return time.Duration(viper.GetInt(KeyRequestTimeout)) * time.Second
}

// StaticHeaders parses the configured KEY=VALUE header pairs injected on
// every outbound request.
func StaticHeaders() map[string]string {
	pairs := viper.GetStringSlice(KeyStaticHeaders)
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers
}
