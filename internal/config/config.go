package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	KeyAPIURL = "vsx-registry.api-url"
	KeyWebURL = "vsx-registry.web-url"

	DefaultAPIURL = "https://open-vsx.org/api"
	DefaultWebURL = "https://open-vsx.org"
)

type Config struct {
	APIURL     string
	WebURL     string
	GuardStale bool

	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string

	DBPath      string
	AutoMigrate bool

	ExtensionsDir string

	HTTPTimeout time.Duration

	LogLevel       string
	LogDevelopment bool
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyWebURL, DefaultWebURL)
	v.SetDefault("registry.guard_stale", false)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3030)
	v.SetDefault("server.use_https", false)
	v.SetDefault("database.path", "./data/plugins.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("extensions.directory", "./data/plugins")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

func GetConfig() Config {
	return FromViper(viper.GetViper())
}

func FromViper(v *viper.Viper) Config {
	return Config{
		APIURL:     v.GetString(KeyAPIURL),
		WebURL:     v.GetString(KeyWebURL),
		GuardStale: v.GetBool("registry.guard_stale"),

		Port:     v.GetInt("server.port"),
		Host:     v.GetString("server.host"),
		UseHTTPS: v.GetBool("server.use_https"),
		CertFile: v.GetString("server.cert_file"),
		KeyFile:  v.GetString("server.key_file"),

		DBPath:      v.GetString("database.path"),
		AutoMigrate: v.GetBool("database.auto_migrate"),

		ExtensionsDir: v.GetString("extensions.directory"),

		HTTPTimeout: v.GetDuration("http.timeout"),

		LogLevel:       v.GetString("log.level"),
		LogDevelopment: v.GetBool("log.development"),
	}
}
