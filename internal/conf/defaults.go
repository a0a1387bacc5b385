// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Default values shared with other packages.
const (
	DefaultClassifierModel    = "MoritzLaurer/mDeBERTa-v3-base-xnli-multilingual-nli-2mil7"
	DefaultClassifierEndpoint = "https://api-inference.huggingface.co/models"
	DefaultWeatherEndpoint    = "https://api.openweathermap.org/data/2.5/weather"
	DefaultSQLitePath         = "data/weathercloset.db"
	DefaultImageDir           = "static/images"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("main.name", "Weather Closet")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")

	viper.SetDefault("webserver.host", "")
	viper.SetDefault("webserver.port", "8000")
	viper.SetDefault("webserver.static_dir", "static")
	viper.SetDefault("webserver.max_upload_size", "10M")
	viper.SetDefault("webserver.read_timeout", 30*time.Second)
	viper.SetDefault("webserver.write_timeout", 60*time.Second)
	viper.SetDefault("webserver.allowed_origins", []string{"*"})
	viper.SetDefault("webserver.hsts_max_age", 31536000)
	viper.SetDefault("webserver.content_security_policy", "")

	viper.SetDefault("security.secret_key", "")
	viper.SetDefault("security.algorithm", "HS256")
	viper.SetDefault("security.access_token_expire_minutes", 30)

	viper.SetDefault("database.type", "")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.sqlite.path", DefaultSQLitePath)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 30)
	viper.SetDefault("database.slow_query_threshold", 200*time.Millisecond)

	viper.SetDefault("weather.api_key", "")
	viper.SetDefault("weather.endpoint", DefaultWeatherEndpoint)
	viper.SetDefault("weather.units", "metric")
	viper.SetDefault("weather.timeout", 10*time.Second)
	viper.SetDefault("weather.cache_ttl", 10*time.Minute)

	viper.SetDefault("classifier.enabled", true)
	viper.SetDefault("classifier.endpoint", DefaultClassifierEndpoint)
	viper.SetDefault("classifier.model", DefaultClassifierModel)
	viper.SetDefault("classifier.api_token", "")
	viper.SetDefault("classifier.timeout", 30*time.Second)
	viper.SetDefault("classifier.cache_ttl", time.Hour)

	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", DefaultImageDir)
	viper.SetDefault("storage.s3.region", "us-east-1")
	viper.SetDefault("storage.s3.prefix", "images/")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.environment", "production")

	viper.SetDefault("metrics.enabled", true)
}
