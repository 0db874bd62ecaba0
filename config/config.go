package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "CRAFT_CONFIG_FILE"
	defaultConfigFile = "/config.yaml"
)

type checkout struct {
	PlacementDelay time.Duration `mapstructure:"placement_delay"`
	RedirectRoute  string        `mapstructure:"redirect_route"`
	RedirectAfter  time.Duration `mapstructure:"redirect_after"`
}

type topics struct {
	Orders string `mapstructure:"orders"`
}

type groups struct {
	OrderLedger string `mapstructure:"order_ledger"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all three files are set.
func (t brokerTLS) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Groups             groups    `mapstructure:"groups"`
	TLS                brokerTLS `mapstructure:"tls"`
}

// Enabled reports whether the order events are turned on.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	// SQLDB is a postgres DSN. The builtin catalog is served when empty.
	SQLDB    string   `mapstructure:"sql_db"`
	Checkout checkout `mapstructure:"checkout"`
	Broker   broker   `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// decodeHook also parses "debug", "info", "warn" and "error" log levels.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("checkout.placement_delay", 1500*time.Millisecond)
	v.SetDefault("checkout.redirect_route", "/")
	v.SetDefault("checkout.redirect_after", 2*time.Second)
	v.SetDefault("broker.topics.orders", "orders")
	v.SetDefault("broker.groups.order_ledger", "order-ledger")
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", defaultConfigFile, "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	Checkout:
	PlacementDelay=%q
	RedirectRoute=%q
	RedirectAfter=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Orders=%q
	Groups:
		OrderLedger=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		maskDSN(c.SQLDB),
		c.Checkout.PlacementDelay,
		c.Checkout.RedirectRoute,
		c.Checkout.RedirectAfter,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Orders,
		c.Broker.Groups.OrderLedger,
	)
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || scheme+3 > at {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	user, _, found := strings.Cut(userinfo, ":")
	if !found {
		return dsn
	}
	return dsn[:scheme+3] + user + ":***" + dsn[at:]
}
