package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	Speed         int          `mapstructure:"speed"`
	MaxPlayers    int          `mapstructure:"max_players"`
	TicketCost    int64        `mapstructure:"ticket_cost"`
	JackpotAmount int64        `mapstructure:"jackpot_amount"`
	AdminPassword string       `mapstructure:"admin_password"`
	Prizes        []PrizeEntry `mapstructure:"prizes"`
}

// PrizeEntry overrides one row of the default prize table.
type PrizeEntry struct {
	Matches   int   `mapstructure:"matches"`
	Powerball bool  `mapstructure:"powerball"`
	Amount    int64 `mapstructure:"amount"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")
	viper.SetDefault("game.speed", 1)
	viper.SetDefault("game.max_players", 8)
	viper.SetDefault("game.ticket_cost", 2)
	viper.SetDefault("game.jackpot_amount", 500_000_000)
	viper.SetDefault("game.admin_password", "admin123")

	viper.AutomaticEnv()

	// A missing config file is fine; the defaults describe a playable game.
	if err = viper.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing {
			return nil, err
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
