package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database     DatabaseConfigs
	ApiServer    ServerConfigs
	Auth         AuthConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
	Eth          EthConfigs
	Distribution DistributionConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type AuthConfigs struct {
	TokenSecret  string
	AccessToken  TokenConfigs
	RefreshToken TokenConfigs

	// Wallet addresses which are bootstrapped with the super admin role at
	// the first login.
	SuperAdminAddresses []string
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr       string
	ClaimTopic string
}

// ChainConfig is loaded from the chain TOML file given by the --chain flag.
type ChainConfig struct {
	Chain string   `toml:"chain" json:"chain"`
	ID    int64    `toml:"id" json:"id"`
	Rpcs  []string `toml:"rpcs" json:"rpcs"`

	UseEip1559 bool `toml:"use_eip_1559" json:"use_eip_1559"`
	BlockTime  int  `toml:"block_time" json:"block_time"`
}

type EthConfigs struct {
	Chain ChainConfig

	// SecretKey derives the treasury signing key, see pkg/ethutil.
	SecretKey string

	CollectionAddress  string
	PayoutTokenAddress string
	CoordinatorAddress string

	WatcherInterval time.Duration
}

type DistributionConfigs struct {
	TotalTokens   int
	ClaimDuration time.Duration
}
