package config_types

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// struct field names are used for env variable names. Edit with care
type (
	ClusterConfig struct {
		RpcUrl          string        `required:"false" split_words:"true" default:"https://api.devnet.solana.com"`
		RpcTimeout      time.Duration `required:"false" split_words:"true" default:"30s"`
		Commitment      Commitment    `required:"false" split_words:"true" default:"confirmed"`
		ExplorerCluster string        `required:"false" split_words:"true" default:"devnet"`
	}
	AirdropConfig struct {
		// SOL amounts, decimal strings
		Amount    string `required:"false" split_words:"true" default:"1"`
		Threshold string `required:"false" split_words:"true"`
	}
	WebConfig struct {
		Port        uint64 `required:"true" split_words:"true"`
		MetricsPort uint64 `required:"false" split_words:"true"`
		CertFile    string `required:"false" split_words:"true"`
		PublicUrl   string `required:"true" split_words:"true"`
	}
	AssetsConfig struct {
		Url string `required:"true" split_words:"true"`
	}
)

// struct field names are used for env variable names. Edit with care
type (
	SQLiteConfig struct {
		DBPath string `required:"true" split_words:"true"`
	}
)

type Commitment rpc.CommitmentType

func (c *Commitment) Decode(value string) error {
	switch rpc.CommitmentType(value) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		*c = Commitment(value)
		return nil
	}

	return fmt.Errorf("unsupported commitment %q", value)
}

func (c Commitment) Type() rpc.CommitmentType {
	return rpc.CommitmentType(c)
}

type PossibleConfig interface {
	Validate() error
}

func LoadFile[T PossibleConfig](envFile string) (c T, err error) {
	if envFile != "" {
		err = godotenv.Load(envFile)
		if err != nil {
			return c, fmt.Errorf("godotenv.Load (%s): %s", envFile, err)
		}
	}

	err = envconfig.Process("", &c)
	if err != nil {
		return c, fmt.Errorf("envconfig.Process: %s", err)
	}

	err = c.Validate()
	if err != nil {
		return c, fmt.Errorf("validate: %s", err)
	}

	return c, nil
}
