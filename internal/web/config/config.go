package config

import (
	"fmt"

	"solana-course/internal/pkg/config_types"
)

type Config struct {
	Web     config_types.WebConfig
	Cluster config_types.ClusterConfig
	SQLite  config_types.SQLiteConfig
}

func (c Config) Validate() error {
	if err := c.Web.Validate(); err != nil {
		return fmt.Errorf("web: %s", err)
	}
	if err := c.Cluster.Validate(); err != nil {
		return fmt.Errorf("cluster: %s", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %s", err)
	}

	return nil
}
