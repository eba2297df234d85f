package config

import (
	"fmt"

	"solana-course/internal/pkg/config_types"
)

type (
	Config struct {
		Cluster config_types.ClusterConfig
		Airdrop config_types.AirdropConfig
	}

	// UploadConfig is used by the scripts that store images and metadata JSON.
	UploadConfig struct {
		Cluster config_types.ClusterConfig
		Airdrop config_types.AirdropConfig
		Assets  config_types.AssetsConfig
	}
)

func (c Config) Validate() error {
	if err := c.Cluster.Validate(); err != nil {
		return fmt.Errorf("cluster: %s", err)
	}
	if err := c.Airdrop.Validate(); err != nil {
		return fmt.Errorf("airdrop: %s", err)
	}

	return nil
}

func (c UploadConfig) Validate() error {
	err := Config{Cluster: c.Cluster, Airdrop: c.Airdrop}.Validate()
	if err != nil {
		return err
	}
	if err := c.Assets.Validate(); err != nil {
		return fmt.Errorf("assets: %s", err)
	}

	return nil
}
