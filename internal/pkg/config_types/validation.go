package config_types

import (
	"errors"
	"fmt"
	"net/url"
)

func (c ClusterConfig) Validate() error {
	if err := validateUrl(c.RpcUrl); err != nil {
		return fmt.Errorf("invalid RpcUrl: %s", err)
	}
	if c.RpcTimeout <= 0 {
		return fmt.Errorf("invalid RpcTimeout: %s", c.RpcTimeout)
	}
	if c.ExplorerCluster == "" {
		return errors.New("empty ExplorerCluster")
	}

	return nil
}

func (a AirdropConfig) Validate() error {
	if a.Amount == "" {
		return errors.New("empty Amount")
	}

	return nil
}

func (w WebConfig) Validate() error {
	if w.Port == 0 {
		return errors.New("invalid port")
	}
	if w.MetricsPort != 0 && w.MetricsPort == w.Port {
		return errors.New("metrics port must differ from port")
	}
	if err := validateUrl(w.PublicUrl); err != nil {
		return fmt.Errorf("invalid PublicUrl: %s", err)
	}

	return nil
}

func (a AssetsConfig) Validate() error {
	if err := validateUrl(a.Url); err != nil {
		return fmt.Errorf("invalid Url: %s", err)
	}

	return nil
}

func (p SQLiteConfig) Validate() error {
	if p.DBPath == "" {
		return fmt.Errorf("invalid DBPath")
	}

	return nil
}

func validateUrl(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("empty host")
	}

	return nil
}
