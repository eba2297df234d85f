// Package manifest reads YAML descriptions of the tokens and NFTs the scripts create.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"solana-course/internal/programs/tokenmeta"
)

type Manifest struct {
	Name                 string      `yaml:"name"`
	Symbol               string      `yaml:"symbol"`
	Description          string      `yaml:"description"`
	Image                string      `yaml:"image"`
	ExternalUrl          string      `yaml:"external_url"`
	SellerFeeBasisPoints uint16      `yaml:"seller_fee_basis_points"`
	Decimals             uint8       `yaml:"decimals"`
	Attributes           []Attribute `yaml:"attributes"`

	dir string
}

type Attribute struct {
	TraitType string `yaml:"trait_type"`
	Value     string `yaml:"value"`
}

// LoadFile parses the given YAML file into a Manifest. A relative image path is resolved against the file dir.
func LoadFile(filename string) (m Manifest, err error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return m, err
	}
	m, err = Load(content)
	if err != nil {
		return m, fmt.Errorf("parsing YAML file %s: %s", filename, err)
	}
	m.dir = filepath.Dir(filename)

	err = m.validate()
	if err != nil {
		return m, fmt.Errorf("validate %s: %s", filename, err)
	}

	return m, nil
}

// Load parses the YAML input s into a Manifest.
func Load(s []byte) (m Manifest, err error) {
	d := yaml.NewDecoder(bytes.NewBuffer(s))
	d.KnownFields(true)
	err = d.Decode(&m)
	if err != nil {
		return m, err
	}

	return m, nil
}

func (m Manifest) ImagePath() string {
	if m.Image == "" || filepath.IsAbs(m.Image) {
		return m.Image
	}

	return filepath.Join(m.dir, m.Image)
}

func (m Manifest) OffChain(imageUri, contentType string) tokenmeta.OffChainMetadata {
	meta := tokenmeta.OffChainMetadata{
		Name:                 m.Name,
		Symbol:               m.Symbol,
		Description:          m.Description,
		Image:                imageUri,
		SellerFeeBasisPoints: m.SellerFeeBasisPoints,
		ExternalUrl:          m.ExternalUrl,
	}
	for _, a := range m.Attributes {
		meta.Attributes = append(meta.Attributes, tokenmeta.Attribute{TraitType: a.TraitType, Value: a.Value})
	}
	if imageUri != "" {
		meta.Properties = &tokenmeta.Properties{
			Files:    []tokenmeta.File{{Uri: imageUri, Type: contentType}},
			Category: "image",
		}
	}

	return meta
}

// DataV2 is the on-chain part of the manifest pointing at the uploaded off-chain JSON.
func (m Manifest) DataV2(uri string) tokenmeta.DataV2 {
	return tokenmeta.DataV2{
		Name:                 m.Name,
		Symbol:               m.Symbol,
		Uri:                  uri,
		SellerFeeBasisPoints: m.SellerFeeBasisPoints,
	}
}
