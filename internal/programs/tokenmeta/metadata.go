package tokenmeta

import (
	"errors"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ErrNotMetadata = errors.New("not a metadata account")

type Data struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             *[]Creator `bin:"optional"`
}

// Metadata is the leading part of a metadata account; later optional fields are not read.
type Metadata struct {
	Key                 uint8
	UpdateAuthority     solana.PublicKey
	Mint                solana.PublicKey
	Data                Data
	PrimarySaleHappened bool
	IsMutable           bool
}

// DecodeMetadata reads a metadata account. Name, symbol and uri are stored NUL padded on chain.
func DecodeMetadata(data []byte) (m Metadata, err error) {
	if len(data) == 0 || data[0] != KeyMetadataV1 {
		return m, ErrNotMetadata
	}
	err = bin.NewBorshDecoder(data).Decode(&m)
	if err != nil {
		return m, fmt.Errorf("decode metadata: %s", err)
	}
	m.Data.Name = trimPadding(m.Data.Name)
	m.Data.Symbol = trimPadding(m.Data.Symbol)
	m.Data.Uri = trimPadding(m.Data.Uri)

	return m, nil
}

func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

// Attribute and the rest below follow the off-chain JSON standard the uri points to.
type (
	OffChainMetadata struct {
		Name                 string      `json:"name"`
		Symbol               string      `json:"symbol,omitempty"`
		Description          string      `json:"description,omitempty"`
		Image                string      `json:"image,omitempty"`
		SellerFeeBasisPoints uint16      `json:"seller_fee_basis_points,omitempty"`
		ExternalUrl          string      `json:"external_url,omitempty"`
		Attributes           []Attribute `json:"attributes,omitempty"`
		Properties           *Properties `json:"properties,omitempty"`
	}

	Attribute struct {
		TraitType string `json:"trait_type"`
		Value     string `json:"value"`
	}

	Properties struct {
		Files    []File `json:"files,omitempty"`
		Category string `json:"category,omitempty"`
	}

	File struct {
		Uri  string `json:"uri"`
		Type string `json:"type"`
	}
)
