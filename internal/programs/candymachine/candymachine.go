// Package candymachine decodes Candy Machine v2 accounts and the config lines loaded into them.
package candymachine

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"solana-course/internal/pkg/chain"
)

var ProgramID = solana.MustPublicKeyFromBase58("cndy3Z4yapfJBmL3ShUp5exZKqR3z33thTzeNMm2gRZ")

const (
	// config lines follow the largest possible header, so their offset does not depend on the settings
	configArrayStart = 713
	configLineSize   = 240

	maxNameLength = 32
	maxUriLength  = 200
)

var (
	ErrNotCandyMachine = errors.New("not a candy machine account")

	discriminator = bin.Sighash(bin.SIGHASH_ACCOUNT_NAMESPACE, "CandyMachine")
)

type (
	Creator struct {
		Address  solana.PublicKey
		Verified bool
		Share    uint8
	}

	EndSettings struct {
		EndSettingType uint8
		Number         uint64
	}

	HiddenSettings struct {
		Name string
		Uri  string
		Hash [32]byte
	}

	WhitelistMintSettings struct {
		Mode          uint8
		Mint          solana.PublicKey
		Presale       bool
		DiscountPrice *uint64 `bin:"optional"`
	}

	GatekeeperConfig struct {
		GatekeeperNetwork solana.PublicKey
		ExpireOnUse       bool
	}

	Data struct {
		Uuid                  string
		Price                 uint64
		Symbol                string
		SellerFeeBasisPoints  uint16
		MaxSupply             uint64
		IsMutable             bool
		RetainAuthority       bool
		GoLiveDate            *int64       `bin:"optional"`
		EndSettings           *EndSettings `bin:"optional"`
		Creators              []Creator
		HiddenSettings        *HiddenSettings        `bin:"optional"`
		WhitelistMintSettings *WhitelistMintSettings `bin:"optional"`
		ItemsAvailable        uint64
		Gatekeeper            *GatekeeperConfig `bin:"optional"`
	}

	header struct {
		Authority     solana.PublicKey
		Wallet        solana.PublicKey
		TokenMint     *solana.PublicKey `bin:"optional"`
		ItemsRedeemed uint64
		Data          Data
	}

	// Item is one config line: the name and uri an NFT gets when minted.
	Item struct {
		Name string `json:"name"`
		Uri  string `json:"uri"`
	}

	CandyMachine struct {
		Address       solana.PublicKey  `json:"address"`
		Authority     solana.PublicKey  `json:"authority"`
		Wallet        solana.PublicKey  `json:"wallet"`
		TokenMint     *solana.PublicKey `json:"token_mint,omitempty"`
		ItemsRedeemed uint64            `json:"items_redeemed"`
		Data          Data              `json:"-"`
		Items         []Item            `json:"items"`
	}
)

// Decode reads the header and the loaded config lines. Lines not written yet are zero filled and skipped.
func Decode(data []byte) (cm CandyMachine, err error) {
	if len(data) < len(discriminator) || !bytes.Equal(data[:len(discriminator)], discriminator) {
		return cm, ErrNotCandyMachine
	}

	var h header
	err = bin.NewBorshDecoder(data[len(discriminator):]).Decode(&h)
	if err != nil {
		return cm, fmt.Errorf("decode candy machine: %s", err)
	}
	cm = CandyMachine{
		Authority:     h.Authority,
		Wallet:        h.Wallet,
		TokenMint:     h.TokenMint,
		ItemsRedeemed: h.ItemsRedeemed,
		Data:          h.Data,
		Items:         []Item{},
	}
	cm.Data.Uuid = trimPadding(cm.Data.Uuid)
	cm.Data.Symbol = trimPadding(cm.Data.Symbol)

	// hidden settings machines carry no config lines
	if h.Data.HiddenSettings != nil && len(data) < configArrayStart+4 {
		return cm, nil
	}
	if len(data) < configArrayStart+4 {
		return cm, errors.New("decode candy machine: account too short for config lines")
	}

	count := int(binary.LittleEndian.Uint32(data[configArrayStart:]))
	lines := data[configArrayStart+4:]
	if count > len(lines)/configLineSize {
		return cm, fmt.Errorf("decode candy machine: %d config lines do not fit %d bytes", count, len(lines))
	}
	for i := 0; i < count; i++ {
		item := decodeLine(lines[i*configLineSize : (i+1)*configLineSize])
		if item.Name == "" && item.Uri == "" {
			continue
		}
		cm.Items = append(cm.Items, item)
	}

	return cm, nil
}

// decodeLine reads a line of two length prefixed strings with fixed capacity.
func decodeLine(line []byte) Item {
	return Item{
		Name: readFixedString(line[:4+maxNameLength], maxNameLength),
		Uri:  readFixedString(line[4+maxNameLength:], maxUriLength),
	}
}

func readFixedString(b []byte, capacity int) string {
	n := int(binary.LittleEndian.Uint32(b))
	if n > capacity {
		n = capacity
	}

	return trimPadding(string(b[4 : 4+n]))
}

func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

// Fetch loads and decodes the candy machine at address.
func Fetch(ctx context.Context, client *chain.Client, address solana.PublicKey) (cm CandyMachine, err error) {
	acc, err := client.AccountInfo(ctx, address)
	if err != nil {
		return cm, err
	}
	if acc == nil || acc.Data == nil || !acc.Owner.Equals(ProgramID) {
		return cm, ErrNotCandyMachine
	}

	cm, err = Decode(acc.Data.GetBinary())
	if err != nil {
		return cm, err
	}
	cm.Address = address

	return cm, nil
}
