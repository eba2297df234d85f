package manifest

import (
	"fmt"

	"solana-course/internal/programs/tokenmeta"
)

func (m Manifest) validate() error {
	if m.Name == "" || len(m.Name) > tokenmeta.MaxNameLength {
		return fmt.Errorf("invalid name: must be 1-%d bytes", tokenmeta.MaxNameLength)
	}
	if len(m.Symbol) > tokenmeta.MaxSymbolLength {
		return fmt.Errorf("invalid symbol: longer than %d bytes", tokenmeta.MaxSymbolLength)
	}
	if m.SellerFeeBasisPoints > 10000 {
		return fmt.Errorf("invalid seller_fee_basis_points: %d", m.SellerFeeBasisPoints)
	}
	if m.Decimals > 9 {
		return fmt.Errorf("invalid decimals: %d", m.Decimals)
	}
	for i, a := range m.Attributes {
		if a.TraitType == "" {
			return fmt.Errorf("attribute %d: empty trait_type", i)
		}
	}

	return nil
}
