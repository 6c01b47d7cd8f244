package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/binary"
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L37
const MintSize = 82

type Mint struct {
	// Optional authority used to mint new tokens. If unset, the supply is
	// fixed.
	MintAuthority ed25519.PublicKey
	// Total supply of tokens.
	Supply uint64
	// Number of base 10 digits to the right of the decimal place.
	Decimals uint8
	// Is true if this structure has been initialized
	IsInitialized bool
	// Optional authority to freeze token accounts.
	FreezeAuthority ed25519.PublicKey
}

func (m *Mint) Marshal() []byte {
	b := make([]byte, MintSize)

	var offset int
	binary.PutOptionalKey32(b, m.MintAuthority, &offset, binary.OptionSize)
	binary.PutUint64(b[offset:], m.Supply, &offset)
	binary.PutUint8(b[offset:], m.Decimals, &offset)
	binary.PutBool(b[offset:], m.IsInitialized, &offset)
	binary.PutOptionalKey32(b[offset:], m.FreezeAuthority, &offset, binary.OptionSize)

	return b
}

// Unmarshal decodes the base mint state. Trailing bytes, such as extension
// data, are ignored.
func (m *Mint) Unmarshal(b []byte) error {
	if len(b) < MintSize {
		return errors.Wrapf(solana.ErrInvalidAccountData, "invalid mint size: %d", len(b))
	}

	for _, tagOffset := range []int{0, 36 + 8 + 1 + 1} {
		if !isValidOptionTag(b[tagOffset : tagOffset+binary.OptionSize]) {
			return errors.Wrapf(solana.ErrInvalidAccountData, "invalid option tag at %d", tagOffset)
		}
	}

	var offset int
	binary.GetOptionalKey32(b, &m.MintAuthority, &offset, binary.OptionSize)
	binary.GetUint64(b[offset:], &m.Supply, &offset)
	binary.GetUint8(b[offset:], &m.Decimals, &offset)
	if b[offset] > 1 {
		return errors.Wrap(solana.ErrInvalidAccountData, "invalid is_initialized flag")
	}
	binary.GetBool(b[offset:], &m.IsInitialized, &offset)
	binary.GetOptionalKey32(b[offset:], &m.FreezeAuthority, &offset, binary.OptionSize)

	return nil
}

// GetMintAuthority returns the mint authority stored in mint account data,
// or nil when the mint has none.
func GetMintAuthority(data []byte) (ed25519.PublicKey, error) {
	var m Mint
	if err := m.Unmarshal(data); err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, solana.ErrUninitializedAccount
	}
	return m.MintAuthority, nil
}

// COption tags are a little endian u32 of 0 or 1.
func isValidOptionTag(tag []byte) bool {
	return (tag[0] == 0 || tag[0] == 1) && tag[1] == 0 && tag[2] == 0 && tag[3] == 0
}
