package extraaccountmetas

import (
	"bytes"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/solana/tlv"
)

var (
	ErrRecordNotFound = errors.New("no records could be found")
	ErrInvalidRecord  = errors.New("invalid extra account metas record")
	ErrStaleRecord    = errors.New("extra account metas record is stale")
)

// Record is an indexed copy of a transfer hook validation account, keyed by
// the (mint, hook program) pair it was derived from.
type Record struct {
	Id uint64

	Address string
	Bump    uint8

	Mint    string
	Program string

	// Data is the TLV encoded validation account data
	Data []byte

	// Slot at which Data was observed
	Slot uint64

	LastUpdatedAt time.Time
}

// NewRecordFromAccountData indexes validation account data observed at slot.
func NewRecordFromAccountData(mint, program ed25519.PublicKey, address ed25519.PublicKey, bump uint8, data []byte, slot uint64) *Record {
	return &Record{
		Address: base58.Encode(address),
		Bump:    bump,
		Mint:    base58.Encode(mint),
		Program: base58.Encode(program),
		Data:    append([]byte(nil), data...),
		Slot:    slot,
	}
}

// GetExtraAccountMetas returns the account metas stored under d.
func (r *Record) GetExtraAccountMetas(d discriminator.Discriminator) ([]solana.AccountMeta, error) {
	return accountresolution.Unpack(r.Data, d)
}

func (r *Record) Validate() error {
	for name, value := range map[string]string{
		"address": r.Address,
		"mint":    r.Mint,
		"program": r.Program,
	} {
		decoded, err := base58.Decode(value)
		if err != nil || len(decoded) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrInvalidRecord, "invalid %s: %q", name, value)
		}
	}

	if _, err := tlv.Unpack(r.Data); err != nil {
		return errors.Wrapf(ErrInvalidRecord, "invalid data: %v", err)
	}

	return nil
}

func (r *Record) Clone() *Record {
	return &Record{
		Id: r.Id,

		Address: r.Address,
		Bump:    r.Bump,

		Mint:    r.Mint,
		Program: r.Program,

		Data: append([]byte(nil), r.Data...),

		Slot: r.Slot,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Bump = r.Bump

	dst.Mint = r.Mint
	dst.Program = r.Program

	dst.Data = append([]byte(nil), r.Data...)

	dst.Slot = r.Slot

	dst.LastUpdatedAt = r.LastUpdatedAt
}

// Equal reports whether both records hold the same indexed state, ignoring
// store assigned metadata.
func (r *Record) Equal(other *Record) bool {
	return r.Address == other.Address &&
		r.Bump == other.Bump &&
		r.Mint == other.Mint &&
		r.Program == other.Program &&
		bytes.Equal(r.Data, other.Data) &&
		r.Slot == other.Slot
}
