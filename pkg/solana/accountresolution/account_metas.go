package accountresolution

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/binary"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/solana/runtime"
	"github.com/code-payments/transfer-hook/pkg/solana/tlv"
)

const (
	countSize = 4

	// AccountMetaSize is the packed size of a single account meta:
	// address (32), is_signer (1), is_writable (1).
	AccountMetaSize = ed25519.PublicKeySize + 1 + 1
)

// SizeOf returns the number of bytes needed to store one account meta list
// per provided count, each under its own TLV entry.
func SizeOf(counts ...int) int {
	var size int
	for _, count := range counts {
		size += tlv.HeaderSize + countSize + count*AccountMetaSize
	}
	return size
}

// InitWithAccountMetas writes metas under d into the next free TLV slot of
// data.
func InitWithAccountMetas(data []byte, d discriminator.Discriminator, metas []solana.AccountMeta) error {
	for _, meta := range metas {
		if len(meta.PublicKey) != ed25519.PublicKeySize {
			return errors.Wrapf(solana.ErrInvalidArgument, "invalid account meta address length: %d", len(meta.PublicKey))
		}
	}

	state, err := tlv.Unpack(data)
	if err != nil {
		return err
	}

	value, err := state.Alloc(d, countSize+len(metas)*AccountMetaSize)
	if err != nil {
		return err
	}

	var offset int
	binary.PutUint32(value[offset:], uint32(len(metas)), &offset)
	for _, meta := range metas {
		binary.PutKey32(value[offset:], meta.PublicKey, &offset)
		binary.PutBool(value[offset:], meta.IsSigner, &offset)
		binary.PutBool(value[offset:], meta.IsWritable, &offset)
	}

	return nil
}

// InitWithAccountInfos is InitWithAccountMetas using the privileges with
// which each account was passed to the current instruction.
func InitWithAccountInfos(data []byte, d discriminator.Discriminator, infos []*runtime.AccountInfo) error {
	metas := make([]solana.AccountMeta, len(infos))
	for i, info := range infos {
		metas[i] = info.Meta()
	}
	return InitWithAccountMetas(data, d, metas)
}

// UnpackWithTLVState returns the account metas stored under d.
func UnpackWithTLVState(state *tlv.State, d discriminator.Discriminator) ([]solana.AccountMeta, error) {
	value, err := state.GetBytes(d)
	if err != nil {
		return nil, err
	}

	if len(value) < countSize {
		return nil, errors.Wrap(solana.ErrInvalidAccountData, "account meta list missing length")
	}

	var count uint32
	var offset int
	binary.GetUint32(value, &count, &offset)

	if uint64(len(value)) != countSize+uint64(count)*AccountMetaSize {
		return nil, errors.Wrapf(solana.ErrInvalidAccountData, "account meta list of %d entries has %d bytes", count, len(value))
	}

	metas := make([]solana.AccountMeta, count)
	for i := range metas {
		binary.GetKey32(value[offset:], &metas[i].PublicKey, &offset)
		binary.GetBool(value[offset:], &metas[i].IsSigner, &offset)
		binary.GetBool(value[offset:], &metas[i].IsWritable, &offset)
	}
	return metas, nil
}

// Unpack returns the account metas stored under d in TLV encoded data.
func Unpack(data []byte, d discriminator.Discriminator) ([]solana.AccountMeta, error) {
	state, err := tlv.Unpack(data)
	if err != nil {
		return nil, err
	}
	return UnpackWithTLVState(state, d)
}
