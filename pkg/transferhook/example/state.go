package example

import (
	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/transferhook"
)

// mintToAccountCount is the number of additional accounts Init stores for
// MintTo. The remaining additional accounts are stored for Transfer.
const mintToAccountCount = 3

// ExampleData returns validation account data holding the first three metas
// for MintTo and the rest for Transfer, as written by Init.
func ExampleData(metas []solana.AccountMeta) ([]byte, error) {
	if len(metas) < mintToAccountCount {
		return nil, solana.ErrNotEnoughAccountKeys
	}

	data := make([]byte, accountresolution.SizeOf(mintToAccountCount, len(metas)-mintToAccountCount))
	if err := accountresolution.InitWithAccountMetas(data, transferhook.MintToDiscriminator, metas[:mintToAccountCount]); err != nil {
		return nil, err
	}
	if err := accountresolution.InitWithAccountMetas(data, transferhook.TransferDiscriminator, metas[mintToAccountCount:]); err != nil {
		return nil, err
	}
	return data, nil
}
