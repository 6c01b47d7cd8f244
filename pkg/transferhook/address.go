package transferhook

import (
	"crypto/ed25519"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/runtime"
)

var (
	extraAccountMetasPrefix = []byte("extra-account-metas")
)

// GetExtraAccountMetasAddress returns the validation account address for a
// mint and hook program.
func GetExtraAccountMetasAddress(mint, program ed25519.PublicKey) (ed25519.PublicKey, error) {
	address, _, err := GetExtraAccountMetasAddressAndBump(mint, program)
	return address, err
}

func GetExtraAccountMetasAddressAndBump(mint, program ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, CollectExtraAccountMetasSeeds(mint)...)
}

func CollectExtraAccountMetasSeeds(mint ed25519.PublicKey) [][]byte {
	return [][]byte{extraAccountMetasPrefix, mint}
}

// CollectExtraAccountMetasSignerSeeds returns the capability a hook program
// passes to InvokeSigned to act on behalf of its validation account.
func CollectExtraAccountMetasSignerSeeds(mint ed25519.PublicKey, bump uint8) runtime.SignerSeeds {
	return runtime.SignerSeeds{
		Seeds: CollectExtraAccountMetasSeeds(mint),
		Bump:  bump,
	}
}
