package transferhook

import (
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
)

// discriminatorNamespace is the namespace hashed into the interface's
// instruction discriminators.
const discriminatorNamespace = "spl-hook-interface"

// HookInstruction is implemented by every instruction a hook program must
// handle on behalf of the base program. Its discriminator doubles as the TLV
// key under which the instruction's extra account metas are stored.
type HookInstruction interface {
	Discriminator() discriminator.Discriminator
	Pack() []byte
}

// UnpackWithDiscriminatorChecked splits instruction data into its
// discriminator and payload.
func UnpackWithDiscriminatorChecked(input []byte) (discriminator.Discriminator, []byte, error) {
	return discriminator.Split(input)
}
