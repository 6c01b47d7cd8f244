package runtime

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
)

// Program processes instructions addressed to it.
//
// accounts are in the order of the instruction's account metas. Mutations to
// the accounts are only committed if the whole transaction succeeds.
type Program interface {
	Process(ictx *InvokeContext, program ed25519.PublicKey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ictx *InvokeContext, program ed25519.PublicKey, accounts []*AccountInfo, data []byte) error

func (f ProgramFunc) Process(ictx *InvokeContext, program ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	return f(ictx, program, accounts, data)
}

// SignerSeeds lets a program sign for an address derived from its own id.
// It is only honoured for the single invocation it is passed to.
type SignerSeeds struct {
	Seeds [][]byte
	Bump  uint8
}

// Address returns the program derived address these seeds sign for.
func (s SignerSeeds) Address(program ed25519.PublicKey) (ed25519.PublicKey, error) {
	seeds := make([][]byte, 0, len(s.Seeds)+1)
	seeds = append(seeds, s.Seeds...)
	seeds = append(seeds, []byte{s.Bump})

	address, err := solana.CreateProgramAddress(program, seeds...)
	if err != nil {
		return nil, errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	return address, nil
}
