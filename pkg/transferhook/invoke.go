package transferhook

import (
	"bytes"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/solana/runtime"
)

// mintIndex is the position of the mint within each hook instruction's fixed
// accounts.
var mintIndex = map[discriminator.Discriminator]int{
	MintToDiscriminator:   0,
	TransferDiscriminator: 1,
}

// InvokeExecute is used by a base program to call into a hook program. The
// instruction is a MintTo or Transfer hook instruction built without extra
// accounts. The extra accounts stored in the validation account are appended
// in order, taken from accountInfos, and the hook program is invoked.
func InvokeExecute(ictx *runtime.InvokeContext, instruction solana.Instruction, accountInfos []*runtime.AccountInfo) error {
	d, _, err := UnpackWithDiscriminatorChecked(instruction.Data)
	if err != nil {
		return err
	}

	idx, ok := mintIndex[d]
	if !ok {
		return errors.Wrapf(solana.ErrInvalidInstructionData, "not a hook execute instruction: %s", d)
	}
	if len(instruction.Accounts) <= idx {
		return solana.ErrNotEnoughAccountKeys
	}

	validation, err := GetExtraAccountMetasAddress(instruction.Accounts[idx].PublicKey, instruction.Program)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}

	validationInfo := findAccountInfo(accountInfos, validation)
	if validationInfo == nil {
		ictx.Log("Validation account %s not provided", base58.Encode(validation))
		return ErrIncorrectAccount
	}

	stored, err := accountresolution.Unpack(validationInfo.Data, d)
	if err != nil {
		return err
	}

	for _, meta := range stored {
		if findAccountInfo(accountInfos, meta.PublicKey) == nil {
			ictx.Log("Extra account %s not provided", base58.Encode(meta.PublicKey))
			return ErrIncorrectAccount
		}
	}

	instruction.Accounts = append(append([]solana.AccountMeta(nil), instruction.Accounts...), stored...)
	return ictx.Invoke(instruction, accountInfos)
}

func findAccountInfo(infos []*runtime.AccountInfo, key []byte) *runtime.AccountInfo {
	for _, info := range infos {
		if bytes.Equal(info.Key, key) {
			return info
		}
	}
	return nil
}
