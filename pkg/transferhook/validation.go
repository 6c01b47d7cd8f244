package transferhook

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/solana/runtime"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
	"github.com/code-payments/transfer-hook/pkg/solana/token"
)

// CreateValidationAccountChecked creates the validation account for the mint
// on behalf of a hook program, after verifying the mint authority signed. The
// account is sized to hold one extra account meta list per provided count.
func CreateValidationAccountChecked(
	ictx *runtime.InvokeContext,
	program ed25519.PublicKey,
	mintInfo, validationInfo, authorityInfo *runtime.AccountInfo,
	extraAccountCounts ...int,
) error {
	// Avoid fully deserializing the mint, only the authority matters
	mintAuthority, err := token.GetMintAuthority(mintInfo.Data)
	if err != nil {
		return err
	}
	if mintAuthority == nil {
		return ErrMintHasNoMintAuthority
	}

	if !authorityInfo.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	if !bytes.Equal(authorityInfo.Key, mintAuthority) {
		return ErrIncorrectMintAuthority
	}

	expected, bump, err := GetExtraAccountMetasAddressAndBump(mintInfo.Key, program)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if !bytes.Equal(expected, validationInfo.Key) {
		ictx.Log("Expected validation account %s, got %s", base58.Encode(expected), base58.Encode(validationInfo.Key))
		return solana.ErrInvalidSeeds
	}

	signer := CollectExtraAccountMetasSignerSeeds(mintInfo.Key, bump)
	size := accountresolution.SizeOf(extraAccountCounts...)

	accounts := []*runtime.AccountInfo{validationInfo}
	if err := ictx.InvokeSigned(system.Allocate(validationInfo.Key, uint64(size)), accounts, signer); err != nil {
		return err
	}
	return ictx.InvokeSigned(system.Assign(validationInfo.Key, program), accounts, signer)
}

// CheckExtraAccounts verifies the supplied accounts match the stored list
// exactly, in order, by address.
func CheckExtraAccounts(stored []solana.AccountMeta, supplied []*runtime.AccountInfo) error {
	if len(stored) != len(supplied) {
		return errors.Wrapf(ErrIncorrectAccount, "expected %d extra accounts, got %d", len(stored), len(supplied))
	}

	for i, meta := range stored {
		if !bytes.Equal(meta.PublicKey, supplied[i].Key) {
			return errors.Wrapf(ErrIncorrectAccount, "extra account %d: expected %s, got %s", i, base58.Encode(meta.PublicKey), base58.Encode(supplied[i].Key))
		}
	}
	return nil
}

// ValidateExecute is run by a hook program on receipt of a hook instruction
// identified by d. It verifies the validation account belongs to the mint and
// that the extra accounts match what was stored for d.
func ValidateExecute(
	program ed25519.PublicKey,
	mintInfo, validationInfo *runtime.AccountInfo,
	d discriminator.Discriminator,
	extraAccountInfos []*runtime.AccountInfo,
) error {
	expected, err := GetExtraAccountMetasAddress(mintInfo.Key, program)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if !bytes.Equal(expected, validationInfo.Key) {
		return solana.ErrInvalidSeeds
	}

	stored, err := accountresolution.Unpack(validationInfo.Data, d)
	if err != nil {
		return err
	}

	return CheckExtraAccounts(stored, extraAccountInfos)
}
