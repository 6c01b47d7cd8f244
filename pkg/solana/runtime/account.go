package runtime

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
)

// Account is the state stored at an address.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      ed25519.PublicKey
	Executable bool
}

// NewSystemAccount returns an account with no data owned by the system
// program.
func NewSystemAccount(lamports uint64) *Account {
	return &Account{
		Lamports: lamports,
		Owner:    append(ed25519.PublicKey{}, system.ProgramKey[:]...),
	}
}

func (a *Account) Clone() *Account {
	return &Account{
		Lamports:   a.Lamports,
		Data:       append([]byte(nil), a.Data...),
		Owner:      append(ed25519.PublicKey(nil), a.Owner...),
		Executable: a.Executable,
	}
}

// IsOwnedBy reports whether program owns the account.
func (a *Account) IsOwnedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.Owner, program)
}

// isEmpty reports whether the account is indistinguishable from one that was
// never created.
func (a *Account) isEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.IsOwnedBy(system.ProgramKey[:])
}

// AccountInfo is an account as passed to a program, along with the privileges
// granted by the calling instruction. The embedded Account is shared by every
// AccountInfo referencing the same address within a transaction.
type AccountInfo struct {
	Key        ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	*Account
}

// Meta returns the account meta that would pass this account to another
// instruction with the same privileges.
func (i *AccountInfo) Meta() solana.AccountMeta {
	return solana.AccountMeta{
		PublicKey:  i.Key,
		IsSigner:   i.IsSigner,
		IsWritable: i.IsWritable,
	}
}

type accountSnapshot struct {
	lamports uint64
	data     []byte
	owner    ed25519.PublicKey
}

func snapshotOf(a *Account) accountSnapshot {
	return accountSnapshot{
		lamports: a.Lamports,
		data:     append([]byte(nil), a.Data...),
		owner:    append(ed25519.PublicKey(nil), a.Owner...),
	}
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
