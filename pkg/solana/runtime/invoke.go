package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/transfer-hook/pkg/solana"
)

// InvokeContext is handed to a program while it processes an instruction. It
// is the program's only way to log and to call other programs.
type InvokeContext struct {
	ctx  context.Context
	log  *logrus.Entry
	bank *Bank

	maxCallDepth int
	stack        []*frame
}

type frame struct {
	program  ed25519.PublicKey
	accounts []*AccountInfo
	pre      map[string]accountSnapshot
}

// Context returns the context of the transaction being processed.
func (c *InvokeContext) Context() context.Context {
	return c.ctx
}

// ProgramID returns the id of the currently executing program.
func (c *InvokeContext) ProgramID() ed25519.PublicKey {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1].program
}

// Depth returns the number of active invocations, including the currently
// executing one.
func (c *InvokeContext) Depth() int {
	return len(c.stack)
}

// Log emits a program log line.
func (c *InvokeContext) Log(format string, args ...interface{}) {
	log := c.log.WithField("depth", len(c.stack))
	if program := c.ProgramID(); program != nil {
		log = log.WithField("program", base58.Encode(program))
	}
	log.Debug(fmt.Sprintf(format, args...))
}

// Invoke calls another program with accounts the current instruction already
// holds.
func (c *InvokeContext) Invoke(instruction solana.Instruction, accounts []*AccountInfo) error {
	return c.InvokeSigned(instruction, accounts)
}

// InvokeSigned is Invoke, additionally granting signer privileges to every
// address derived from the current program id with the provided seeds.
func (c *InvokeContext) InvokeSigned(instruction solana.Instruction, accounts []*AccountInfo, signers ...SignerSeeds) error {
	if len(c.stack) == 0 {
		return errors.New("no active invocation")
	}
	caller := c.stack[len(c.stack)-1]

	pdaSigners := make(map[string]struct{})
	for _, signer := range signers {
		address, err := signer.Address(caller.program)
		if err != nil {
			return err
		}
		pdaSigners[string(address)] = struct{}{}
	}

	byKey := make(map[string]*AccountInfo)
	for _, account := range accounts {
		byKey[string(account.Key)] = account
	}

	calleeAccounts := make([]*AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		callerAccount, ok := byKey[string(meta.PublicKey)]
		if !ok {
			c.Log("Instruction references an unknown account %s", base58.Encode(meta.PublicKey))
			return solana.ErrMissingAccount
		}

		if meta.IsWritable && !callerAccount.IsWritable {
			c.Log("%s's writable privilege escalated", base58.Encode(meta.PublicKey))
			return solana.ErrReadonlyDataModified
		}

		_, isPdaSigner := pdaSigners[string(meta.PublicKey)]
		if meta.IsSigner && !callerAccount.IsSigner && !isPdaSigner {
			c.Log("%s's signer privilege escalated", base58.Encode(meta.PublicKey))
			return solana.ErrMissingRequiredSignature
		}

		calleeAccounts[i] = &AccountInfo{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    callerAccount.Account,
		}
	}

	// Changes the caller made so far must be legal before the callee can
	// observe them.
	if err := caller.verify(calleeAccounts, false); err != nil {
		return err
	}

	if err := c.execute(instruction.Program, calleeAccounts, instruction.Data); err != nil {
		return err
	}

	for _, account := range calleeAccounts {
		caller.pre[string(account.Key)] = snapshotOf(account.Account)
	}
	return nil
}

func (c *InvokeContext) execute(programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	if len(c.stack) >= c.maxCallDepth {
		c.Log("Max call depth %d reached", c.maxCallDepth)
		return solana.ErrCallDepth
	}

	// A program may call itself directly, but not be re-entered through
	// another program.
	if len(c.stack) > 0 && !bytes.Equal(c.ProgramID(), programID) {
		for _, f := range c.stack {
			if bytes.Equal(f.program, programID) {
				c.Log("Reentrancy into %s not allowed", base58.Encode(programID))
				return solana.ErrReentrancyNotAllowed
			}
		}
	}

	program, ok := c.bank.getProgram(programID)
	if !ok {
		return errors.Wrapf(solana.ErrUnsupportedProgramID, "program %s", base58.Encode(programID))
	}

	f := &frame{
		program:  programID,
		accounts: accounts,
		pre:      make(map[string]accountSnapshot),
	}
	for _, account := range accounts {
		f.pre[string(account.Key)] = snapshotOf(account.Account)
	}

	c.stack = append(c.stack, f)
	err := program.Process(c, programID, accounts, data)
	c.stack = c.stack[:len(c.stack)-1]

	if err != nil {
		return err
	}

	return f.verify(accounts, true)
}

// verify checks that the changes made to accounts since the last snapshot
// were permitted for the frame's program. Lamport conservation is only
// checked when accounts is the frame's complete account list.
//
// Reference: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/src/transaction_context.rs#L815
func (f *frame) verify(accounts []*AccountInfo, checkBalance bool) error {
	var preTotal, postTotal uint64

	seen := make(map[string]struct{})
	for _, account := range accounts {
		key := string(account.Key)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		pre, ok := f.pre[key]
		if !ok {
			continue
		}

		// Privileges may differ between duplicate references, so use the
		// most permissive one within this frame.
		isWritable := account.IsWritable
		for _, other := range f.accounts {
			if bytes.Equal(other.Key, account.Key) && other.IsWritable {
				isWritable = true
			}
		}

		if err := verifyAccount(f.program, pre, account.Account, isWritable); err != nil {
			return err
		}

		preTotal += pre.lamports
		postTotal += account.Lamports
	}

	if checkBalance && preTotal != postTotal {
		return solana.ErrUnbalancedInstruction
	}
	return nil
}

func verifyAccount(program ed25519.PublicKey, pre accountSnapshot, post *Account, isWritable bool) error {
	isOwner := bytes.Equal(pre.owner, program)

	if !bytes.Equal(pre.owner, post.Owner) {
		if !isWritable || !isOwner || !isZeroed(post.Data) {
			return solana.ErrModifiedProgramID
		}
	}

	if pre.lamports != post.Lamports {
		if !isWritable {
			return solana.ErrReadonlyLamportChange
		}
		if post.Lamports < pre.lamports && !isOwner {
			return solana.ErrExternalAccountLamportSpend
		}
	}

	if !bytes.Equal(pre.data, post.Data) {
		if !isWritable {
			return solana.ErrReadonlyDataModified
		}
		if !isOwner {
			return solana.ErrExternalAccountDataModified
		}
	}

	return nil
}
