package runtime

import (
	"context"
	"crypto/ed25519"
	base "sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/transfer-hook/pkg/metrics"
	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
	"github.com/code-payments/transfer-hook/pkg/sync"
)

const (
	metricsStructName = "runtime.bank"

	transactionCountMetricName   = "Runtime/transaction_count"
	transactionFailedMetricName  = "Runtime/transaction_failed_count"
	transactionLatencyMetricName = "Runtime/transaction_latency"
)

// Transaction is an ordered list of instructions executed atomically.
type Transaction struct {
	Instructions []solana.Instruction

	// Signers are the addresses that signed the transaction. Any account
	// meta marked as a signer must be present.
	Signers []ed25519.PublicKey
}

func NewTransaction(signers []ed25519.PublicKey, instructions ...solana.Instruction) *Transaction {
	return &Transaction{
		Instructions: instructions,
		Signers:      signers,
	}
}

// Bank holds account state and executes transactions against it.
//
// Transactions touching disjoint accounts run concurrently. Transactions
// sharing an account serialize on that account's lock for their whole
// duration, writers exclusively.
type Bank struct {
	log  *logrus.Entry
	conf *conf

	locks *sync.StripedLock

	accountsMu base.RWMutex
	accounts   map[string]*Account

	programsMu base.RWMutex
	programs   map[string]Program
}

// NewBank returns a bank with the builtin system program registered.
func NewBank(configProvider ConfigProvider) *Bank {
	conf := configProvider()

	b := &Bank{
		log:      logrus.StandardLogger().WithField("type", "solana/runtime"),
		conf:     conf,
		locks:    sync.NewStripedLock(uint(conf.lockStripes.Get(context.Background()))),
		accounts: make(map[string]*Account),
		programs: make(map[string]Program),
	}
	b.RegisterProgram(system.ProgramKey[:], systemProgram{})
	return b
}

// RegisterProgram deploys program at id, replacing any existing program.
func (b *Bank) RegisterProgram(id ed25519.PublicKey, program Program) {
	b.programsMu.Lock()
	b.programs[string(id)] = program
	b.programsMu.Unlock()

	b.accountsMu.Lock()
	b.accounts[string(id)] = &Account{
		Lamports:   1,
		Owner:      append(ed25519.PublicKey{}, system.ProgramKey[:]...),
		Executable: true,
	}
	b.accountsMu.Unlock()
}

func (b *Bank) getProgram(id ed25519.PublicKey) (Program, bool) {
	b.programsMu.RLock()
	defer b.programsMu.RUnlock()

	program, ok := b.programs[string(id)]
	return program, ok
}

// SetAccount overwrites the state at address.
func (b *Bank) SetAccount(address ed25519.PublicKey, account *Account) {
	unlock := b.locks.LockAll([][]byte{address}, nil)
	defer unlock()

	b.accountsMu.Lock()
	defer b.accountsMu.Unlock()

	if account == nil || account.isEmpty() {
		delete(b.accounts, string(address))
		return
	}
	b.accounts[string(address)] = account.Clone()
}

// GetAccount returns a copy of the state at address, or nil if no account
// exists.
func (b *Bank) GetAccount(address ed25519.PublicKey) *Account {
	b.accountsMu.RLock()
	defer b.accountsMu.RUnlock()

	account, ok := b.accounts[string(address)]
	if !ok {
		return nil
	}
	return account.Clone()
}

// ProcessTransaction executes the transaction's instructions in order. If any
// instruction fails, a solana.InstructionError identifying it is returned and
// none of the transaction's changes are committed.
func (b *Bank) ProcessTransaction(ctx context.Context, txn *Transaction) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ProcessTransaction")
	defer tracer.End()

	start := time.Now()
	defer func() {
		metrics.RecordCount(ctx, transactionCountMetricName, 1)
		metrics.RecordDuration(ctx, transactionLatencyMetricName, time.Since(start))
		if err != nil {
			metrics.RecordCount(ctx, transactionFailedMetricName, 1)
			tracer.OnError(err)
		}
	}()

	if len(txn.Instructions) == 0 {
		return errors.New("transaction has no instructions")
	}

	signers := make(map[string]struct{})
	for _, signer := range txn.Signers {
		signers[string(signer)] = struct{}{}
	}

	var writable, readonly [][]byte
	for i, instruction := range txn.Instructions {
		readonly = append(readonly, instruction.Program)

		for _, meta := range instruction.Accounts {
			if _, ok := signers[string(meta.PublicKey)]; meta.IsSigner && !ok {
				return solana.NewInstructionError(i, solana.ErrMissingRequiredSignature)
			}

			if meta.IsWritable {
				writable = append(writable, meta.PublicKey)
			} else {
				readonly = append(readonly, meta.PublicKey)
			}
		}
	}

	unlock := b.locks.LockAll(writable, readonly)
	defer unlock()

	working := b.loadWorkingSet(txn)

	log := b.log.WithField("method", "ProcessTransaction")
	ictx := &InvokeContext{
		ctx:          ctx,
		log:          log,
		bank:         b,
		maxCallDepth: int(b.conf.maxCallDepth.Get(ctx)),
	}

	for i, instruction := range txn.Instructions {
		accounts := make([]*AccountInfo, len(instruction.Accounts))
		for j, meta := range instruction.Accounts {
			accounts[j] = &AccountInfo{
				Key:        meta.PublicKey,
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
				Account:    working[string(meta.PublicKey)],
			}
		}

		if err := ictx.execute(instruction.Program, accounts, instruction.Data); err != nil {
			log.WithError(err).
				WithField("instruction", i).
				WithField("program", base58.Encode(instruction.Program)).
				Debug("instruction failed")
			return solana.NewInstructionError(i, err)
		}
	}

	b.commit(txn, working)
	return nil
}

func (b *Bank) loadWorkingSet(txn *Transaction) map[string]*Account {
	b.accountsMu.RLock()
	defer b.accountsMu.RUnlock()

	working := make(map[string]*Account)
	for _, instruction := range txn.Instructions {
		for _, meta := range instruction.Accounts {
			key := string(meta.PublicKey)
			if _, ok := working[key]; ok {
				continue
			}

			if account, ok := b.accounts[key]; ok {
				working[key] = account.Clone()
			} else {
				working[key] = NewSystemAccount(0)
			}
		}
	}
	return working
}

func (b *Bank) commit(txn *Transaction, working map[string]*Account) {
	b.accountsMu.Lock()
	defer b.accountsMu.Unlock()

	for _, instruction := range txn.Instructions {
		for _, meta := range instruction.Accounts {
			if !meta.IsWritable {
				continue
			}

			key := string(meta.PublicKey)
			account := working[key]
			if account.isEmpty() {
				delete(b.accounts, key)
			} else {
				b.accounts[key] = account
			}
		}
	}
}
