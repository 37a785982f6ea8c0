// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import "fmt"

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package tosca

// Interpreter runs the code of a single call. Nested calls and creates are
// issued through Parameters.Context; the engine suspends executions there.
type Interpreter interface {
	// Run executes Parameters.Code. Halts caused by the code, like running
	// out of gas, are reported in the Result. Errors are reserved for
	// failures of the interpreter itself, including unsupported revisions
	// (*ErrUnsupportedRevision), and leave the Result undefined.
	Run(Parameters) (Result, error)
}

// Parameters are the inputs of a single call.
type Parameters struct {
	BlockParameters
	TransactionParameters
	Context   RunContext
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Value
	CodeHash  *Hash
	Code      Code
}

// BlockParameters describe the block all calls are executed in.
type BlockParameters struct {
	ChainID     Word
	BlockNumber int64
	Timestamp   int64
	Coinbase    Address
	GasLimit    Gas
	PrevRandao  Hash
	BaseFee     Value
	BlobBaseFee Value
	Revision    Revision
}

// TransactionParameters are shared by all calls of a transaction.
type TransactionParameters struct {
	Origin     Address
	GasPrice   Value
	BlobHashes []Hash
}

// RunContext is the view of a call on the transaction it is part of.
type RunContext interface {
	TransactionContext

	// Call issues a nested call or create and blocks until its result is
	// known. A returned error aborts the calling execution.
	Call(kind CallKind, parameter CallParameters) (CallResult, error)
}

// TransactionContext is the journaled state of a transaction: the world
// state plus transient storage, access lists and logs. Every change is
// undone by restoring an earlier snapshot.
type TransactionContext interface {
	WorldState

	CreateSnapshot() Snapshot
	RestoreSnapshot(Snapshot)

	GetTransientStorage(Address, Key) Word
	SetTransientStorage(Address, Key, Word)

	AccessAccount(Address) AccessStatus
	AccessStorage(Address, Key) AccessStatus

	EmitLog(Log)
	GetLogs() []Log

	// GetBlockHash returns the hash of the block with the given number.
	GetBlockHash(number int64) Hash

	// GetCommittedStorage returns the value of a slot at the beginning of
	// the current transaction.
	GetCommittedStorage(addr Address, key Key) Word
	// HasSelfDestructed reports whether addr was destructed in the
	// current transaction.
	HasSelfDestructed(addr Address) bool
}

// AccessStatus tells first (cold) and repeated (warm) accesses apart.
type AccessStatus bool

const (
	ColdAccess AccessStatus = false
	WarmAccess AccessStatus = true
)

// Result is the outcome of Interpreter.Run.
type Result struct {
	Status    Status
	Halt      error // < the reason of a StatusFailed result, nil otherwise
	Output    Data
	GasLeft   Gas
	GasRefund Gas
}

// Success is false if the execution ended in a revert or a failure.
func (r Result) Success() bool {
	return r.Status.Success()
}

// Data is the input or output of a call.
type Data []byte

// Gas counts units of computation.
type Gas int64

// Snapshot identifies a position in the journal of a TransactionContext.
type Snapshot int

// Log is an event emitted by LOG0 to LOG4.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Data
}

// CallKind is the instruction a call or create was issued with.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	StaticCall
	CallCode
	Create
	Create2
)

type CallParameters struct {
	Sender      Address
	Recipient   Address // < not relevant for CREATE and CREATE2
	Value       Value   // < ignored by static calls, considered to be 0
	Input       Data
	Gas         Gas
	Salt        Hash // < only relevant for CREATE2 calls
	CodeAddress Address

	// The memory region of the caller receiving the output. The interpreter
	// performs the copy itself, the region is informational for observers.
	ReturnOffset uint64
	ReturnSize   uint64
}

type CallResult struct {
	Output         Data
	GasLeft        Gas
	GasRefund      Gas
	CreatedAddress Address // < only meaningful for CREATE and CREATE2
	Success        bool    // false if the execution ended in a revert, true otherwise
}

// Revision is an Ethereum hard fork defining the rules of execution.
type Revision int

// Revisions known to the engine. The evm interpreter starts at Berlin.
const (
	R07_Istanbul Revision = iota
	R09_Berlin
	R10_London
	R11_Paris
	R12_Shanghai
	R13_Cancun
	numRevisions int = iota
)

// R99_UnknownNextRevision is a placeholder for revisions not yet supported.
const R99_UnknownNextRevision = Revision(99)

// ErrUnsupportedRevision is returned for revisions an interpreter lacks.
type ErrUnsupportedRevision struct {
	Revision Revision
}

func (e *ErrUnsupportedRevision) Error() string {
	return fmt.Sprintf("unsupported revision %d", e.Revision)
}
