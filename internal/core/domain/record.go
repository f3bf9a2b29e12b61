package domain

// OperationKind classifies a completed on-chain operation.
type OperationKind string

const (
	KindTransfer OperationKind = "Transfer"
	KindMint     OperationKind = "Mint"
	KindBurn     OperationKind = "Burn"
)

// TransactionRecord is the durable trace of one confirmed operation. Records
// are immutable once created and ordered newest-first in the history log.
// Counterparty is the recipient for transfers and the acting address for
// mint/burn.
type TransactionRecord struct {
	ID           string        `json:"id"`
	Kind         OperationKind `json:"kind"`
	Amount       string        `json:"amount"`
	Counterparty string        `json:"counterparty"`
	TxHash       string        `json:"txHash"`
	GasUsed      string        `json:"gasUsed"`
	Timestamp    string        `json:"timestamp"`
}
