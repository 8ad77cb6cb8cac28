package kwil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// PayloadType names the kind of payload a transaction carries.
type PayloadType string

const (
	PayloadTypeExecuteAction PayloadType = "execute_action"
)

// SignedMsgConcat is the serialization tag of transactions whose signature
// covers SigningMessage.
const SignedMsgConcat = "concat"

// ActionExecution is the payload of an execute_action transaction.
type ActionExecution struct {
	DBID      string         `json:"dbid"`
	Action    string         `json:"action"`
	Arguments []*ActionInput `json:"arguments"`
}

// TransactionBody is the signed part of a transaction.
type TransactionBody struct {
	Description string      `json:"desc"`
	Payload     []byte      `json:"payload"`
	PayloadType PayloadType `json:"type"`
	Fee         string      `json:"fee"`
	Nonce       uint64      `json:"nonce"`
	ChainID     string      `json:"chain_id"`
}

// Signature is a signature and the scheme that produced it.
type Signature struct {
	Signature []byte `json:"sig"`
	Type      string `json:"type"`
}

// Transaction is a signed transaction ready to broadcast.
type Transaction struct {
	Body          *TransactionBody `json:"body"`
	Signature     *Signature       `json:"signature"`
	Sender        []byte           `json:"sender"`
	Serialization string           `json:"serialization"`
}

// SigningMessage is the text the sender signs for body.
func SigningMessage(body *TransactionBody) []byte {
	digest := sha256.Sum256(body.Payload)

	var sb strings.Builder
	sb.WriteString(body.Description)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "PayloadType: %s\n", body.PayloadType)
	fmt.Fprintf(&sb, "PayloadDigest: %s\n", hex.EncodeToString(digest[:20]))
	fmt.Fprintf(&sb, "Fee: %s\n", body.Fee)
	fmt.Fprintf(&sb, "Nonce: %d\n", body.Nonce)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Kwil Chain ID: %s\n", body.ChainID)
	return []byte(sb.String())
}

// TxResult is the execution outcome of an included transaction.
type TxResult struct {
	Code      uint32 `json:"code"`
	Log       string `json:"log"`
	GasUsed   int64  `json:"gas_used"`
	GasWanted int64  `json:"gas_wanted"`
}

// The log values the poller interprets: empty means not yet included.
const (
	LogPending = ""
	LogSuccess = "success"
)

// TxQueryResponse is the answer to a transaction status query.
type TxQueryResponse struct {
	Hash     []byte       `json:"hash"`
	Height   int64        `json:"height"`
	Tx       *Transaction `json:"tx,omitempty"`
	TxResult *TxResult    `json:"tx_result"`
}

// Account is the remote view of a sender.
type Account struct {
	Identifier []byte `json:"identifier"`
	Balance    string `json:"balance"`
	Nonce      int64  `json:"nonce"`
}

// ChainInfo describes the remote network.
type ChainInfo struct {
	ChainID     string `json:"chain_id"`
	BlockHeight int64  `json:"height"`
	BlockHash   string `json:"hash"`
}
