package kwil

import (
	"context"
	"encoding/json"
	"fmt"
)

// Signer signs transaction messages on behalf of a sender.
type Signer interface {
	Sign(ctx context.Context, msg []byte) (*Signature, error)
	PublicKey(ctx context.Context) ([]byte, error)
}

// ActionTx describes one action execution to build.
type ActionTx struct {
	DBID        string
	Action      string
	Inputs      Batch
	PublicKey   []byte
	ChainID     string
	Description string
}

// Builder turns action executions into signed transactions.
type Builder struct {
	client Client
	signer Signer
}

// NewBuilder returns a builder using client for nonces and signer for
// signatures.
func NewBuilder(client Client, signer Signer) *Builder {
	return &Builder{client: client, signer: signer}
}

// Build encodes the payload, picks the next nonce of the sender and signs.
func (b *Builder) Build(ctx context.Context, at ActionTx) (*Transaction, error) {
	if at.DBID == "" {
		return nil, fmt.Errorf("dbid is required")
	}
	if at.Action == "" {
		return nil, fmt.Errorf("action name is required")
	}
	if len(at.PublicKey) == 0 {
		return nil, fmt.Errorf("sender public key is required")
	}

	args := at.Inputs
	if args == nil {
		args = Batch{}
	}
	payload, err := json.Marshal(&ActionExecution{
		DBID:      at.DBID,
		Action:    at.Action,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	account, err := b.client.Account(ctx, at.PublicKey)
	if err != nil {
		return nil, err
	}

	desc := at.Description
	if desc == "" {
		desc = "You are signing a transaction on a Kwil database. Please review the details carefully."
	}

	body := &TransactionBody{
		Description: desc,
		Payload:     payload,
		PayloadType: PayloadTypeExecuteAction,
		Fee:         "0",
		Nonce:       uint64(account.Nonce + 1),
		ChainID:     at.ChainID,
	}

	sig, err := b.signer.Sign(ctx, SigningMessage(body))
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return &Transaction{
		Body:          body,
		Signature:     sig,
		Sender:        at.PublicKey,
		Serialization: SignedMsgConcat,
	}, nil
}
