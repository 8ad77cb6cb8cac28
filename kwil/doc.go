// Package kwil holds the wire types and the HTTP client of the remote Kwil
// database: action rows, signed transactions, and transaction status
// queries.
//
// An action execution is a single transaction whose payload names the
// database (DBID), the action, and every input row in order:
//
//	row := kwil.NewActionInput().
//	    Put("$id", log.ID).
//	    Put("$token_id", tokenID)
//
//	tx, err := kwil.NewBuilder(client, signer).Build(ctx, kwil.ActionTx{
//	    DBID:      kwil.GenerateDBID("test_subsquid", pubKey),
//	    Action:    "add_records",
//	    Inputs:    kwil.Batch{row},
//	    PublicKey: pubKey,
//	    ChainID:   "kwil-chain",
//	})
//
// Confirmation is observed through TxQuery: an empty result log means the
// transaction is still pending, "success" means it was applied, any other
// log is the rejection reason.
package kwil
