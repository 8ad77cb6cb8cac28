// Package action executes named actions against the remote database and
// waits until each transaction is confirmed.
//
// An Action turns a list of input rows into one signed transaction,
// broadcasts it and polls its status until the remote side reports
// "success", rejects it, or stops answering. Only a confirmed Execute
// returns nil, so callers may treat a nil error as durable.
//
//	add, err := action.New(action.Config{
//	    Name:   "add_records",
//	    DBID:   action.Lazy(dbidFromPublicKey),
//	    Signer: s,
//	    Client: kwil.NewHTTPClient("http://localhost:8080"),
//	})
//	registry, err := action.NewRegistry(add)
package action
