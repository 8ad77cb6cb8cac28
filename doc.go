// Package kwilsquid bridges a block range indexing processor to a Kwil
// database.
//
// Decoded on-chain events are written as signed action transactions, and
// indexing progress, a (height, hash) checkpoint, only advances after the
// remote database confirmed every transaction of a commit.
//
// # Packages
//
//   - store and its backends (file, memory, redis, postgres, sqlite) keep the
//     checkpoint.
//   - kwil holds the wire types and the HTTP client of the remote database.
//   - signer signs transactions with an Ethereum key.
//   - action executes a named action and polls until the transaction is
//     confirmed or rejected.
//   - database runs one commit per block range: validate, write, persist.
//   - batch groups rows into transactions of at most 1000 rows.
//   - processor feeds block ranges from a Source into a database.
//   - config, log and metrics carry settings, logging and Prometheus
//     collectors.
//
// # Quick Start
//
//	s, _ := signer.FromHex(os.Getenv("PRIVATE_KEY"))
//	pub := action.Lazy(s.PublicKey)
//
//	addRecords, _ := action.New(action.Config{
//		Name:      "add_records",
//		Signer:    s,
//		PublicKey: pub,
//		Client:    kwil.NewHTTPClient("http://localhost:8080"),
//		DBID: action.Lazy(func(ctx context.Context) (string, error) {
//			key, err := pub.Resolve(ctx)
//			if err != nil {
//				return "", err
//			}
//			return kwil.GenerateDBID("test_subsquid", key), nil
//		}),
//	})
//	registry, _ := action.NewRegistry(addRecords)
//
//	db, _ := database.New(database.Config{Actions: registry})
//	runner := processor.NewRunner(db, source, processor.Options{})
//	err := runner.Run(ctx, func(ctx context.Context, blocks []processor.Block, actions *action.Registry) error {
//		acc := batch.New(actions.MustGet("add_records"), batch.DefaultSize)
//		for _, b := range blocks {
//			for _, l := range b.Logs {
//				if err := acc.Add(ctx, toInput(b, l)); err != nil {
//					return err
//				}
//			}
//		}
//		return acc.Flush(ctx)
//	})
//
// See examples/transfers for a complete command.
package kwilsquid
