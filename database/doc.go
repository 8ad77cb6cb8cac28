// Package database couples block range progress to remote write
// acknowledgement.
//
// A Database owns the checkpoint hooks and the action registry. Each
// Transact call validates that the new head advances the stored
// checkpoint, runs the caller's callback (which executes actions and
// waits for their confirmation), and only then persists the new head. A
// failed callback leaves the checkpoint untouched, so the same range is
// processed again on the next run.
//
//	db, err := database.New(database.Config{Actions: registry})
//	head, err := db.Connect(ctx)
//	err = db.Transact(ctx, database.TxInfo{PrevHead: head, NextHead: next},
//	    func(ctx context.Context, actions *action.Registry) error {
//	        return actions.MustGet("add_records").Execute(ctx, rows...)
//	    })
package database
