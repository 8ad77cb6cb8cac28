// Package processor drives a Database over consecutive block ranges.
//
// A Source yields blocks after the last checkpoint; the Runner hands each
// range to a Handler inside one Database.Transact call, so the checkpoint
// moves to the last block of a range only when every write of the range
// was confirmed.
package processor
