// Package redis stores the checkpoint in Redis.
//
// The checkpoint lives under "<prefix>status" using the status file
// encoding, so a record can be copied between the file and Redis backends
// by hand:
//
//	hooks := redis.New(redis.Options{
//	    Addr:   "localhost:6379",
//	    Prefix: "bayc:",
//	})
//	defer hooks.Close()
package redis
