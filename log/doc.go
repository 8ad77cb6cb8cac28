// Package log provides the leveled, printf-style logger used across kwilsquid.
//
// Components accept a Logger in their configuration and fall back to the
// package default when none is given. Three implementations are provided:
//
//   - NewDefaultLogger: writes through the standard library logger to stderr
//   - NewNopLogger: discards everything, handy in tests
//   - NewGologLogger: adapts a kataras/golog logger
//
// # Example
//
//	logger := log.NewGologLogger(golog.New())
//	logger.SetLevel(log.LevelDebug)
//	log.SetDefault(logger)
//
//	log.Info("connected, checkpoint height %d", state.Height)
package log
