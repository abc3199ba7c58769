// Package common holds the configuration and logging setup shared by the
// dStore libraries and the command line tool.
//
// Logging goes through the logger package of Dragonboat: every dStore package
// fetches its logger with logger.GetLogger (see the Logger* constants) and
// InitLoggers applies the configured level to all of them.
package common
