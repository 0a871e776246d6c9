// Package log builds the slog loggers of siteanalyzer.
//
// Console output is rendered by charmbracelet/log. An optional JSON log
// file is rotated with lumberjack. Every handler sits behind a
// SecureHandler that masks cookies, authorization headers, tokens and
// credential query parameters, even in verbose mode.
//
//	logger, err := log.New(log.Options{Verbose: true, File: "/tmp/siteanalyzer.log"})
//	if err != nil {
//		return err
//	}
//	defer logger.Close()
//	logger.Info("request sent", "cookie", "session=abc123") // cookie=***REDACTED***
package log
