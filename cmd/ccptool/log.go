package main

import (
	"os"

	"github.com/connectornet/ccp/infrastructure/logger"
)

var (
	backendLog = logger.NewBackend()
	log        = backendLog.Logger("CCPT")
)

func enableLogging(cfg *configFlags) error {
	err := backendLog.AddLogWriter(os.Stderr, logger.LevelWarn)
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		err = backendLog.AddLogFile(cfg.LogFile, logger.LevelTrace)
		if err != nil {
			return err
		}
	}
	err = backendLog.Run()
	if err != nil {
		return err
	}

	level, _ := logger.LevelFromString(cfg.LogLevel)
	log.SetLevel(level)
	return nil
}
