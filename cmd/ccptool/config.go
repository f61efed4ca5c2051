package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/connectornet/ccp/infrastructure/logger"
)

const (
	defaultSpeaker = "g.example"
	defaultTableID = "00000000-0000-0000-0000-000000000000"
)

type configFlags struct {
	Decode       string   `short:"d" long:"decode" description:"Decode a hex-encoded CCP packet (pass '-' to read the hex from stdin)"`
	MakeControl  bool     `long:"make-control" description:"Emit a hex-encoded route control request"`
	MakeUpdate   bool     `long:"make-update" description:"Emit a hex-encoded route update request"`
	MakeResponse bool     `long:"make-response" description:"Emit a hex-encoded CCP acknowledgement"`
	Speaker      string   `long:"speaker" description:"Speaker for --make-control"`
	TableID      string   `long:"table-id" description:"Routing-table ID for --make-control and --make-update"`
	Epoch        uint32   `long:"epoch" description:"Last known epoch for --make-control"`
	Features     []string `long:"feature" description:"Feature token for --make-control (repeatable)"`
	CurrentEpoch uint32   `long:"current-epoch" description:"Current epoch index for --make-update"`
	FromEpoch    uint32   `long:"from-epoch" description:"First epoch index covered by --make-update"`
	ToEpoch      uint32   `long:"to-epoch" description:"One past the last epoch index covered by --make-update"`
	Announce     []string `long:"announce" description:"Prefix to announce in --make-update (repeatable)"`
	Withdraw     []string `long:"withdraw" description:"Prefix to withdraw in --make-update (repeatable)"`
	IgnoreExpiry bool     `long:"ignore-expiry" description:"On decode, dump the raw envelope of an expired request instead of failing"`
	LogFile      string   `long:"logfile" description:"Also write the log to this file"`
	LogLevel     string   `long:"loglevel" description:"Log level: trace, debug, info, warn, error, critical" default:"info"`
	ShowVersion  bool     `short:"V" long:"version" description:"Display version information and exit"`
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		Speaker: defaultSpeaker,
		TableID: defaultTableID,
	}
	parser := flags.NewParser(cfg, flags.HelpFlag)
	parser.Usage = "ccptool [OPTIONS]\n\nExactly one of --decode, --make-control, --make-update or --make-response must be given."
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	if _, ok := logger.LevelFromString(cfg.LogLevel); !ok {
		return nil, errors.Errorf("invalid log level %q", cfg.LogLevel)
	}

	modes := 0
	for _, selected := range []bool{
		cfg.Decode != "", cfg.MakeControl, cfg.MakeUpdate, cfg.MakeResponse} {

		if selected {
			modes++
		}
	}
	if modes != 1 {
		return nil, errors.New("exactly one of --decode, --make-control, " +
			"--make-update or --make-response must be specified")
	}

	return cfg, nil
}
