package log

import (
	log "github.com/sirupsen/logrus"
)

type typedLog struct {
	General *log.Entry
	Cli     *log.Entry
	Web     *log.Entry
	Chain   *log.Entry
	Storage *log.Entry
}

var (
	Logger *typedLog
)

// Init logger on start
func init() {
	Logger = &typedLog{
		General: log.WithFields(log.Fields{"module": "general"}),
		Cli:     log.WithFields(log.Fields{"module": "cli"}),
		Web:     log.WithFields(log.Fields{"module": "web"}),
		Chain:   log.WithFields(log.Fields{"module": "chain"}),
		Storage: log.WithFields(log.Fields{"module": "storage"}),
	}
}

func Setup(lvl string) error {
	logLevel, err := log.ParseLevel(lvl)
	if err != nil {
		return err
	}

	// log format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	log.SetLevel(logLevel)
	return nil
}
