package logger

// Interface is the logging capability handed to the config store and the mailer.
type Interface interface {
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
	Debug(v ...any)
	Debugf(format string, v ...any)
	Close() error
}

// DefaultLogFile is the log sink used when no path is configured.
const DefaultLogFile = "mail_sender.log"
