package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger holds one log.Logger per level and the active threshold.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	output      io.Writer
	level       LogLevel
	mutex       sync.Mutex
}

// LogLevel defines the logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// calldepth points log.Lshortfile at the caller of Printf/Errorf/...
const calldepth = 3

// GlobalLogger starts as an INFO logger on stdout so packages can log
// before InitLogger runs (tests, early config loading).
var GlobalLogger = New(os.Stdout, INFO)
var once sync.Once

// ParseLevel maps a config string to a LogLevel, defaulting to INFO.
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// New builds a standalone logger.
func New(output io.Writer, level LogLevel) *Logger {
	if output == nil {
		output = os.Stdout
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		infoLogger:  log.New(output, color.GreenString("INFO: "), flags),
		warnLogger:  log.New(output, color.YellowString("WARN: "), flags),
		errorLogger: log.New(output, color.RedString("ERROR: "), flags),
		debugLogger: log.New(output, color.BlueString("DEBUG: "), flags),
		output:      output,
		level:       level,
	}
}

// InitLogger replaces the global logger with the specified output and log level.
// Only the first call has an effect.
func InitLogger(output io.Writer, level string) {
	once.Do(func() {
		GlobalLogger = New(output, ParseLevel(level))
	})
}

// Level returns the active threshold.
func (l *Logger) Level() LogLevel {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.level
}

func (l *Logger) write(level LogLevel, target *log.Logger, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.level <= level {
		_ = target.Output(calldepth, msg)
	}
}

// Println logs a message at the INFO level
func (l *Logger) Println(v ...interface{}) {
	l.write(INFO, l.infoLogger, fmt.Sprintln(v...))
}

// Printf logs a formatted message at the INFO level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.write(INFO, l.infoLogger, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted message at the WARN level
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(WARN, l.warnLogger, fmt.Sprintf(format, v...))
}

// Error logs a message at the ERROR level
func (l *Logger) Error(v ...interface{}) {
	l.write(ERROR, l.errorLogger, fmt.Sprintln(v...))
}

// Errorf logs a formatted message at the ERROR level
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(ERROR, l.errorLogger, fmt.Sprintf(format, v...))
}

// Debug logs a message at the DEBUG level
func (l *Logger) Debug(v ...interface{}) {
	l.write(DEBUG, l.debugLogger, fmt.Sprintln(v...))
}

// Debugf logs a formatted message at the DEBUG level
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(DEBUG, l.debugLogger, fmt.Sprintf(format, v...))
}
