// Package logger is a thin object-tagged front end over logrus.
// Entries are formatted on the caller side and written by a single drain
// goroutine so codec hot paths never wait on the output.
package logger

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

type logPair struct {
	logFn func(...any)
	obj   string
	msg   string
}

const (
	logSize  = 1000
	objWidth = 20
)

var (
	logCh     = make(chan logPair, logSize)
	drainOnce sync.Once
)

func objToString(obj any) (objStr string) {
	if obj == nil {
		objStr = "NIL"
	} else if stringerObj, ok := obj.(stringer); ok {
		objStr = stringerObj.String()
	} else if objStr, ok = obj.(string); ok {
	} else {
		t := reflect.TypeOf(obj)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		objStr = t.Name()
	}
	if len(objStr) > objWidth {
		objStr = objStr[:objWidth]
	}
	return
}

func drain() {
	drainOnce.Do(func() {
		go func() {
			for pair := range logCh {
				pair.logFn(fmt.Sprintf("|%20s|%-100s", pair.obj, pair.msg))
			}
		}()
	})
}

// Init sets the level and the text formatter used by the examples.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	drain()
}

// InitFromString parses a logrus level name such as "debug" and calls Init.
func InitFromString(lvl string) error {
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return err
	}
	Init(level)
	return nil
}

func send(lvl logrus.Level, fn func(...any), object any, msg string) {
	if logrus.GetLevel() < lvl {
		return
	}
	drain()
	logCh <- logPair{logFn: fn, obj: objToString(object), msg: msg}
}

func Trace(object any, message string) {
	send(logrus.TraceLevel, logrus.Trace, object, message)
}

func Tracef(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.TraceLevel {
		return
	}
	send(logrus.TraceLevel, logrus.Trace, object, fmt.Sprintf(message, args...))
}

func Debug(object any, message string) {
	send(logrus.DebugLevel, logrus.Debug, object, message)
}

func Debugf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.DebugLevel {
		return
	}
	send(logrus.DebugLevel, logrus.Debug, object, fmt.Sprintf(message, args...))
}

func Info(object any, message string) {
	send(logrus.InfoLevel, logrus.Info, object, message)
}

func Infof(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.InfoLevel {
		return
	}
	send(logrus.InfoLevel, logrus.Info, object, fmt.Sprintf(message, args...))
}

func Warning(object any, message string) {
	send(logrus.WarnLevel, logrus.Warning, object, message)
}

func Warningf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.WarnLevel {
		return
	}
	send(logrus.WarnLevel, logrus.Warning, object, fmt.Sprintf(message, args...))
}

func Error(object any, message string) {
	send(logrus.ErrorLevel, logrus.Error, object, message)
}

func Errorf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.ErrorLevel {
		return
	}
	send(logrus.ErrorLevel, logrus.Error, object, fmt.Sprintf(message, args...))
}

// Fatal logs synchronously and exits.
func Fatal(object any, message string) {
	logrus.Fatalf("|%20s|%-100s", objToString(object), message)
}

func Fatalf(object any, message string, args ...any) {
	logrus.Fatalf("|%20s|%-100s", objToString(object), fmt.Sprintf(message, args...))
}
