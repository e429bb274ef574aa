package logger

import (
	"io"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Setup initializes Logrus to write to a rotating app.log under dir.
func Setup(dir, level string) {
	// 1) Lumberjack for file rotation
	rotator := newRotator(dir, "app.log")

	// 2) Configure Logrus to write to that file
	logrus.SetOutput(rotator)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithField("level", level).Warn("unknown log level, falling back to info")
	}
	logrus.SetLevel(lvl)
}

// AccessWriter returns the rotating writer used for HTTP access logs.
func AccessWriter(dir string) io.Writer {
	return newRotator(dir, "access.log")
}

func newRotator(dir, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    10, // megabytes
		MaxBackups: 7,  // keep up to 7 old files
		MaxAge:     7,  // days
		Compress:   true,
	}
}

// GormLogger routes GORM output through the standard Logrus logger.
// SQL statements are only traced at debug level.
func GormLogger(level string) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	if lvl, err := logrus.ParseLevel(level); err == nil && lvl >= logrus.DebugLevel {
		gormLevel = gormlogger.Info
	}
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
