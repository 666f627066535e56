package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init builds the global logger. Call once at startup.
func Init(env string) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.OutputPaths = []string{"stdout"}

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	log = l.Sugar()
}

func ensure() {
	if log == nil {
		Init("development")
	}
}

func Info(msg string, keysAndValues ...any) {
	ensure()
	log.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	ensure()
	log.Warnw(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	ensure()
	log.Debugw(msg, keysAndValues...)
}

// Error accepts either a bare error (logged under the "error" key) or
// alternating key/value pairs.
func Error(msg string, args ...any) {
	ensure()
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			log.Errorw(msg, "error", err)
			return
		}
	}
	log.Errorw(msg, args...)
}
