package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var sugar *zap.SugaredLogger

// SetupLogger 初始化日志配置
func SetupLogger() error {
	logDir := getEnv("LOG_DIR", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	level := zapcore.InfoLevel
	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	// 日志文件按大小轮转，同时输出到控制台
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "smart-aviv.log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(os.Stdout), level),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("service_name", "smart-aviv"))
	sugar = logger.Sugar()

	return nil
}

// logSugar falls back to a development logger when SetupLogger was not called
// (tests and one-off tools).
func logSugar() *zap.SugaredLogger {
	if sugar == nil {
		logger, _ := zap.NewDevelopment(zap.AddCallerSkip(1))
		sugar = logger.Sugar()
	}
	return sugar
}

// Info 记录信息级别的日志
func Info(format string, v ...interface{}) {
	logSugar().Infof(format, v...)
}

// Warning 记录警告级别的日志
func Warning(format string, v ...interface{}) {
	logSugar().Warnf(format, v...)
}

// Error 记录错误级别的日志
func Error(format string, v ...interface{}) {
	logSugar().Errorf(format, v...)
}
