// Package logger 构建各服务共用的 zap logger
package logger

import (
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileRotate 为空 Filename 时不写文件
type FileRotate struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level   string // debug / info / warn / error
	JSON    bool   // false 时输出彩色控制台格式，并开启 Development
	Service string // 每条日志带上 service 字段
	Rotate  FileRotate
	Out     zapcore.WriteSyncer // 默认 stdout
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func rotating(r FileRotate) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   r.Filename,
		MaxSize:    max(1, r.MaxSizeMB),
		MaxBackups: max(0, r.MaxBackups),
		MaxAge:     max(0, r.MaxAgeDays),
		Compress:   r.Compress,
	})
}

// Build 返回 logger 以及退出前调用的 flush
func Build(o Options) (*zap.Logger, func()) {
	lvl, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	out := o.Out
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}
	if o.Rotate.Filename != "" {
		out = zapcore.NewMultiWriteSyncer(out, rotating(o.Rotate))
	}

	// 每秒同一消息前 100 条全量，之后每 100 条取 1 条
	core := zapcore.NewSamplerWithOptions(zapcore.NewCore(encoder(o.JSON), out, lvl), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller()}
	if !o.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	if o.Service != "" {
		l = l.With(zap.String("service", o.Service))
	}
	return l, func() { _ = l.Sync() }
}

type levelWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	if ce := w.l.Check(w.level, strings.TrimRight(string(p), "\r\n")); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToStdLogger 供 gorm 等只接受 *log.Logger 的组件使用
func ToStdLogger(l *zap.Logger, level zapcore.Level) *log.Logger {
	return log.New(levelWriter{l: l, level: level}, "", 0)
}

// RedirectStdLog 把标准库 log 的输出转到 l，返回恢复函数
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
