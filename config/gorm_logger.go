package config

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm's query log through zap.
type GormLogger struct {
	log                  *zap.Logger
	level                gormlogger.LogLevel
	slowThreshold        time.Duration
	ignoreRecordNotFound bool
}

func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{
		log:                  log.With(zap.String("component", "gorm")),
		level:                level,
		slowThreshold:        200 * time.Millisecond,
		ignoreRecordNotFound: true,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copy := *l
	copy.level = level
	return &copy
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && (!errors.Is(err, gormlogger.ErrRecordNotFound) || !l.ignoreRecordNotFound):
		sql, rows := fc()
		l.log.Error("gorm.query", queryFields(sql, rows, elapsed, zap.Error(err))...)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn("gorm.slow_query", queryFields(sql, rows, elapsed)...)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug("gorm.query", queryFields(sql, rows, elapsed)...)
	}
}

// ParamsFilter drops bound values so passwords and tokens never reach the log.
func (l *GormLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}

func queryFields(sql string, rows int64, elapsed time.Duration, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("sql", strings.TrimSpace(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	return append(fields, extra...)
}

var _ gormlogger.Interface = (*GormLogger)(nil)
