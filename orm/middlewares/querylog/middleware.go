package querylog

import (
	"context"
	"os"

	"github.com/coderi421/bow/orm"
	"github.com/rs/zerolog"
)

type MiddlewareBuilder struct {
	logger  zerolog.Logger
	logFunc func(query string, args []any)
}

// NewBuilder 默认使用 zerolog 输出到标准错误
func NewBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logger: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

// Logger 替换默认的 zerolog.Logger
func (m *MiddlewareBuilder) Logger(logger zerolog.Logger) *MiddlewareBuilder {
	m.logger = logger
	return m
}

// LogFunc 设置之后不再使用 zerolog
func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			q := qc.Query
			if m.logFunc != nil {
				m.logFunc(q.SQL, q.Args)
				return next(ctx, qc)
			}

			res := next(ctx, qc)
			evt := m.logger.Debug()
			if res.Err != nil {
				evt = m.logger.Error().Err(res.Err)
			}
			evt.Str("type", qc.Type).
				Str("table", qc.Model.TableName).
				Str("sql", q.SQL).
				Interface("args", q.Args).
				Msg("query")
			return res
		}
	}
}
