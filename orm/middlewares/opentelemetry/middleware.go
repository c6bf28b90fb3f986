package opentelemetry

import (
	"context"

	"github.com/coderi421/bow/orm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/coderi421/bow/orm/middlewares/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			tbl := qc.Model.TableName
			ctx, span := m.Tracer.Start(ctx, qc.Type+"-"+tbl)
			defer span.End()

			span.SetAttributes(
				attribute.String("component", "orm"),
				attribute.String("table", tbl),
				attribute.String("sql", qc.Query.SQL),
				attribute.Int("page", qc.Page),
				attribute.Int("page_size", qc.PageSize),
			)

			res := next(ctx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
				span.SetStatus(codes.Error, res.Err.Error())
			}
			return res
		}
	}
}
