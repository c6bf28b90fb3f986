package orm

import (
	"context"
)

// getMulti 把中间件串起来，最后一个 Handler 才真正去查询
func getMulti[T any](ctx context.Context, db *DB, qc *QueryContext) *QueryResult {
	var handler Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getMultiHandler[T](ctx, db, qc)
	}
	for i := len(db.mdls) - 1; i >= 0; i-- {
		handler = db.mdls[i](handler)
	}
	return handler(ctx, qc)
}

func getMultiHandler[T any](ctx context.Context, db *DB, qc *QueryContext) *QueryResult {
	rows, err := db.queryContext(ctx, qc.Query.SQL, qc.Query.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*T, 0, 16)
	for rows.Next() {
		tp := new(T)
		val := db.valCreator(tp, qc.Model)
		// 来源列目前只是读出来，所有的行都映射成 T
		if _, err = val.SetColumns(rows); err != nil {
			return &QueryResult{Err: err}
		}
		res = append(res, tp)
	}
	if err = rows.Err(); err != nil {
		return &QueryResult{Err: err}
	}
	return &QueryResult{Result: res}
}
