package orm

import (
	"context"

	"github.com/coderi421/bow/orm/model"
)

// QueryContext 中间件的上下文
// 语句在进入中间件之前就已经构造好了，中间件可以读取，也可以篡改
type QueryContext struct {
	// Type 声明查询类型，目前只有 SELECT
	Type string

	Query *Query
	// qc.Model.TableName 为了有的中间件在拦截时需要 Model 信息
	Model *model.Model

	Page     int
	PageSize int
}

type QueryResult struct {
	// Result 在 Selector.ToList 里面是 []*T
	Result any
	Err    error
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult
