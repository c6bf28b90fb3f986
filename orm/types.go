package orm

import (
	"context"

	"github.com/coderi421/bow/orm/params"
)

type Querier[T any] interface {
	// ToList runs the query and maps every row onto a new *T.
	// page <= 0 returns every row.
	ToList(ctx context.Context, bag *params.Bag, page, pageSize int) ([]*T, error)
}

// Query 一次执行对应的语句和参数，Args 里面都是 sql.NamedArg
type Query struct {
	SQL  string
	Args []any
}

type QueryBuilder interface {
	Build(bag *params.Bag, page, pageSize int) (*Query, error)
}
