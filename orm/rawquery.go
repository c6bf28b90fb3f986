package orm

import (
	"context"
	"sync"

	"github.com/coderi421/bow/orm/internal/binder"
	"github.com/coderi421/bow/orm/params"
)

// RawQuerier 执行调用者自己写的语句，只负责绑定参数和映射结果
type RawQuerier[T any] struct {
	db  *DB
	sql string
}

// RawQuery 创建一个 RawQuerier 实例
// 泛型参数 T 是目标类型。
// 例如，如果查询 User 的数据，那么 T 就是 User
func RawQuery[T any](db *DB, query string) *RawQuerier[T] {
	return &RawQuerier[T]{
		db:  db,
		sql: query,
	}
}

func (r *RawQuerier[T]) Build(bag *params.Bag) (*Query, error) {
	query, args, err := r.db.binder.Bind(r.sql, bag)
	if err != nil {
		return nil, err
	}
	return &Query{
		SQL:  query,
		Args: args,
	}, nil
}

func (r *RawQuerier[T]) ToList(ctx context.Context, bag *params.Bag) ([]*T, error) {
	q, err := r.Build(bag)
	if err != nil {
		return nil, err
	}
	m, err := r.db.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	res := getMulti[T](ctx, r.db, &QueryContext{
		Type:  "RAW",
		Query: q,
		Model: m,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.([]*T), nil
}

var (
	defaultBinder     *binder.Binder
	defaultBinderOnce sync.Once
)

// Bind 不依赖 DB 绑定参数，例如在命令行里查看展开后的语句
func Bind(query string, bag *params.Bag) (*Query, error) {
	defaultBinderOnce.Do(func() {
		// size > 0 的时候不会返回 error
		defaultBinder, _ = binder.New(defaultPlaceholderCacheSize)
	})
	sql, args, err := defaultBinder.Bind(query, bag)
	if err != nil {
		return nil, err
	}
	return &Query{
		SQL:  sql,
		Args: args,
	}, nil
}
