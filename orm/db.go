package orm

import (
	"context"
	"database/sql"

	"github.com/coderi421/bow/orm/internal/binder"
	"github.com/coderi421/bow/orm/internal/valuer"
	"github.com/coderi421/bow/orm/internal/valuer/unsafe"
	"github.com/coderi421/bow/orm/model"
)

// defaultPlaceholderCacheSize 缓存多少条语句的占位符
const defaultPlaceholderCacheSize = 256

type DBOption func(*DB)

// DB 是 sql.DB 的装饰器
type DB struct {
	core
	db *sql.DB

	placeholderCacheSize int
}

// Open 创建一个 DB 实例。
// 默认情况下，该 DB 将使用 MSSQL 的分页语法，以及反射来处理结果集
func Open(driver string, dsn string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return OpenDB(db, opts...)
}

// OpenDB wraps an already opened *sql.DB.
func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	res := &DB{
		core: core{
			r:          model.NewRegistry(),
			valCreator: valuer.NewReflectValue,
		},
		db:                   db,
		placeholderCacheSize: defaultPlaceholderCacheSize,
	}
	for _, opt := range opts {
		opt(res)
	}

	b, err := binder.New(res.placeholderCacheSize, pageOffsetParam, pageFetchParam)
	if err != nil {
		return nil, err
	}
	res.binder = b
	return res, nil
}

// MustOpen creates a new DB with the provided options.
// If the creation fails, it panics.
func MustOpen(driver string, dsn string, opts ...DBOption) *DB {
	db, err := Open(driver, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

func DBWithRegistry(r model.Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

// DBUseUnsafeValuer 使用 unsafe 基于字段偏移量写结果集
func DBUseUnsafeValuer() DBOption {
	return func(db *DB) {
		db.valCreator = unsafe.NewUnsafeValue
	}
}

// DBWithPlaceholderCache 设置占位符缓存的容量
func DBWithPlaceholderCache(size int) DBOption {
	return func(db *DB) {
		db.placeholderCacheSize = size
	}
}

// Register 显式注册一个模型，例如修改表名或者列名
func (db *DB) Register(val any, opts ...model.Option) (*model.Model, error) {
	return db.r.Register(val, opts...)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}
