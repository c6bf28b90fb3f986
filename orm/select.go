package orm

import (
	"context"
	"database/sql"

	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/coderi421/bow/orm/model"
	"github.com/coderi421/bow/orm/params"
	"github.com/gotomicro/ekit/slice"
)

// DefaultPageSize 分页时 pageSize <= 0 使用的大小
const DefaultPageSize = 10

// 分页使用的参数名，不会在调用者的参数里查找
const (
	pageOffsetParam = "bow_offset"
	pageFetchParam  = "bow_fetch"
)

var _ QueryBuilder = &Selector[any]{}

// Selector 用于构造 SELECT 语句
// 所有的方法都是追加，并且返回同一个 Selector，所以它不能在多个 goroutine 之间共享
type Selector[T any] struct {
	db *DB

	columns   []string
	sources   []string
	where     []string
	orderBy   []string
	manifests []Manifest
}

// NewSelector creates a new instance of Selector.
func NewSelector[T any](db *DB) *Selector[T] {
	return &Selector[T]{
		db: db,
	}
}

// Select 追加检索的列，例如 Select("Id, Int")
// 没有调用的时候会检索 T 所有可绑定的字段
func (s *Selector[T]) Select(expr string) *Selector[T] {
	s.columns = append(s.columns, expr)
	return s
}

// From 追加数据源，多个数据源会用 UNION ALL 合并
// 没有调用的时候使用 T 的表名
func (s *Selector[T]) From(expr string) *Selector[T] {
	s.sources = append(s.sources, expr)
	return s
}

// Where 追加查询条件，多个条件之间用 AND 连接，每个条件都会加上括号
func (s *Selector[T]) Where(expr string) *Selector[T] {
	s.where = append(s.where, expr)
	return s
}

// OrderBy 追加排序，例如 OrderBy("Name desc")
func (s *Selector[T]) OrderBy(expr string) *Selector[T] {
	s.orderBy = append(s.orderBy, expr)
	return s
}

// Manifest 声明字段 field 之后会从别的查询里填充，foreignKey 是可选的外键字段。
// 这里只记录声明，不会自动查询，填充需要调用 Fill 或者 FillWith
func (s *Selector[T]) Manifest(field string, foreignKey ...string) *Selector[T] {
	m := Manifest{Field: field}
	if len(foreignKey) > 0 {
		m.ForeignKey = foreignKey[0]
	}
	s.manifests = append(s.manifests, m)
	return s
}

// Manifests returns the declared relations in declaration order.
func (s *Selector[T]) Manifests() []Manifest {
	return append([]Manifest(nil), s.manifests...)
}

// Build 构造语句
//
//	select <columns>, '<source>' AS bow_source from <source>
//	where (<p1>) and (<p2>)
//	union all ...
//	order by <order>
//	offset @bow_offset rows fetch next @bow_fetch rows only
//
// page <= 0 的时候没有分页，pageSize 会被忽略
func (s *Selector[T]) Build(bag *params.Bag, page, pageSize int) (*Query, error) {
	m, err := s.db.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	b := &builder{}
	selectClause, err := s.buildColumns(m)
	if err != nil {
		return nil, err
	}
	whereClause := s.buildWhere()

	// 每个数据源一个 select，并且带上来源列
	body := func(source, table string) string {
		bb := &builder{}
		bb.sb.WriteString(selectClause)
		bb.sb.WriteString(", ")
		bb.writeLiteral(source)
		bb.sb.WriteString(" AS ")
		bb.sb.WriteString(model.SourceColumn)
		bb.sb.WriteString(" from ")
		if table == "" {
			bb.quote(source)
		} else {
			bb.sb.WriteString(table)
		}
		bb.sb.WriteString(whereClause)
		return bb.sb.String()
	}

	if len(s.sources) > 0 {
		b.writeJoined(slice.Map(s.sources, func(idx int, src string) string {
			return body(src, src)
		}), "\nunion all ")
	} else {
		b.sb.WriteString(body(m.TableName, ""))
	}

	// 分页依赖确定的顺序，所以 order by 总是存在
	b.sb.WriteString("\norder by ")
	switch {
	case len(s.orderBy) > 0:
		b.writeJoined(s.orderBy, ", ")
	case m.OrderBy != "":
		b.sb.WriteString(m.OrderBy)
	default:
		return nil, errs.NewErrInvalidArgument("order by")
	}

	if page > 0 {
		if pageSize <= 0 {
			pageSize = DefaultPageSize
		}
		b.sb.WriteString("\noffset @")
		b.sb.WriteString(pageOffsetParam)
		b.sb.WriteString(" rows fetch next @")
		b.sb.WriteString(pageFetchParam)
		b.sb.WriteString(" rows only")
	}

	query, args, err := s.db.binder.Bind(b.sb.String(), bag)
	if err != nil {
		return nil, err
	}
	if page > 0 {
		args = append(args,
			sql.Named(pageOffsetParam, (page-1)*pageSize),
			sql.Named(pageFetchParam, pageSize))
	}

	return &Query{
		SQL:  query,
		Args: args,
	}, nil
}

func (s *Selector[T]) buildColumns(m *model.Model) (string, error) {
	b := &builder{}
	b.sb.WriteString("select ")
	if len(s.columns) > 0 {
		b.writeJoined(s.columns, ", ")
		return b.sb.String(), nil
	}
	if len(m.Fields) == 0 {
		return "", errs.NewErrInvalidArgument("select")
	}
	b.writeJoined(m.Columns(), ", ")
	return b.sb.String(), nil
}

func (s *Selector[T]) buildWhere() string {
	if len(s.where) == 0 {
		return ""
	}
	b := &builder{}
	b.sb.WriteString("\nwhere (")
	b.writeJoined(s.where, ") and (")
	b.sb.WriteByte(')')
	return b.sb.String()
}

// ToList 构造语句并执行，把每一行映射成一个 *T
// 要么返回全部结果，要么返回错误，不会返回部分结果
func (s *Selector[T]) ToList(ctx context.Context, bag *params.Bag, page, pageSize int) ([]*T, error) {
	q, err := s.Build(bag, page, pageSize)
	if err != nil {
		return nil, err
	}

	m, err := s.db.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	res := getMulti[T](ctx, s.db, &QueryContext{
		Type:     "SELECT",
		Query:    q,
		Model:    m,
		Page:     page,
		PageSize: pageSize,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.([]*T), nil
}

// Manifest 声明的关联关系，只是元数据
type Manifest struct {
	Field      string
	ForeignKey string
}
