package model

import (
	"reflect"
	"strings"
)

// Option is a function type that modifies a Model.
type Option func(model *Model) error

// Model 结构体映射db后的结构
type Model struct {
	// TableName 结构体对应的表名，默认是结构体的名字
	TableName string
	// Fields 按照声明顺序排列的可绑定字段
	Fields []*Field
	// FieldMap 以小写的列名为 key，查找时大小写不敏感
	FieldMap map[string]*Field
	// OrderBy 默认的排序字段，即第一个可绑定字段的列名
	OrderBy string
}

// Field 字段相关的属性
type Field struct {
	ColName string       // 数据库中的字段名
	GoName  string       // go struct 中的名字
	Type    reflect.Type // go 中的数据类型，转换成 reflect.Value 的时候，知道是什么类型，不然那没法转
	Index   int          // 在结构体中的下标
	// Offset 相对于对象起始地址的字段偏移量
	// uintptr 这个类型的值，只是简单记录一下位置
	Offset uintptr
}

// Lookup finds a field by column name, ignoring case.
func (m *Model) Lookup(col string) (*Field, bool) {
	fd, ok := m.FieldMap[strings.ToLower(col)]
	return fd, ok
}

// Columns returns the column names of all bindable fields in declaration order.
func (m *Model) Columns() []string {
	cols := make([]string, 0, len(m.Fields))
	for _, fd := range m.Fields {
		cols = append(cols, fd.ColName)
	}
	return cols
}

// 我们支持的全部标签上的 key 都放在这里
// 方便用户查找，和我们后期维护
const (
	tagKeyColumn = "column"
	tagORMName   = "orm"
	tagIgnore    = "-"
)

// SourceColumn 是 union 查询中标记数据来源的列，绑定字段时会被跳过
const SourceColumn = "bow_source"

// TableName 用户实现这个接口来返回自定义的表名
type TableName interface {
	TableName() string
}
