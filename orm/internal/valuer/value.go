package valuer

import (
	"database/sql"
	"reflect"
	"strings"

	"github.com/coderi421/bow/orm/model"
)

// Value 是对结构体实例的内部抽象
type Value interface {
	// SetColumns 把当前行的数据写到结构体上，返回这一行的来源（union 查询中的表名）
	SetColumns(rows *sql.Rows) (string, error)
}

// Creator 本质上也可以看所是 factory 模式，极其简单的 factory 模式
type Creator func(val any, meta *model.Model) Value

// Column 一列数据的接收者
type Column struct {
	field *model.Field
	// holder 总是指针，NULL 会被 database/sql 写成 nil
	holder reflect.Value
}

// Value 返回需要写入字段的值，NULL 对应非指针字段时返回 false，保持零值
func (c Column) Value() (reflect.Value, bool) {
	v := c.holder.Elem()
	if c.field.Type.Kind() == reflect.Ptr {
		return v, true
	}
	if v.IsNil() {
		return reflect.Value{}, false
	}
	return v.Elem(), true
}

func (c Column) Field() *model.Field {
	return c.field
}

// Prepare 为每一列准备 Scan 的目标
// 没有对应字段的列会被丢弃，来源列写到 source 上
func Prepare(names []string, meta *model.Model) ([]any, []Column, *sql.NullString) {
	dest := make([]any, len(names))
	cols := make([]Column, 0, len(names))
	source := new(sql.NullString)

	for i, name := range names {
		if strings.EqualFold(name, model.SourceColumn) {
			dest[i] = source
			continue
		}
		fd, ok := meta.Lookup(name)
		if !ok {
			dest[i] = new(any)
			continue
		}

		// *T 直接用 **T 接收；T 用 *T 的指针接收，这样 NULL 不会报错
		typ := fd.Type
		if typ.Kind() != reflect.Ptr {
			typ = reflect.PointerTo(typ)
		}
		holder := reflect.New(typ)
		dest[i] = holder.Interface()
		cols = append(cols, Column{field: fd, holder: holder})
	}
	return dest, cols, source
}
