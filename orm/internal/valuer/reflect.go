package valuer

import (
	"database/sql"
	"reflect"

	"github.com/coderi421/bow/orm/model"
)

// reflectValue 基于反射的 Value
type reflectValue struct {
	val  reflect.Value
	meta *model.Model
}

var _ Creator = NewReflectValue

// NewReflectValue 返回一个封装好的，基于反射实现的 Value
// 输入 val 必须是一个指向结构体实例的指针，而不能是任何其它类型
func NewReflectValue(val any, meta *model.Model) Value {
	return reflectValue{
		val:  reflect.ValueOf(val).Elem(),
		meta: meta,
	}
}

// SetColumns sets the values of the current row onto the struct.
func (r reflectValue) SetColumns(rows *sql.Rows) (string, error) {
	names, err := rows.Columns()
	if err != nil {
		return "", err
	}

	dest, cols, source := Prepare(names, r.meta)
	if err = rows.Scan(dest...); err != nil {
		return "", err
	}

	for _, c := range cols {
		v, ok := c.Value()
		if !ok {
			continue
		}
		r.val.Field(c.field.Index).Set(v)
	}
	return source.String, nil
}
