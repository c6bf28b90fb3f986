package unsafe

import (
	"database/sql"
	"reflect"
	"unsafe"

	"github.com/coderi421/bow/orm/internal/valuer"
	"github.com/coderi421/bow/orm/model"
)

type unsafeValue struct {
	addr unsafe.Pointer // 使用 unsafe Pointer 而不是 uintptr 是因为 gc 后 uintptr 会发生变化
	meta *model.Model
}

var _ valuer.Creator = NewUnsafeValue

// NewUnsafeValue 基于字段偏移量直接写内存
func NewUnsafeValue(val any, meta *model.Model) valuer.Value {
	return unsafeValue{
		addr: unsafe.Pointer(reflect.ValueOf(val).Pointer()),
		meta: meta,
	}
}

func (u unsafeValue) SetColumns(rows *sql.Rows) (string, error) {
	names, err := rows.Columns()
	if err != nil {
		return "", err
	}

	dest, cols, source := valuer.Prepare(names, u.meta)
	if err = rows.Scan(dest...); err != nil {
		return "", err
	}

	for _, c := range cols {
		v, ok := c.Value()
		if !ok {
			continue
		}
		fd := c.Field()
		ptr := unsafe.Add(u.addr, fd.Offset)
		reflect.NewAt(fd.Type, ptr).Elem().Set(v)
	}
	return source.String, nil
}
