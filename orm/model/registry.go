package model

import (
	"database/sql"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/google/uuid"
	"github.com/gotomicro/ekit/syncx"
)

type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...Option) (*Model, error)
}

// registry 缓存结构体的元数据
// reflect.Type 作为 key 可以解决命名冲突的问题，
// 元数据一旦生成就不会再被修改，所以并发读是安全的
type registry struct {
	models syncx.Map[reflect.Type, *Model]
}

func NewRegistry() Registry {
	return &registry{}
}

// Get 查找元数据模型
// If the model is not found in the registry, it is parsed and stored for future use.
func (r *registry) Get(val any) (*Model, error) {
	typ := reflect.TypeOf(val)
	m, ok := r.models.Load(typ)
	if ok {
		return m, nil
	}
	return r.Register(val)
}

// Register parses val, applies the options and stores the result.
// Registering the same type again replaces the earlier model.
func (r *registry) Register(val any, opts ...Option) (*Model, error) {
	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err = opt(m); err != nil {
			return nil, err
		}
	}

	r.models.Store(reflect.TypeOf(val), m)
	return m, nil
}

// parseModel builds the model of a pointer to struct.
// Only bindable fields are kept, see Bindable.
// orm:"key1=value1,key2=value2"
func (r *registry) parseModel(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	// Only support one-level pointer as input, e.g. *User does not support **User and User
	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}
	typ = typ.Elem()

	numField := typ.NumField()
	fields := make([]*Field, 0, numField)
	fds := make(map[string]*Field, numField)

	for i := 0; i < numField; i++ {
		fdStruct := typ.Field(i)
		if !fdStruct.IsExported() || !Bindable(fdStruct.Type) {
			continue
		}

		tags, err := r.parseTag(fdStruct.Tag)
		if err != nil {
			return nil, err
		}
		if _, ignore := tags[tagIgnore]; ignore {
			continue
		}

		colName := tags[tagKeyColumn]
		if colName == "" {
			colName = fdStruct.Name
		}

		key := strings.ToLower(colName)
		if _, dup := fds[key]; dup {
			return nil, errs.NewErrDuplicateField(colName)
		}

		f := &Field{
			ColName: colName,
			GoName:  fdStruct.Name,
			Type:    fdStruct.Type,
			Index:   i,
			Offset:  fdStruct.Offset,
		}
		fields = append(fields, f)
		fds[key] = f
	}

	var tableName string
	if tn, ok := val.(TableName); ok {
		tableName = tn.TableName()
	}
	if tableName == "" {
		tableName = typ.Name()
	}

	m := &Model{
		TableName: tableName,
		Fields:    fields,
		FieldMap:  fds,
	}
	if len(fields) > 0 {
		m.OrderBy = fields[0].ColName
	}
	return m, nil
}

// parseTag parses the given struct tag and returns a map of key-value pairs.
// If the tag is empty, it returns an empty map and no error.
// orm:"-" is returned as the single key "-".
func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag := tag.Get(tagORMName)
	if ormTag == "" {
		// Return an empty map so that the caller doesn't need to check for nil
		return map[string]string{}, nil
	}
	if ormTag == tagIgnore {
		return map[string]string{tagIgnore: ""}, nil
	}

	res := make(map[string]string, 1)
	pairs := strings.Split(ormTag, ",")
	for _, pair := range pairs {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, errs.NewErrInvalidTagContent(pair)
		}
		res[kv[0]] = kv[1]
	}
	return res, nil
}

// 除了基本类型以外，允许直接绑定的类型
var bindableTypes = map[reflect.Type]struct{}{
	reflect.TypeOf(time.Time{}):       {},
	reflect.TypeOf(uuid.UUID{}):       {},
	reflect.TypeOf(uuid.NullUUID{}):   {},
	reflect.TypeOf(apd.Decimal{}):     {},
	reflect.TypeOf(apd.NullDecimal{}): {},
	reflect.TypeOf(sql.NullBool{}):    {},
	reflect.TypeOf(sql.NullByte{}):    {},
	reflect.TypeOf(sql.NullFloat64{}): {},
	reflect.TypeOf(sql.NullInt16{}):   {},
	reflect.TypeOf(sql.NullInt32{}):   {},
	reflect.TypeOf(sql.NullInt64{}):   {},
	reflect.TypeOf(sql.NullString{}):  {},
	reflect.TypeOf(sql.NullTime{}):    {},
}

// Bindable reports whether a field of type typ is mapped by default.
// Booleans, numbers, strings and the types above are bindable, including
// named types such as enums and a single level of pointer for optional values.
func Bindable(typ reflect.Type) bool {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if _, ok := bindableTypes[typ]; ok {
		return true
	}
	switch typ.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// WithTableName is a Option function that sets the table name for a Model.
func WithTableName(tableName string) Option {
	return func(model *Model) error {
		model.TableName = tableName
		return nil
	}
}

// WithColumnName sets the column name of the field named field.
func WithColumnName(field, columnName string) Option {
	return func(model *Model) error {
		var fd *Field
		for _, f := range model.Fields {
			if f.GoName == field {
				fd = f
				break
			}
		}
		if fd == nil {
			return errs.NewErrUnknownField(field)
		}

		delete(model.FieldMap, strings.ToLower(fd.ColName))
		key := strings.ToLower(columnName)
		if _, dup := model.FieldMap[key]; dup {
			return errs.NewErrDuplicateField(columnName)
		}
		fd.ColName = columnName
		model.FieldMap[key] = fd
		if model.Fields[0] == fd {
			model.OrderBy = columnName
		}
		return nil
	}
}

// WithOrderBy overrides the default ordering expression.
func WithOrderBy(expr string) Option {
	return func(model *Model) error {
		model.OrderBy = expr
		return nil
	}
}
