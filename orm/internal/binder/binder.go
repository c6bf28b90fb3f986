package binder

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/coderi421/bow/orm/params"
	lru "github.com/hashicorp/golang-lru"
)

// Marker 占位符的前缀
const Marker = '@'

var placeholder = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// Binder 把查询语句中的 @name 替换并绑定为 sql.NamedArg
// 只缓存语句中出现的占位符名字，改写后的语句每次都重新生成，
// 因为数组参数展开之后的占位符数量取决于参数本身
type Binder struct {
	names    *lru.Cache
	reserved map[string]struct{}
}

// New creates a Binder remembering the placeholders of up to size statements.
// Reserved names are left in the text and never looked up in the bag.
func New(size int, reserved ...string) (*Binder, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	b := &Binder{
		names:    c,
		reserved: make(map[string]struct{}, len(reserved)),
	}
	for _, r := range reserved {
		b.reserved[strings.ToLower(r)] = struct{}{}
	}
	return b, nil
}

// Placeholders returns the placeholder names of query from left to right,
// duplicates included.
func (b *Binder) Placeholders(query string) []string {
	if val, ok := b.names.Get(query); ok {
		return val.([]string)
	}
	matches := placeholder.FindAllStringSubmatch(query, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	b.names.Add(query, names)
	return names
}

// Bind resolves every placeholder of query against bag.
// Scalars become one sql.NamedArg. A sequence of N elements is expanded:
// @Ids becomes (@Ids0, @Ids1, ...) and each element is bound on its own.
// A name used several times is bound once.
func (b *Binder) Bind(query string, bag *params.Bag) (string, []any, error) {
	if query == "" {
		return "", nil, errs.NewErrInvalidArgument("query")
	}
	if bag == nil {
		return query, nil, nil
	}

	names := b.Placeholders(query)
	args := make([]any, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := b.reserved[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		val, ok := bag.Lookup(name)
		if !ok {
			return "", nil, errs.NewErrUnknownParameter(name)
		}

		if val.Kind() == params.KindScalar {
			args = append(args, sql.Named(name, val.Scalar()))
			continue
		}

		seq := val.Sequence()
		markers := make([]string, len(seq))
		for i, elem := range seq {
			n := name + strconv.Itoa(i)
			markers[i] = string(Marker) + n
			args = append(args, sql.Named(n, elem))
		}
		query = expand(query, name, "("+strings.Join(markers, ", ")+")")
	}
	return query, args, nil
}

// expand 只替换完整的占位符，@Id 不会匹配 @Ids
func expand(query, name, repl string) string {
	re := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(name) + `\b`)
	return re.ReplaceAllLiteralString(query, repl)
}
