package orm

import (
	"context"

	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/coderi421/bow/orm/params"
	"github.com/gotomicro/ekit/slice"
)

// defaultKeysParam Fill 查询关联数据时使用的参数名，例如 Where("FooId in @Ids")
const defaultKeysParam = "Ids"

type FillOption func(opts *fillOptions)

type fillOptions struct {
	strict    bool
	keysParam string
}

func newFillOptions(opts []FillOption) fillOptions {
	res := fillOptions{keysParam: defaultKeysParam}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

// FillStrict 关联数据的 key 找不到主数据时返回 ErrMissingKey，
// 默认情况下这些数据会被丢弃
func FillStrict() FillOption {
	return func(opts *fillOptions) {
		opts.strict = true
	}
}

// FillWithKeysParam 修改 Fill 传给关联查询的参数名
func FillWithKeysParam(name string) FillOption {
	return func(opts *fillOptions) {
		opts.keysParam = name
	}
}

// groupByKey 按照 key 分组，key 不存在的数据被丢弃
func groupByKey[T any, K comparable](list []*T, key func(*T) (K, bool)) map[K][]*T {
	res := make(map[K][]*T, len(list))
	for _, item := range list {
		k, ok := key(item)
		if !ok {
			continue
		}
		res[k] = append(res[k], item)
	}
	return res
}

// FillWith 把 refs 中的每一个元素通过 assign 设置到 key 相同的 list 元素上。
// 例如 Foo.ForeignId == Foo.Id 的时候，把关联的 Foo 设置到 Foo.Foreign：
//
//	FillWith(foos, foreigns,
//		func(f *Foo, r *Foo) { f.Foreign = r },
//		func(f *Foo) (uuid.UUID, bool) { return f.ForeignId, f.ForeignId != uuid.Nil },
//		func(r *Foo) uuid.UUID { return r.Id })
func FillWith[T any, R any, K comparable](list []*T, refs []*R,
	assign func(item *T, ref *R),
	listKey func(*T) (K, bool), refKey func(*R) K, opts ...FillOption) error {
	o := newFillOptions(opts)
	groups := groupByKey(list, listKey)
	for _, ref := range refs {
		k := refKey(ref)
		items, ok := groups[k]
		if !ok {
			if o.strict {
				return errs.NewErrMissingKey(k)
			}
			continue
		}
		for _, item := range items {
			assign(item, ref)
		}
	}
	return nil
}

// FillManyWith 和 FillWith 类似，但是 key 相同的 refs 会按照原来的顺序收集起来，
// 然后一次性设置到 list 元素上。每个元素拿到的都是自己的切片
func FillManyWith[T any, R any, K comparable](list []*T, refs []*R,
	assign func(item *T, refs []*R),
	listKey func(*T) (K, bool), refKey func(*R) K, opts ...FillOption) error {
	o := newFillOptions(opts)
	groups := groupByKey(list, listKey)

	// 保持第一次出现的顺序
	keys := make([]K, 0, len(refs))
	children := make(map[K][]*R, len(refs))
	for _, ref := range refs {
		k := refKey(ref)
		if _, ok := children[k]; !ok {
			keys = append(keys, k)
		}
		children[k] = append(children[k], ref)
	}

	for _, k := range keys {
		items, ok := groups[k]
		if !ok {
			if o.strict {
				return errs.NewErrMissingKey(k)
			}
			continue
		}
		for _, item := range items {
			assign(item, append([]*R(nil), children[k]...))
		}
	}
	return nil
}

// Fill 先用 targets 的 key 执行 q，再调用 FillWith。
// q 需要通过参数 @Ids 过滤，例如：
//
//	NewSelector[FooReference](db).Where("FooId in @Ids")
//
// 没有任何 key 的时候不会执行查询
func Fill[T any, R any, K comparable](ctx context.Context, q *Selector[R], targets []*T,
	assign func(item *T, ref *R),
	targetKey func(*T) (K, bool), refKey func(*R) K, opts ...FillOption) error {
	o := newFillOptions(opts)

	keys := make([]K, 0, len(targets))
	seen := make(map[K]struct{}, len(targets))
	for _, t := range targets {
		k, ok := targetKey(t)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}

	bag := params.New().Set(o.keysParam, params.Sequence(slice.Map(keys, func(idx int, k K) any {
		return k
	})...))
	refs, err := q.ToList(ctx, bag, 0, 0)
	if err != nil {
		return err
	}
	return FillWith(targets, refs, assign, targetKey, refKey, opts...)
}
