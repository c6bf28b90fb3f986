package binder

import (
	"database/sql"
	"testing"

	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/coderi421/bow/orm/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinder_Bind(t *testing.T) {
	testCases := []struct {
		name      string
		query     string
		bag       *params.Bag
		wantQuery string
		wantArgs  []any
		wantErr   error
	}{
		{
			name:    "empty query",
			query:   "",
			bag:     params.New(),
			wantErr: errs.NewErrInvalidArgument("query"),
		},
		{
			name:      "nil bag",
			query:     "select Id from Foo where Id = @Id",
			wantQuery: "select Id from Foo where Id = @Id",
		},
		{
			name:      "scalars",
			query:     "select Id from Foo where Int between @Start and @Finish",
			bag:       params.New().Add("Start", 100).Add("Finish", 200),
			wantQuery: "select Id from Foo where Int between @Start and @Finish",
			wantArgs:  []any{sql.Named("Start", 100), sql.Named("Finish", 200)},
		},
		{
			name:      "case insensitive lookup",
			query:     "select Id from Foo where Name = @NAME",
			bag:       params.New().Add("name", "Tom"),
			wantQuery: "select Id from Foo where Name = @NAME",
			wantArgs:  []any{sql.Named("NAME", "Tom")},
		},
		{
			name:      "duplicated placeholder",
			query:     "select Id from Foo where Int > @Min or Int2 > @Min",
			bag:       params.New().Add("Min", 1),
			wantQuery: "select Id from Foo where Int > @Min or Int2 > @Min",
			wantArgs:  []any{sql.Named("Min", 1)},
		},
		{
			name:      "sequence",
			query:     "select Id from Foo where Id in @Ids",
			bag:       params.New().Add("Ids", []int{7, 8, 9}),
			wantQuery: "select Id from Foo where Id in (@Ids0, @Ids1, @Ids2)",
			wantArgs:  []any{sql.Named("Ids0", 7), sql.Named("Ids1", 8), sql.Named("Ids2", 9)},
		},
		{
			name:      "sequence used twice",
			query:     "select Id from Foo where Id in @Ids or ForeignId in @Ids",
			bag:       params.New().Add("Ids", []string{"a", "b"}),
			wantQuery: "select Id from Foo where Id in (@Ids0, @Ids1) or ForeignId in (@Ids0, @Ids1)",
			wantArgs:  []any{sql.Named("Ids0", "a"), sql.Named("Ids1", "b")},
		},
		{
			name:      "sequence does not touch longer names",
			query:     "select Id from Foo where Id in @Id and Kind in @IdKinds",
			bag:       params.New().Add("Id", []int{1}).Add("IdKinds", 3),
			wantQuery: "select Id from Foo where Id in (@Id0) and Kind in @IdKinds",
			wantArgs:  []any{sql.Named("Id0", 1), sql.Named("IdKinds", 3)},
		},
		{
			name:      "empty sequence",
			query:     "select Id from Foo where Id in @Ids",
			bag:       params.New().Add("Ids", []int{}),
			wantQuery: "select Id from Foo where Id in ()",
			wantArgs:  []any{},
		},
		{
			name:      "bytes are a scalar",
			query:     "select Id from Foo where Hash = @Hash",
			bag:       params.New().Add("Hash", []byte("abc")),
			wantQuery: "select Id from Foo where Hash = @Hash",
			wantArgs:  []any{sql.Named("Hash", []byte("abc"))},
		},
		{
			name:    "unknown parameter",
			query:   "select Id from Foo where Id = @Id",
			bag:     params.New().Add("Other", 1),
			wantErr: errs.NewErrUnknownParameter("Id"),
		},
		{
			name:      "reserved names are skipped",
			query:     "select Id from Foo order by Id\noffset @bow_offset rows fetch next @bow_fetch rows only",
			bag:       params.New(),
			wantQuery: "select Id from Foo order by Id\noffset @bow_offset rows fetch next @bow_fetch rows only",
			wantArgs:  []any{},
		},
	}

	b, err := New(16, "bow_offset", "bow_fetch")
	require.NoError(t, err)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := b.Bind(tc.query, tc.bag)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantQuery, query)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestBinder_Placeholders(t *testing.T) {
	b, err := New(2)
	require.NoError(t, err)

	query := "select * from Foo where A = @a and B = @b_1 and C = @a"
	assert.Equal(t, []string{"a", "b_1", "a"}, b.Placeholders(query))
	// 第二次从缓存中读取
	assert.Equal(t, []string{"a", "b_1", "a"}, b.Placeholders(query))
	assert.Equal(t, []string{}, b.Placeholders("select 1"))
}

func TestBinder_BindDoesNotChangeBag(t *testing.T) {
	b, err := New(2)
	require.NoError(t, err)
	bag := params.New().Add("Ids", []int{1, 2})

	q1, a1, err := b.Bind("select Id from Foo where Id in @Ids", bag)
	require.NoError(t, err)
	q2, a2, err := b.Bind("select Id from Foo where Id in @Ids", bag)
	require.NoError(t, err)
	assert.Equal(t, q1, q2)
	assert.Equal(t, a1, a2)
}
