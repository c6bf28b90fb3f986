package orm

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/coderi421/bow/orm/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawQuerier_ToList(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("select Id, FirstName from test_model where Id in (@Ids0, @Ids1)").
		WithArgs(sql.Named("Ids0", 1), sql.Named("Ids1", 2)).
		WillReturnRows(sqlmock.NewRows([]string{"Id", "FirstName"}).
			AddRow(int64(1), "Tom").
			AddRow(int64(2), nil))

	res, err := RawQuery[TestModel](db, "select Id, FirstName from test_model where Id in @Ids").
		ToList(context.Background(), params.New().Add("Ids", []int{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []*TestModel{{Id: 1, FirstName: "Tom"}, {Id: 2}}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBind(t *testing.T) {
	testCases := []struct {
		name    string
		query   string
		bag     *params.Bag
		want    *Query
		wantErr error
	}{
		{
			name:  "expand",
			query: "select * from Foo where Id in @Ids and Name = @Name",
			bag:   params.New().Add("Ids", []string{"a", "b"}).Add("Name", "Tom"),
			want: &Query{
				SQL:  "select * from Foo where Id in (@Ids0, @Ids1) and Name = @Name",
				Args: []any{sql.Named("Ids0", "a"), sql.Named("Ids1", "b"), sql.Named("Name", "Tom")},
			},
		},
		{
			name:    "empty",
			query:   "",
			wantErr: errs.NewErrInvalidArgument("query"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Bind(tc.query, tc.bag)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, q)
		})
	}
}
