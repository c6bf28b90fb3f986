package orm

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coderi421/bow/orm/internal/errs"
	"github.com/coderi421/bow/orm/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestModel struct {
	Id        int64
	FirstName string
	Age       int8
	LastName  *string
}

type CustomTable struct {
	Id int64
}

func (CustomTable) TableName() string {
	return "dbo.custom_table"
}

func newMockDB(t *testing.T, opts ...DBOption) (*DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	db, err := OpenDB(mockDB, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func TestSelector_Build(t *testing.T) {
	db, _ := newMockDB(t)

	type testCase struct {
		name     string
		q        QueryBuilder
		bag      *params.Bag
		page     int
		pageSize int
		want     *Query
		wantErr  error
	}
	tests := []testCase{
		{
			name: "no from",
			q:    NewSelector[TestModel](db),
			want: &Query{
				SQL: "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id",
			},
		},
		{
			name: "table name",
			q:    NewSelector[CustomTable](db),
			want: &Query{
				SQL: "select Id, 'dbo.custom_table' AS bow_source from dbo.custom_table\norder by Id",
			},
		},
		{
			name: "select",
			q:    NewSelector[TestModel](db).Select("Id").Select("Age"),
			want: &Query{
				SQL: "select Id, Age, 'TestModel' AS bow_source from [TestModel]\norder by Id",
			},
		},
		{
			name: "multiple predicates",
			q:    NewSelector[TestModel](db).Where("Age > @Min").Where("FirstName = @Name or LastName = @Name"),
			bag:  params.New().Add("Min", 18).Add("Name", "Tom"),
			want: &Query{
				SQL:  "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\nwhere (Age > @Min) and (FirstName = @Name or LastName = @Name)\norder by Id",
				Args: []any{sql.Named("Min", 18), sql.Named("Name", "Tom")},
			},
		},
		{
			name: "sequence parameter",
			q:    NewSelector[TestModel](db).Where("Id in @Ids"),
			bag:  params.New().Add("Ids", []int64{3, 4}),
			want: &Query{
				SQL:  "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\nwhere (Id in (@Ids0, @Ids1))\norder by Id",
				Args: []any{sql.Named("Ids0", int64(3)), sql.Named("Ids1", int64(4))},
			},
		},
		{
			name: "union all",
			q:    NewSelector[TestModel](db).From("test_model").From("archived_model").Where("Age > @Min"),
			bag:  params.New().Add("Min", 18),
			want: &Query{
				SQL: "select Id, FirstName, Age, LastName, 'test_model' AS bow_source from test_model\nwhere (Age > @Min)" +
					"\nunion all select Id, FirstName, Age, LastName, 'archived_model' AS bow_source from archived_model\nwhere (Age > @Min)" +
					"\norder by Id",
				Args: []any{sql.Named("Min", 18)},
			},
		},
		{
			name: "source with quote",
			q:    NewSelector[TestModel](db).Select("Id").From("(select Id from t where Name = 'x') o"),
			want: &Query{
				SQL: "select Id, '(select Id from t where Name = ''x'') o' AS bow_source from (select Id from t where Name = 'x') o\norder by Id",
			},
		},
		{
			name: "order by",
			q:    NewSelector[TestModel](db).OrderBy("Age desc").OrderBy("Id"),
			want: &Query{
				SQL: "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Age desc, Id",
			},
		},
		{
			name:     "page",
			q:        NewSelector[TestModel](db),
			page:     2,
			pageSize: 500,
			want: &Query{
				SQL:  "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id\noffset @bow_offset rows fetch next @bow_fetch rows only",
				Args: []any{sql.Named("bow_offset", 500), sql.Named("bow_fetch", 500)},
			},
		},
		{
			name:     "page with parameters",
			q:        NewSelector[TestModel](db).Where("Age > @Min"),
			bag:      params.New().Add("Min", 18),
			page:     1,
			pageSize: 0,
			want: &Query{
				SQL:  "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\nwhere (Age > @Min)\norder by Id\noffset @bow_offset rows fetch next @bow_fetch rows only",
				Args: []any{sql.Named("Min", 18), sql.Named("bow_offset", 0), sql.Named("bow_fetch", DefaultPageSize)},
			},
		},
		{
			name:     "no page",
			q:        NewSelector[TestModel](db),
			page:     0,
			pageSize: 500,
			want: &Query{
				SQL: "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id",
			},
		},
		{
			name:    "unknown parameter",
			q:       NewSelector[TestModel](db).Where("Age > @Min"),
			bag:     params.New(),
			wantErr: errs.NewErrUnknownParameter("Min"),
		},
		{
			name:    "not a struct",
			q:       NewSelector[int](db),
			wantErr: errs.ErrPointerOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := tt.q.Build(tt.bag, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestSelector_BuildIsIdempotent(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewSelector[TestModel](db).Where("Id in @Ids").OrderBy("Age")
	bag := params.New().Add("Ids", []int{1, 2, 3})

	q1, err := s.Build(bag, 3, 20)
	require.NoError(t, err)
	q2, err := s.Build(bag, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, q1, q2)
}

func TestSelector_Manifest(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewSelector[TestModel](db).
		Manifest("Foreign", "ForeignId").
		Manifest("Children")

	assert.Equal(t, []Manifest{
		{Field: "Foreign", ForeignKey: "ForeignId"},
		{Field: "Children"},
	}, s.Manifests())

	// 声明不会影响语句
	q, err := s.Build(nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id", q.SQL)
}

func TestSelector_ToList(t *testing.T) {
	lastName := "Jerry"
	testCases := []struct {
		name     string
		s        func(db *DB) *Selector[TestModel]
		bag      *params.Bag
		page     int
		pageSize int
		mock     func(mock sqlmock.Sqlmock)
		wantRes  []*TestModel
		wantErr  error
	}{
		{
			name: "multiple rows",
			s: func(db *DB) *Selector[TestModel] {
				return NewSelector[TestModel](db).Where("Age > @Min")
			},
			bag: params.New().Add("Min", 10),
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "first_name", "FirstName", "Age", "LastName", "bow_source"}).
					AddRow(int64(1), "ignored", "Tom", int64(18), nil, "TestModel").
					AddRow(int64(2), "ignored", "Jerry", int64(20), lastName, "TestModel")
				mock.ExpectQuery("select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\nwhere (Age > @Min)\norder by Id").
					WithArgs(sql.Named("Min", 10)).
					WillReturnRows(rows)
			},
			wantRes: []*TestModel{
				{Id: 1, FirstName: "Tom", Age: 18},
				{Id: 2, FirstName: "Jerry", Age: 20, LastName: &lastName},
			},
		},
		{
			name: "page",
			s: func(db *DB) *Selector[TestModel] {
				return NewSelector[TestModel](db).Select("Id")
			},
			page:     2,
			pageSize: 500,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("select Id, 'TestModel' AS bow_source from [TestModel]\norder by Id\noffset @bow_offset rows fetch next @bow_fetch rows only").
					WithArgs(sql.Named("bow_offset", 500), sql.Named("bow_fetch", 500)).
					WillReturnRows(sqlmock.NewRows([]string{"Id", "bow_source"}).AddRow(int64(501), "TestModel"))
			},
			wantRes: []*TestModel{{Id: 501}},
		},
		{
			name: "no rows",
			s: func(db *DB) *Selector[TestModel] {
				return NewSelector[TestModel](db)
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id").
					WillReturnRows(sqlmock.NewRows([]string{"Id"}))
			},
			wantRes: []*TestModel{},
		},
		{
			name: "query error",
			s: func(db *DB) *Selector[TestModel] {
				return NewSelector[TestModel](db)
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id").
					WillReturnError(errors.New("mock db error"))
			},
			wantErr: errors.New("mock db error"),
		},
		{
			name: "row error",
			s: func(db *DB) *Selector[TestModel] {
				return NewSelector[TestModel](db)
			},
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"Id"}).
					AddRow(int64(1)).
					AddRow(int64(2)).
					RowError(1, errors.New("mock row error"))
				mock.ExpectQuery("select Id, FirstName, Age, LastName, 'TestModel' AS bow_source from [TestModel]\norder by Id").
					WillReturnRows(rows)
			},
			wantErr: errors.New("mock row error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tc.mock(mock)

			res, err := tc.s(db).ToList(context.Background(), tc.bag, tc.page, tc.pageSize)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantRes, res)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSelector_ToListUnsafe(t *testing.T) {
	db, mock := newMockDB(t, DBUseUnsafeValuer())
	mock.ExpectQuery("select Id, FirstName, 'TestModel' AS bow_source from [TestModel]\norder by Id").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "firstname", "bow_source"}).AddRow(int64(7), "Tom", "TestModel"))

	res, err := NewSelector[TestModel](db).Select("Id, FirstName").ToList(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []*TestModel{{Id: 7, FirstName: "Tom"}}, res)
}
