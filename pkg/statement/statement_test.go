package statement

import (
	"reflect"
	"testing"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookStatus int

type book struct {
	ID       int64      `db:"id,INTEGER,pk,autoincrement"`
	AuthorID int64      `db:"author_id,INTEGER,notnull" fk:"authors(id)"`
	Title    string     `db:"title,TEXT,notnull"`
	Status   bookStatus `db:"status"`
	Note     *string    `db:"note"`
}

func (book) TableName() string { return "books" }

type isbn struct {
	Code string `db:"code,TEXT,pk"`
	Note string `db:"note"`
}

func (isbn) TableName() string { return "isbns" }

type counter struct {
	ID int64 `db:"id,INTEGER,pk,autoincrement"`
}

func (counter) TableName() string { return "counters" }

type logLine struct {
	Message string `db:"message"`
}

func (logLine) TableName() string { return "log_lines" }

func describe(t *testing.T, v any) *entity.Entity {
	t.Helper()
	e, err := entity.Describe(v)
	require.NoError(t, err)
	return e
}

func params(names []string, values ...any) []core.Param {
	out := make([]core.Param, len(names))
	for i, n := range names {
		out[i] = core.Param{Name: n, Value: values[i]}
	}
	return out
}

func TestInsert(t *testing.T) {
	note := "first edition"
	b := book{ID: 99, AuthorID: 7, Title: "Dune", Status: 1, Note: &note}
	followUp := &dialect.Dialect{Name: "followup", LastInsertID: "SELECT last_insert_rowid()"}

	tests := []struct {
		name     string
		dialect  *dialect.Dialect
		v        any
		wantText string
		want     []core.Param
	}{
		{
			name:     "skips generated key and returns it",
			dialect:  dialect.SQLite,
			v:        b,
			wantText: "INSERT INTO books (author_id, title, status, note) VALUES (@author_id, @title, @status, @note) RETURNING id",
			want:     params([]string{"author_id", "title", "status", "note"}, int64(7), "Dune", int64(1), "first edition"),
		},
		{
			name:     "postgres",
			dialect:  dialect.Postgres,
			v:        &b,
			wantText: "INSERT INTO books (author_id, title, status, note) VALUES (@author_id, @title, @status, @note) RETURNING id",
			want:     params([]string{"author_id", "title", "status", "note"}, int64(7), "Dune", int64(1), "first edition"),
		},
		{
			name:     "follow-up query dialect",
			dialect:  followUp,
			v:        &b,
			wantText: "INSERT INTO books (author_id, title, status, note) VALUES (@author_id, @title, @status, @note)",
			want:     params([]string{"author_id", "title", "status", "note"}, int64(7), "Dune", int64(1), "first edition"),
		},
		{
			name:     "natural key is inserted",
			dialect:  nil,
			v:        isbn{Code: "978-0441013593"},
			wantText: "INSERT INTO isbns (code, note) VALUES (@code, @note)",
			want:     params([]string{"code", "note"}, "978-0441013593", ""),
		},
		{
			name:     "nothing but a generated key",
			dialect:  dialect.SQLite,
			v:        counter{},
			wantText: "INSERT INTO counters DEFAULT VALUES RETURNING id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Insert(tt.dialect, describe(t, tt.v), reflect.ValueOf(tt.v))
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, stmt.Text)
			assert.Equal(t, tt.want, stmt.Params)
		})
	}
}

func TestInsert_NullPointerBindsNil(t *testing.T) {
	stmt, err := Insert(dialect.SQLite, describe(t, book{}), reflect.ValueOf(book{Title: "x"}))
	require.NoError(t, err)
	v, ok := stmt.Lookup("note")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestLastInsertID(t *testing.T) {
	followUp := &dialect.Dialect{Name: "followup", LastInsertID: "SELECT LAST_INSERT_ID()"}
	stmt, ok := LastInsertID(followUp)
	require.True(t, ok)
	assert.Equal(t, "SELECT LAST_INSERT_ID()", stmt.Text)

	_, ok = LastInsertID(dialect.SQLite)
	assert.False(t, ok)
	_, ok = LastInsertID(dialect.Postgres)
	assert.False(t, ok)
}

func TestBuilders_NilInstance(t *testing.T) {
	e := describe(t, book{})
	var nilBook *book

	tests := []struct {
		name  string
		build func(v reflect.Value) (core.Statement, error)
		want  error
	}{
		{
			name:  "insert",
			build: func(v reflect.Value) (core.Statement, error) { return Insert(dialect.SQLite, e, v) },
			want:  core.ErrNilValue,
		},
		{
			name:  "update",
			build: func(v reflect.Value) (core.Statement, error) { return Update(e, v) },
			want:  core.ErrNilValue,
		},
		{
			name:  "delete",
			build: func(v reflect.Value) (core.Statement, error) { return Delete(e, v) },
			want:  core.ErrMissingKeyValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range []reflect.Value{reflect.ValueOf(nilBook), {}} {
				stmt, err := tt.build(v)
				assert.ErrorIs(t, err, tt.want)
				assert.Empty(t, stmt.Text)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	b := book{ID: 3, AuthorID: 7, Title: "Dune", Status: 2}
	stmt, err := Update(describe(t, b), reflect.ValueOf(b))
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE books SET author_id = @author_id, title = @title, status = @status, note = @note WHERE id = @id",
		stmt.Text)
	assert.Equal(t, []string{"author_id", "title", "status", "note", "id"}, stmt.Names())

	id, _ := stmt.Lookup("id")
	assert.Equal(t, int64(3), id)
}

func TestUpdate_Errors(t *testing.T) {
	_, err := Update(describe(t, logLine{}), reflect.ValueOf(logLine{}))
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)

	_, err = Update(describe(t, counter{}), reflect.ValueOf(counter{ID: 1}))
	assert.ErrorIs(t, err, core.ErrNoUpdatableColumns)
}

func TestDelete(t *testing.T) {
	stmt, err := Delete(describe(t, book{}), reflect.ValueOf(&book{ID: 12}))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM books WHERE id = @id", stmt.Text)
	assert.Equal(t, params([]string{"id"}, int64(12)), stmt.Params)

	stmt, err = Delete(describe(t, isbn{}), reflect.ValueOf(isbn{Code: "x"}))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM isbns WHERE code = @code", stmt.Text)
}

func TestDelete_MissingKey(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want error
	}{
		{"zero integer key", book{Title: "x"}, core.ErrMissingKeyValue},
		{"empty text key", isbn{}, core.ErrMissingKeyValue},
		{"no key declared", logLine{Message: "x"}, core.ErrNoPrimaryKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Delete(describe(t, tt.v), reflect.ValueOf(tt.v))
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, stmt.Text)
		})
	}
}

func TestDeleteByID(t *testing.T) {
	stmt, err := DeleteByID(describe(t, isbn{}), "978")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM isbns WHERE code = @id", stmt.Text)
	assert.Equal(t, params([]string{"id"}, "978"), stmt.Params)

	_, err = DeleteByID(describe(t, logLine{}), 1)
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)
}

func TestSelectAll_DeclarationOrder(t *testing.T) {
	stmt := SelectAll(describe(t, book{}))
	assert.Equal(t, "SELECT id, author_id, title, status, note FROM books", stmt.Text)
	assert.Empty(t, stmt.Params)
}

func TestSelectByID(t *testing.T) {
	stmt, err := SelectByID(describe(t, book{}), 5)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM books WHERE id = @id LIMIT 1", stmt.Text)
	assert.Equal(t, params([]string{"id"}, int64(5)), stmt.Params)

	_, err = SelectByID(describe(t, logLine{}), 5)
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)
}

func TestSelectWhere(t *testing.T) {
	e := describe(t, book{})

	tests := []struct {
		name     string
		filters  []Filter
		wantText string
		want     []core.Param
	}{
		{
			name:     "no filters",
			wantText: "SELECT * FROM books",
		},
		{
			name:     "conjunction in given order",
			filters:  []Filter{Eq("title", "Dune"), Eq("status", bookStatus(1))},
			wantText: "SELECT * FROM books WHERE title = @title AND status = @status",
			want:     params([]string{"title", "status"}, "Dune", int64(1)),
		},
		{
			name:     "column names are matched case-insensitively",
			filters:  []Filter{Eq("AUTHOR_ID", 7)},
			wantText: "SELECT * FROM books WHERE author_id = @author_id",
			want:     params([]string{"author_id"}, int64(7)),
		},
		{
			name:     "nil binds as null",
			filters:  []Filter{Eq("note", nil)},
			wantText: "SELECT * FROM books WHERE note = @note",
			want:     params([]string{"note"}, nil),
		},
		{
			name:     "repeated column",
			filters:  []Filter{Eq("status", 1), Eq("status", 2)},
			wantText: "SELECT * FROM books WHERE status = @status AND status = @status_2",
			want:     params([]string{"status", "status_2"}, int64(1), int64(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := SelectWhere(e, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, stmt.Text)
			if tt.want == nil {
				assert.Empty(t, stmt.Params)
			} else {
				assert.Equal(t, tt.want, stmt.Params)
			}
		})
	}
}

type tally struct {
	ID      int64 `db:"id,INTEGER,pk"`
	Score   int64 `db:"score"`
	Score2  int64 `db:"score_2"`
	Score22 int64 `db:"score_2_2"`
}

func (tally) TableName() string { return "tallies" }

func TestSelectWhere_ParamNamesStayUnique(t *testing.T) {
	tests := []struct {
		name      string
		filters   []Filter
		wantText  string
		wantNames []string
	}{
		{
			name:      "suffix skips a mapped column",
			filters:   []Filter{Eq("score", 1), Eq("score", 2), Eq("score_2", 3)},
			wantText:  "SELECT * FROM tallies WHERE score = @score AND score = @score_3 AND score_2 = @score_2",
			wantNames: []string{"score", "score_3", "score_2"},
		},
		{
			name:      "mapped column bound first",
			filters:   []Filter{Eq("score_2", 3), Eq("score", 1), Eq("score_2", 4)},
			wantText:  "SELECT * FROM tallies WHERE score_2 = @score_2 AND score = @score AND score_2 = @score_2_3",
			wantNames: []string{"score_2", "score", "score_2_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := SelectWhere(describe(t, tally{}), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, stmt.Text)
			assert.Equal(t, tt.wantNames, stmt.Names())
		})
	}
}

func TestSelectWhere_UnknownColumn(t *testing.T) {
	_, err := SelectWhere(describe(t, book{}), []Filter{Eq("title; DROP TABLE books", "x")})
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}

func TestCount(t *testing.T) {
	assert.Equal(t, "SELECT COUNT(*) FROM books", Count(describe(t, book{})).Text)
}
