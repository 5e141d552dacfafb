package mapper

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/code-vine/reflectivesql/internal/testutil"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/code-vine/reflectivesql/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type genre int

const (
	genreFiction genre = iota + 1
	genreHistory
)

type volume struct {
	ID    int64  `db:"id,INTEGER,pk,autoincrement"`
	Title string `db:"title,TEXT,notnull"`
	Genre genre  `db:"genre"`
}

func (volume) TableName() string { return "volumes" }

type untabled struct {
	ID int64 `db:"id,INTEGER,pk"`
}

type penName struct {
	ID    int64   `db:"id,INTEGER,pk,autoincrement"`
	Alias *string `db:"alias,TEXT,notnull"`
}

func (penName) TableName() string { return "pen_names" }

type keyless struct {
	Line string `db:"line"`
}

func (keyless) TableName() string { return "keyless" }

func newMockExecutor(t *testing.T, d *dialect.Dialect) (*store.BaseSQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &store.BaseSQLStore{DB: db, Logger: testutil.NewTestLogger(t), SQLDialect: d}, mock
}

func TestInsert_ReadsBackGeneratedKey(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)

	mock.ExpectQuery("INSERT INTO volumes (title, genre) VALUES (@title, @genre) RETURNING id").
		WithArgs(sql.Named("title", "SPQR"), sql.Named("genre", int64(2))).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	v := &volume{Title: "SPQR", Genre: genreHistory}
	id, err := Insert(context.Background(), x, v)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.Equal(t, int64(17), v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ByValueLeavesCallerUntouched(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)

	mock.ExpectQuery("INSERT INTO volumes (title, genre) VALUES (@title, @genre) RETURNING id").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	v := volume{Title: "Emma", Genre: genreFiction}
	id, err := Insert(context.Background(), x, v)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Zero(t, v.ID)
}

func TestInsert_Returning(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.Postgres)

	mock.ExpectQuery("INSERT INTO volumes (title, genre) VALUES (@title, @genre) RETURNING id").
		WithArgs(sql.Named("title", "Emma"), sql.Named("genre", int64(1))).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(5)))

	v := &volume{Title: "Emma", Genre: genreFiction}
	_, err := Insert(context.Background(), x, v)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_FollowUpQuery(t *testing.T) {
	followUp := &dialect.Dialect{Name: "followup", AutoIncrement: "AUTO_INCREMENT", LastInsertID: "SELECT LAST_INSERT_ID()"}
	x, mock := newMockExecutor(t, followUp)

	mock.ExpectExec("INSERT INTO volumes (title, genre) VALUES (@title, @genre)").
		WithArgs(sql.Named("title", "SPQR"), sql.Named("genre", int64(2))).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT LAST_INSERT_ID()").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

	v := &volume{Title: "SPQR", Genre: genreHistory}
	_, err := Insert(context.Background(), x, v)
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_StoreError(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)
	mock.ExpectQuery("INSERT INTO volumes (title, genre) VALUES (@title, @genre) RETURNING id").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(assert.AnError)

	v := &volume{Title: "x"}
	_, err := Insert(context.Background(), x, v)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_BindsNilUnchanged(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)

	mock.ExpectQuery("INSERT INTO pen_names (alias) VALUES (@alias) RETURNING id").
		WithArgs(sql.Named("alias", nil)).
		WillReturnError(assert.AnError)

	_, err := Insert(context.Background(), x, &penName{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperations_NilInstance(t *testing.T) {
	ctx := context.Background()
	x, mock := newMockExecutor(t, dialect.SQLite)
	var v *volume

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"insert", func() error { _, err := Insert(ctx, x, v); return err }, core.ErrNilValue},
		{"update", func() error { _, err := Update(ctx, x, v); return err }, core.ErrNilValue},
		{"delete", func() error { _, err := Delete(ctx, x, v); return err }, core.ErrMissingKeyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.ErrorIs(t, tt.run(), tt.want)
			})
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement reaches the store")
}

func TestUpdate(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)
	mock.ExpectExec("UPDATE volumes SET title = @title, genre = @genre WHERE id = @id").
		WithArgs(sql.Named("title", "Emma"), sql.Named("genre", int64(1)), sql.Named("id", int64(4))).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := Update(context.Background(), x, volume{ID: 4, Title: "Emma", Genre: genreFiction})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_MissingKeyIssuesNoStatement(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)

	n, err := Delete(context.Background(), x, &volume{Title: "never saved"})
	assert.ErrorIs(t, err, core.ErrMissingKeyValue)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)
	mock.ExpectExec("DELETE FROM volumes WHERE id = @id").
		WithArgs(sql.Named("id", int64(9))).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := DeleteByID[volume](context.Background(), x, 9)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryWhere_MockedRows(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)
	mock.ExpectQuery("SELECT * FROM volumes WHERE genre = @genre").
		WithArgs(sql.Named("genre", int64(2))).
		WillReturnRows(sqlmock.NewRows([]string{"GENRE", "TITLE", "ID"}).
			AddRow(int64(2), "SPQR", int64(1)).
			AddRow(int64(2), []byte("Postwar"), int64(2)))

	got, err := QueryWhere[volume](context.Background(), x, Eq("genre", genreHistory))
	require.NoError(t, err)
	assert.Equal(t, []volume{
		{ID: 1, Title: "SPQR", Genre: genreHistory},
		{ID: 2, Title: "Postwar", Genre: genreHistory},
	}, got)
}

func TestQueryAll_CoercionFailure(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)
	mock.ExpectQuery("SELECT id, title, genre FROM volumes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "genre"}).
			AddRow("not a number", "x", int64(1)))

	_, err := QueryAll[volume](context.Background(), x)
	require.ErrorIs(t, err, core.ErrTypeCoercion)

	var ce *core.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "volume.ID", ce.Field)
}

func TestQueryByID_MissingColumnInResult(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)
	mock.ExpectQuery("SELECT * FROM volumes WHERE id = @id LIMIT 1").
		WithArgs(sql.Named("id", int64(1))).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(int64(1), "x"))

	_, err := QueryByID[volume](context.Background(), x, 1)
	assert.ErrorContains(t, err, "volume.Genre")
}

func TestOperations_RequireMetadata(t *testing.T) {
	ctx := context.Background()
	x, mock := newMockExecutor(t, dialect.SQLite)

	_, err := Insert(ctx, x, &untabled{})
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = Update(ctx, x, untabled{ID: 1})
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = Delete(ctx, x, untabled{ID: 1})
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = DeleteByID[untabled](ctx, x, 1)
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = QueryByID[untabled](ctx, x, 1)
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = QueryAll[untabled](ctx, x)
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = QueryWhere[untabled](ctx, x)
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)
	_, err = Count[untabled](ctx, x)
	assert.ErrorIs(t, err, core.ErrMissingTableMetadata)

	_, err = Update(ctx, x, keyless{Line: "x"})
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)
	_, err = Delete(ctx, x, keyless{Line: "x"})
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)
	_, err = QueryByID[keyless](ctx, x, 1)
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)
	_, err = DeleteByID[keyless](ctx, x, 1)
	assert.ErrorIs(t, err, core.ErrNoPrimaryKey)

	_, err = QueryWhere[volume](ctx, x, Eq("publisher", "x"))
	assert.ErrorIs(t, err, core.ErrUnknownColumn)

	assert.NoError(t, mock.ExpectationsWereMet(), "no statement reaches the store")
}

type loanSlip struct {
	ID       int64 `db:"id,INTEGER,pk"`
	VolumeID int64 `db:"volume_id,INTEGER,notnull" fk:"volumes(id)"`
}

func (loanSlip) TableName() string { return "loan_slips" }

func TestCreateSchema_ReferencedTablesFirst(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)

	slips, err := entity.Of[loanSlip]()
	require.NoError(t, err)
	volumes, err := entity.Of[volume]()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS volumes (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, genre INTEGER);").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS loan_slips (id INTEGER PRIMARY KEY, volume_id INTEGER NOT NULL, FOREIGN KEY(volume_id) REFERENCES volumes(id));").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, CreateSchema(context.Background(), x, slips, volumes))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchema_StoreError(t *testing.T) {
	x, mock := newMockExecutor(t, dialect.SQLite)

	volumes, err := entity.Of[volume]()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS volumes (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, genre INTEGER);").
		WillReturnError(assert.AnError)

	err = CreateSchema(context.Background(), x, volumes)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to create table volumes")
}
