// Package bookshelf is the entity catalog the reflectsql CLI operates on.
//
// Importing the package registers its types with the entity registry, in
// dependency order, so that schema output lists authors before books.
package bookshelf

import (
	"time"

	"github.com/code-vine/reflectivesql/pkg/entity"
)

// BookStatus tracks where a book is in its lifecycle.
type BookStatus int

// Book statuses.
const (
	StatusDraft BookStatus = iota
	StatusPublished
	StatusOutOfPrint
)

func (s BookStatus) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPublished:
		return "published"
	case StatusOutOfPrint:
		return "out_of_print"
	default:
		return "unknown"
	}
}

// Author writes books.
type Author struct {
	ID      int64      `db:"id,INTEGER,pk,autoincrement"`
	Name    string     `db:"name,TEXT,notnull"`
	Country string     `db:"country,TEXT"`
	Born    *time.Time `db:"born"`
}

// TableName implements entity.Tabler.
func (Author) TableName() string { return "authors" }

// Book belongs to one author.
type Book struct {
	ID        int64      `db:"id,INTEGER,pk,autoincrement"`
	AuthorID  int64      `db:"author_id,INTEGER,notnull" fk:"authors(id)"`
	Title     string     `db:"title,TEXT,notnull"`
	Status    BookStatus `db:"status,INTEGER,notnull"`
	Pages     *int       `db:"pages"`
	Published *time.Time `db:"published_at"`
}

// TableName implements entity.Tabler.
func (Book) TableName() string { return "books" }

func init() {
	entity.MustRegister(Author{}, Book{})
}
