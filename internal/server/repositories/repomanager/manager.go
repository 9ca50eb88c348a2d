// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook used at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mzfirozuddin/elib-apis/internal/dbx"
	"github.com/mzfirozuddin/elib-apis/internal/server/repositories/books"
	"github.com/mzfirozuddin/elib-apis/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Books(db dbx.DBTX) books.Repository
}
