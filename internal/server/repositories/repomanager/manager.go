package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/codehunt/internal/dbx"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/emailtokens"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/listings"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can use
// the same repositories inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	EmailTokens(db dbx.DBTX) emailtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Preferences(db dbx.DBTX) preferences.Repository
	Listings(db dbx.DBTX) listings.Repository
}
