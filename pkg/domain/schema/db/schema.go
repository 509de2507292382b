package db

import "context"

// SchemaInterface represents versions of the database schema.
type SchemaInterface interface {
	// Upgrade applies newer versions in the repository to the database, in order.
	Upgrade(ctx context.Context) error

	// Version returns the version of the schema in the database.
	//
	// It is 0 when no version has been applied.
	Version(ctx context.Context) (int, error)

	// Context returns a context which is cancelled when the schema in database becomes older
	// than the newest version in the repository.
	//
	// # Args
	//
	// - ctx: parent context.
	//
	// # Returns
	//
	// - context.Context: cancelled when the schema in database is outdated.
	// It may be cancelled already when the schema is outdated at call.
	//
	// - context.CancelFunc: stops watching.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
