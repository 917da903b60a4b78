package interfaces

//go:generate moq -out mocks/repository_mock.go -pkg mocks . ScoreSource

import (
	"context"

	"github.com/secmon-lab/scoreboard/pkg/domain/model"
)

// ScoreSource defines read access to the document store
type ScoreSource interface {
	// FetchCollection returns every document of the named collection. An empty
	// collection yields an empty slice and no error. Failures are tagged with
	// model.ErrTagDataSource and are never retried internally.
	FetchCollection(ctx context.Context, name string) ([]model.Document, error)

	// Close closes the underlying connection
	Close() error
}
