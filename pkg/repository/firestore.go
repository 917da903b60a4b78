package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore implements ScoreSource with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a Firestore score source. The client is created once here and
// reused for every fetch until Close. The startup check reads one document of
// collection, or of the default collection when it is empty.
func NewFirestore(ctx context.Context, projectID, databaseID, collection string, opts ...option.ClientOption) (*Firestore, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.T(model.ErrTagDataSource))
	}

	// Fail fast on bad credentials or project. An empty or missing collection is fine.
	checked := startupCollection(collection)
	_, err = client.Collection(checked).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		code := status.Code(err)
		if code == codes.PermissionDenied || code == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("collection", checked),
				goerr.V("firestore error code", code.String()),
				goerr.T(model.ErrTagDataSource),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", code.String(),
		)
	}

	logger.Info("Firestore score source initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
		"collection", checked,
	)

	return &Firestore{
		client: client,
	}, nil
}

// FetchCollection streams every document of the collection. No filtering, ordering or
// pagination is applied.
func (f *Firestore) FetchCollection(ctx context.Context, name string) ([]model.Document, error) {
	if name == "" {
		return nil, goerr.New("collection name is empty", goerr.T(model.ErrTagDataSource))
	}

	iter := f.client.Collection(name).Documents(ctx)
	defer iter.Stop()

	docs := []model.Document{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents",
				goerr.V("collection", name),
				goerr.V("firestore error code", status.Code(err).String()),
				goerr.T(model.ErrTagDataSource),
			)
		}

		data := doc.Data()
		if data == nil {
			data = map[string]any{}
		}
		data[model.FieldID] = doc.Ref.ID
		docs = append(docs, model.Document(data))
	}

	return docs, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.ScoreSource = (*Firestore)(nil) // Compile-time interface check

func startupCollection(name string) string {
	if name == "" {
		return types.DefaultCollection.String()
	}
	return name
}
