package repository_test

import (
	"context"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
)

// newFirestoreSeeder writes fixtures with a separate client because the score source is
// read-only. Written documents are deleted on cleanup.
func newFirestoreSeeder(ctx context.Context, projectID, databaseID string) (seeder, func(), error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create seeding client")
	}

	var written []*firestore.DocumentRef
	seed := func(t *testing.T, collection string, docs ...model.Document) {
		for _, doc := range docs {
			data := make(map[string]any, len(doc))
			for k, v := range doc {
				if k != model.FieldID {
					data[k] = v
				}
			}

			ref := client.Collection(collection).Doc(doc.ID().String())
			_, err := ref.Set(ctx, data)
			gt.NoError(t, err).Required()
			written = append(written, ref)
		}
	}

	cleanup := func() {
		for _, ref := range written {
			_, _ = ref.Delete(ctx)
		}
		_ = client.Close()
	}

	return seed, cleanup, nil
}
