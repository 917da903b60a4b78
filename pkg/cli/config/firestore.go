package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/repository"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Firestore holds Firestore configuration
type Firestore struct {
	ProjectID       string
	DatabaseID      string
	CredentialsFile string
	SeedFile        string
}

// Flags returns CLI flags for Firestore configuration
func (f *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Firestore",
			Sources:     cli.EnvVars("SCOREBOARD_FIRESTORE_PROJECT"),
			Destination: &f.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("SCOREBOARD_FIRESTORE_DATABASE"),
			Destination: &f.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-credentials",
			Usage:       "Service account key file (default: application default credentials)",
			Category:    "Firestore",
			Sources:     cli.EnvVars("SCOREBOARD_FIRESTORE_CREDENTIALS"),
			Destination: &f.CredentialsFile,
		},
		&cli.StringFlag{
			Name:        "memory-seed",
			Usage:       "YAML file of score records loaded into the in-memory source when Firestore is not configured",
			Category:    "Firestore",
			Sources:     cli.EnvVars("SCOREBOARD_MEMORY_SEED"),
			Destination: &f.SeedFile,
		},
	}
}

// Configure creates and returns a score source. Without a project the in-memory source
// is used, optionally seeded from SeedFile.
func (f *Firestore) Configure(ctx context.Context, collection string) (interfaces.ScoreSource, error) {
	logger := ctxlog.From(ctx)

	if !f.IsConfigured() {
		logger.Warn("Using memory score source instead of firestore. Only seeded records will be shown")
		memory := repository.NewMemory()
		if f.SeedFile != "" {
			docs, err := LoadSeedFile(f.SeedFile)
			if err != nil {
				return nil, err
			}
			for _, doc := range docs {
				memory.Put(collection, doc)
			}
			logger.Info("Memory score source seeded", "path", f.SeedFile, "records", len(docs))
		}
		return memory, nil
	}

	var opts []option.ClientOption
	if f.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(f.CredentialsFile))
	}

	repo, err := repository.NewFirestore(ctx, f.ProjectID, f.DatabaseID, collection, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init firestore",
			goerr.V("project", f.ProjectID),
			goerr.V("database", f.DatabaseID),
		)
	}

	return repo, nil
}

// IsConfigured checks if Firestore is properly configured
func (f *Firestore) IsConfigured() bool {
	return f.ProjectID != ""
}

// LogValue returns structured log value
func (f Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", f.ProjectID),
		slog.String("database", f.DatabaseID),
		slog.Bool("has_credentials_file", f.CredentialsFile != ""),
		slog.String("seed", f.SeedFile),
	)
}
