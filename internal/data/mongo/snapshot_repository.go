// Package mongo archives daily report detail snapshots in MongoDB. The
// PostgreSQL daily_reports table holds the sums; the snapshot documents hold
// the raw lines those sums were computed from.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/retail-cash-ledger/internal/domain/report"
)

const (
	// SnapshotCollectionName is the name of the report snapshot collection
	SnapshotCollectionName = "report_snapshots"
)

// SnapshotRepository implements report.SnapshotRepository for MongoDB
type SnapshotRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSnapshotRepository creates a new MongoDB report snapshot repository
func NewSnapshotRepository(logger *slog.Logger, db *mongo.Database) report.SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		logger: logger,
	}
}

// Replace swaps the snapshot document for (client_id, report_date), inserting
// when absent. Regenerating a report therefore never leaves a stale document.
func (r *SnapshotRepository) Replace(ctx context.Context, snap *report.Snapshot) error {
	collection := r.db.Collection(SnapshotCollectionName)

	filter := bson.M{"client_id": snap.ClientID, "report_date": snap.ReportDate}
	opts := options.Replace().SetUpsert(true)

	_, err := collection.ReplaceOne(ctx, filter, snap, opts)
	if err != nil {
		r.logger.Error("Failed to replace report snapshot",
			"client_id", snap.ClientID,
			"report_date", snap.ReportDate,
			"error", err)
		return fmt.Errorf("failed to replace report snapshot: %w", err)
	}

	return nil
}

// GetByDate retrieves the snapshot for the given tenant and calendar date.
// Returns ErrReportNotFound when no snapshot has been archived for it.
func (r *SnapshotRepository) GetByDate(ctx context.Context, clientID int64, reportDate string) (*report.Snapshot, error) {
	collection := r.db.Collection(SnapshotCollectionName)

	filter := bson.M{"client_id": clientID, "report_date": reportDate}
	var snap report.Snapshot
	err := collection.FindOne(ctx, filter).Decode(&snap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, report.ErrReportNotFound{ClientID: clientID}
		}
		r.logger.Error("Failed to get report snapshot",
			"client_id", clientID,
			"report_date", reportDate,
			"error", err)
		return nil, fmt.Errorf("failed to get report snapshot: %w", err)
	}

	return &snap, nil
}
