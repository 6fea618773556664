package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

// SubmissionRepository persists form submissions in a single append-only
// collection. It is the source of truth for the aggregator.
type SubmissionRepository struct {
	submissions *mongo.Collection
}

// NewSubmissionRepository binds the repository to the submission collection.
func NewSubmissionRepository(db *mongo.Database, collection string) *SubmissionRepository {
	return &SubmissionRepository{submissions: db.Collection(collection)}
}

// EnsureIndexes creates the createdAt index the daily/monthly range scans
// rely on. Safe to call on every startup.
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.submissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	})
	return err
}

// Append inserts one submission, assigning the server-side ID and CreatedAt.
// Once it returns nil the submission is durable and visible to ListAll.
func (r *SubmissionRepository) Append(ctx context.Context, submission *domain.Submission) error {
	doc := SubmissionDocument{
		ID:            primitive.NewObjectID(),
		Kind:          string(submission.Kind),
		Name:          submission.Name,
		Email:         submission.Email,
		Phone:         submission.Phone,
		Company:       submission.Company,
		Message:       submission.Message,
		Industry:      submission.Industry,
		IndustryOther: submission.IndustryOther,
		Budget:        submission.Budget,
		CreatedAt:     time.Now().UTC(),
	}

	if _, err := r.submissions.InsertOne(ctx, doc); err != nil {
		return err
	}

	submission.ID = doc.ID.Hex()
	submission.CreatedAt = doc.CreatedAt
	return nil
}

// ListAll returns every stored submission ordered by createdAt ascending.
func (r *SubmissionRepository) ListAll(ctx context.Context) ([]domain.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.submissions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := make([]domain.Submission, 0)
	for cursor.Next(ctx) {
		var doc SubmissionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		submissions = append(submissions, mapSubmissionDocument(doc))
	}
	return submissions, cursor.Err()
}

// mapSubmissionDocument converts the Mongo schema back into the domain model.
func mapSubmissionDocument(doc SubmissionDocument) domain.Submission {
	return domain.Submission{
		ID:            doc.ID.Hex(),
		Kind:          domain.SubmissionKind(doc.Kind),
		Name:          doc.Name,
		Email:         doc.Email,
		Phone:         doc.Phone,
		Company:       doc.Company,
		Message:       doc.Message,
		Industry:      doc.Industry,
		IndustryOther: doc.IndustryOther,
		Budget:        doc.Budget,
		CreatedAt:     doc.CreatedAt,
	}
}
