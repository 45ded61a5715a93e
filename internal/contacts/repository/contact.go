package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	contactserrors "github.com/SreeHarith/ocr-app/internal/contacts/errors"
	"github.com/SreeHarith/ocr-app/pkg/config"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

const (
	CollectionName = "contacts"
)

type mongoContactRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type ContactRepository interface {
	CreateMany(ctx context.Context, contacts []model.Contact) ([]string, error)
	FindAll(ctx context.Context) ([]*model.Contact, error)
	FindByPhones(ctx context.Context, phones []string) ([]*model.Contact, error)
	Update(ctx context.Context, id string, contact *model.Contact) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

func NewMongoContactRepository(cfg *config.Config) ContactRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoContactRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout, keeping an earlier deadline
// if the caller already set a shorter one.
func (r *mongoContactRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoContactRepository) CreateMany(ctx context.Context, contacts []model.Contact) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, len(contacts))
	for i := range contacts {
		contacts[i].CreatedAt = now
		docs[i] = contacts[i]
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to create contacts: %w", err)
	}

	ids := make([]string, 0, len(result.InsertedIDs))
	for _, inserted := range result.InsertedIDs {
		if oid, ok := inserted.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}
	return ids, nil
}

// FindAll returns every contact, newest first.
func (r *mongoContactRepository) FindAll(ctx context.Context) ([]*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := []*model.Contact{}
	if err = cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	return contacts, nil
}

func (r *mongoContactRepository) FindByPhones(ctx context.Context, phones []string) ([]*model.Contact, error) {
	if len(phones) == 0 {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"phone": bson.M{"$in": phones}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by phone: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*model.Contact
	if err = cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	return contacts, nil
}

func (r *mongoContactRepository) Update(ctx context.Context, id string, contact *model.Contact) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", contactserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"name":        contact.Name,
			"phone":       contact.Phone,
			"gender":      contact.Gender,
			"birthday":    contact.Birthday,
			"anniversary": contact.Anniversary,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoContactRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", contactserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoContactRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}
