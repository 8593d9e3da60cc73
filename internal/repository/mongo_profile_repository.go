package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProfileStore struct {
	collection *mongo.Collection
}

func NewMongoProfileStore(db *mongo.Database) ProfileStore {
	return &mongoProfileStore{
		collection: db.Collection("users"),
	}
}

// SaveProfile is a merge write: only the fields present in the update
// are touched, everything else on the document is preserved.
func (m *mongoProfileStore) SaveProfile(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if update.DisplayName != nil {
		set["display_name"] = *update.DisplayName
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.City != nil {
		set["city"] = *update.City
	}
	if update.State != nil {
		set["state"] = *update.State
	}
	if update.ZipCode != nil {
		set["zip_code"] = *update.ZipCode
	}

	filter := bson.M{"_id": userID}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, bson.M{"$set": set}, opts); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

func (m *mongoProfileStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile

	err := m.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}
