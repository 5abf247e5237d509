package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

type ProfileRepository struct {
	profiles *mongo.Collection
	users    *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &ProfileRepository{
		profiles: db.Collection(profilesCollection),
		users:    db.Collection(usersCollection),
	}
}

func (r *ProfileRepository) Upsert(ctx context.Context, userID domain.ID, fields domain.ProfileFields) (*domain.Profile, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	setString := func(key, value string) {
		if value != "" {
			set[key] = value
		}
	}
	setString("company", fields.Company)
	setString("website", fields.Website)
	setString("location", fields.Location)
	setString("bio", fields.Bio)
	setString("status", fields.Status)
	setString("githubusername", fields.GitHubUsername)
	if len(fields.Skills) > 0 {
		set["skills"] = fields.Skills
	}
	social := fields.Social
	if social == nil {
		social = map[string]string{}
	}
	set["social"] = social

	setOnInsert := bson.M{
		"_id":        string(domain.NewID()),
		"created_at": now,
		"experience": bson.A{},
		"education":  bson.A{},
	}
	if _, ok := set["skills"]; !ok {
		setOnInsert["skills"] = bson.A{}
	}

	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}
	filter := bson.M{"user": string(userID)}
	opts := options.Update().SetUpsert(true)

	_, err := r.profiles.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent upsert inserted first; the retry matches its document
		_, err = r.profiles.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo upsert profile: %w", err)
	}
	return r.GetByUser(ctx, userID)
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID domain.ID) (*domain.Profile, error) {
	var doc profileDoc
	if err := r.profiles.FindOne(ctx, bson.M{"user": string(userID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("profile: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("mongo find profile: %w", err)
	}

	owners, err := r.owners(ctx, []string{doc.User})
	if err != nil {
		return nil, err
	}
	profile := profileFromDoc(doc, owners[doc.User])
	return &profile, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.profiles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list profiles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode profiles: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.User)
	}
	owners, err := r.owners(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(docs))
	for _, d := range docs {
		profiles = append(profiles, profileFromDoc(d, owners[d.User]))
	}
	return profiles, nil
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID domain.ID, entry domain.Experience) error {
	if entry.ID.IsZero() {
		entry.ID = domain.NewID()
	}
	return r.prepend(ctx, userID, "experience", experienceToDoc(entry))
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, entryID domain.ID) error {
	return r.pull(ctx, userID, "experience", entryID)
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID domain.ID, entry domain.Education) error {
	if entry.ID.IsZero() {
		entry.ID = domain.NewID()
	}
	return r.prepend(ctx, userID, "education", educationToDoc(entry))
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, entryID domain.ID) error {
	return r.pull(ctx, userID, "education", entryID)
}

func (r *ProfileRepository) prepend(ctx context.Context, userID domain.ID, field string, entry any) error {
	res, err := r.profiles.UpdateOne(ctx,
		bson.M{"user": string(userID)},
		bson.M{
			"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo push %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile: %w", repository.ErrNotFound)
	}
	return nil
}

// pull matches on the entry id so that a missing entry and a missing profile
// both report ErrNotFound without a separate read.
func (r *ProfileRepository) pull(ctx context.Context, userID domain.ID, field string, entryID domain.ID) error {
	res, err := r.profiles.UpdateOne(ctx,
		bson.M{"user": string(userID), field + "._id": string(entryID)},
		bson.M{
			"$pull": bson.M{field: bson.M{"_id": string(entryID)}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo pull %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", field, repository.ErrNotFound)
	}
	return nil
}

func (r *ProfileRepository) owners(ctx context.Context, ids []string) (map[string]*userDoc, error) {
	owners := make(map[string]*userDoc, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}
	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("mongo find owners: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode owners: %w", err)
	}
	for i := range docs {
		owners[docs[i].ID] = &docs[i]
	}
	return owners, nil
}
