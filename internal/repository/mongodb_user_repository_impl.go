package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const userCollection = "users"

type MongoDBUserRepositoryImpl struct {
	db *mongo.Database
}

func CreateMongoDBUserRepository(db *mongo.Database) UserRepository {
	return &MongoDBUserRepositoryImpl{db: db}
}

func (r *MongoDBUserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(userCollection).InsertOne(ctx, data)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return id, errs.ErrEmailAlreadyUsed
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "AddUser").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

// GetUserByEmail returns a zero User when nobody owns the email.
func (r *MongoDBUserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (user domain.User, err error) {
	filter := bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}}

	err = r.db.Collection(userCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user, nil
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return
	}

	return user, nil
}

func (r *MongoDBUserRepositoryImpl) GetUserByID(ctx context.Context, id string) (user domain.User, err error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user, errs.ErrNotFound
	}

	err = r.db.Collection(userCollection).FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByID").Msg("")
		return
	}

	return user, nil
}

func (r *MongoDBUserRepositoryImpl) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.User, err error) {
	data = []domain.User{}
	if len(ids) == 0 {
		return data, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}

	return r.find(ctx, "GetUsersByIDs", filter)
}

func (r *MongoDBUserRepositoryImpl) GetUsersByRole(ctx context.Context, role string) (data []domain.User, err error) {
	return r.find(ctx, "GetUsersByRole", bson.D{{Key: "role", Value: role}})
}

func (r *MongoDBUserRepositoryImpl) find(ctx context.Context, component string, filter bson.D) (data []domain.User, err error) {
	cursor, err := r.db.Collection(userCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	data = []domain.User{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	return data, nil
}
