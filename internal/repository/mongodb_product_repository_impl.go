package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/Aymix/whitecart/internal/domain"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productCollection = "products"

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateMongoDBProductRepository(db *mongo.Database) ProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(productCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error) {
	query := bson.D{}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: filter.Category})
	}

	return r.findProducts(ctx, "GetProducts", query, filter)
}

func (r *MongoDBProductRepositoryImpl) SearchProductsByName(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error) {
	query := bson.D{{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(filter.Q), Options: "i"}}}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: filter.Category})
	}

	return r.findProducts(ctx, "SearchProductsByName", query, filter)
}

func (r *MongoDBProductRepositoryImpl) findProducts(ctx context.Context, component string, query bson.D, filter pkgdto.Filter) (data []domain.Product, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit != 0 && filter.Page != 0 {
		opts = opts.SetSkip((int64(filter.Page) - 1) * int64(filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := r.db.Collection(productCollection).Find(ctx, query, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	data = []domain.Product{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return product, errs.ErrNotFound
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.db.Collection(productCollection).FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return product, err
	}

	return product, nil
}

// UpdateProduct sets only the fields present in update and returns the stored document.
func (r *MongoDBProductRepositoryImpl) UpdateProduct(ctx context.Context, id primitive.ObjectID, update domain.ProductUpdate) (product domain.Product, err error) {
	set := productUpdateFields(update)
	if len(set) == 0 {
		return r.GetProductByID(ctx, id.Hex())
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.db.Collection(productCollection).FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return
	}

	return product, nil
}

func productUpdateFields(update domain.ProductUpdate) bson.D {
	var set bson.D
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: update.Description})
	}
	if update.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *update.Price})
	}
	if update.OfferPrice != nil {
		set = append(set, bson.E{Key: "offerPrice", Value: *update.OfferPrice})
	}
	if update.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *update.Category})
	}
	if update.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *update.Image})
	}
	if update.Stock != nil {
		set = append(set, bson.E{Key: "stock", Value: *update.Stock})
	}
	return set
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) (err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	result, err := r.db.Collection(productCollection).DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// DecreaseProductStock decrements only when enough stock is left, in a single update.
func (r *MongoDBProductRepositoryImpl) DecreaseProductStock(ctx context.Context, id primitive.ObjectID, quantity int64) (err error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "stock", Value: bson.D{{Key: "$gte", Value: quantity}}},
	}

	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: -quantity}}}}

	result, err := r.db.Collection(productCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DecreaseProductStock").Msg("Failed to update product stock")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrInsufficientStock
	}

	return nil
}
