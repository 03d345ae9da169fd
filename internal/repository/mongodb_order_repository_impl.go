package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCollection = "orders"

type MongoDBOrderRepositoryImpl struct {
	db *mongo.Database
}

func CreateMongoDBOrderRepository(db *mongo.Database) OrderRepository {
	return &MongoDBOrderRepositoryImpl{db: db}
}

func (r *MongoDBOrderRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}

	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})

	return err
}

func (r *MongoDBOrderRepositoryImpl) AddOrder(ctx context.Context, data domain.Order) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(orderCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddOrder").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoDBOrderRepositoryImpl) GetOrderByID(ctx context.Context, id string) (order domain.Order, err error) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return order, errs.ErrNotFound
	}

	return r.findOne(ctx, "GetOrderByID", bson.D{{Key: "_id", Value: orderID}})
}

func (r *MongoDBOrderRepositoryImpl) GetOrderByTransactionNumber(ctx context.Context, transactionNumber string) (order domain.Order, err error) {
	return r.findOne(ctx, "GetOrderByTransactionNumber", bson.D{{Key: "transactionNumber", Value: transactionNumber}})
}

func (r *MongoDBOrderRepositoryImpl) findOne(ctx context.Context, component string, filter bson.D) (order domain.Order, err error) {
	err = r.db.Collection(orderCollection).FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return order, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return order, err
	}

	return order, nil
}

func (r *MongoDBOrderRepositoryImpl) GetOrdersByUserID(ctx context.Context, userID primitive.ObjectID) (data []domain.Order, err error) {
	filter := bson.D{{Key: "user", Value: userID}}

	return r.find(ctx, "GetOrdersByUserID", filter)
}

func (r *MongoDBOrderRepositoryImpl) GetUnpaidOrders(ctx context.Context, paymentMethod string, createdAfter time.Time) (data []domain.Order, err error) {
	filter := bson.D{
		{Key: "isPaid", Value: false},
		{Key: "paymentMethod", Value: paymentMethod},
		{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: createdAfter}}},
	}

	return r.find(ctx, "GetUnpaidOrders", filter)
}

func (r *MongoDBOrderRepositoryImpl) find(ctx context.Context, component string, filter bson.D) (data []domain.Order, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.db.Collection(orderCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	data = []domain.Order{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	return data, nil
}

// MarkOrderPaid only touches orders that are still unpaid, so the first payment reference wins.
func (r *MongoDBOrderRepositoryImpl) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, result domain.PaymentResult) (updated bool, err error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "isPaid", Value: false},
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "isPaid", Value: true},
		{Key: "paidAt", Value: result.UpdateTime},
		{Key: "paymentResult", Value: result},
	}}}

	res, err := r.db.Collection(orderCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MarkOrderPaid").Msg("Failed to update order")
		return
	}

	return res.ModifiedCount > 0, nil
}
