package mg

import (
	"context"
	"fmt"
	"time"

	"glyco/defs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	GlucoseCollection = "glucose"
	InsulinCollection = "insulin"
)

type GlucoseStore interface {
	WriteGlucose(ctx context.Context, gr *defs.GlucoseReading) (*mongo.UpdateResult, error)
	ReadGlucose(ctx context.Context, start, end time.Time) ([]defs.GlucoseReading, error)
}

type InsulinStore interface {
	WriteInsulin(ctx context.Context, ir *defs.InsulinReading) (*mongo.UpdateResult, error)
	ReadInsulin(ctx context.Context, start, end time.Time) ([]defs.InsulinReading, error)
}

type MongoStore struct {
	Client *mongo.Client
	Logger *zap.Logger

	DBName string
}

func New(ctx context.Context, cfg defs.MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = defs.DefaultDB
	}

	return &MongoStore{
		Client: mongoClient,
		Logger: logger,
		DBName: dbName,
	}, nil
}

func (ms *MongoStore) Close(ctx context.Context) error {
	return ms.Client.Disconnect(ctx)
}

func (ms *MongoStore) InsertIfNew(ctx context.Context, collection string, filter bson.M, doc interface{}) (*mongo.UpdateResult, error) {
	ms.Logger.Debug(
		"inserting document",
		zap.String("collection", collection),
		zap.Any("filter", filter),
	)

	res, err := ms.Client.
		Database(ms.DBName).
		Collection(collection).
		UpdateOne(ctx, filter,
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true),
		)
	if err != nil {
		return nil, fmt.Errorf("unable to insert if new: %w", err)
	}

	return res, nil
}

func (ms *MongoStore) getEventsBetween(ctx context.Context, collection string, start, end time.Time, slicePtr interface{}) error {
	ms.Logger.Debug(
		"reading events",
		zap.String("collection", collection),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	findOptions := options.Find()
	findOptions.SetSort(bson.D{primitive.E{Key: "time", Value: 1}})

	cur, err := ms.Client.
		Database(ms.DBName).
		Collection(collection).
		Find(ctx, bson.M{
			"time": bson.M{
				"$gte": primitive.NewDateTimeFromTime(start),
				"$lte": primitive.NewDateTimeFromTime(end),
			},
		}, findOptions)
	if err != nil {
		ms.Logger.Debug(
			"unable to read events",
			zap.String("collection", collection),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err),
		)
		return fmt.Errorf("unable to read events: %w", err)
	}

	return cur.All(ctx, slicePtr)
}

// WriteGlucose stores gr unless a reading with the same time exists.
func (ms *MongoStore) WriteGlucose(ctx context.Context, gr *defs.GlucoseReading) (*mongo.UpdateResult, error) {
	filter := bson.M{"time": gr.Time}
	return ms.InsertIfNew(ctx, GlucoseCollection, filter, gr)
}

func (ms *MongoStore) ReadGlucose(ctx context.Context, start, end time.Time) ([]defs.GlucoseReading, error) {
	var trs []defs.GlucoseReading
	if err := ms.getEventsBetween(ctx, GlucoseCollection, start, end, &trs); err != nil {
		return nil, fmt.Errorf("unable to read glucose: %w", err)
	}
	return trs, nil
}

// WriteInsulin stores ir unless a dose of the same kind exists at that time.
func (ms *MongoStore) WriteInsulin(ctx context.Context, ir *defs.InsulinReading) (*mongo.UpdateResult, error) {
	filter := bson.M{"time": ir.Time, "kind": ir.Kind}
	return ms.InsertIfNew(ctx, InsulinCollection, filter, ir)
}

func (ms *MongoStore) ReadInsulin(ctx context.Context, start, end time.Time) ([]defs.InsulinReading, error) {
	var ins []defs.InsulinReading
	if err := ms.getEventsBetween(ctx, InsulinCollection, start, end, &ins); err != nil {
		return nil, fmt.Errorf("unable to read insulin: %w", err)
	}
	return ins, nil
}
