package database

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var Client *mongo.Client
var DB *mongo.Database

func ConnectMongo() {
	uri := os.Getenv("MONGO_URI")
	dbName := os.Getenv("DB_NAME")

	if uri == "" || dbName == "" {
		logger.Fatal().Msg("MONGO_URI or DB_NAME not set in environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Fatal().Err(err).Msg("MongoDB connection error")
	}

	Client = client
	DB = client.Database(dbName)

	logger.Info().Str("db", dbName).Msg("Connected to MongoDB")
}

var UserCollection *mongo.Collection
var ProductCollection *mongo.Collection
var OrderCollection *mongo.Collection
var CartCollection *mongo.Collection
var ZoneCollection *mongo.Collection
var SettingsCollection *mongo.Collection
var PickupConfigCollection *mongo.Collection

func InitCollections() {
	UserCollection = DB.Collection("users")
	ProductCollection = DB.Collection("products")
	OrderCollection = DB.Collection("orders")
	CartCollection = DB.Collection("carts")
	ZoneCollection = DB.Collection("shipping_zones")
	SettingsCollection = DB.Collection("store_settings")
	PickupConfigCollection = DB.Collection("pickup_config")
}

// EnsureIndexes creates the indexes the order flow depends on: orderNumber must be
// unique, and reconciliation looks orders up by payment reference.
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := OrderCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "paymentDetails.reference", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create order indexes")
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create user email index")
	}
}
