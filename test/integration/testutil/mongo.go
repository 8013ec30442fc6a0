package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"guidely/pkg/client"
	"guidely/pkg/config"
	"guidely/pkg/logger"
)

const (
	EnvTestMongoURI = "TEST_MONGO_URI"

	DefaultDatabaseName = "guidely_test"
	ConnectionTimeout   = 10 * time.Second

	MessagesCollection          = "Messages"
	BookingsCollection          = "Bookings"
	AvailabilitySlotsCollection = "AvailabilitySlots"
	UsersCollection             = "Users"
	GuidesCollection            = "Guides"
)

// MongoHelper provides MongoDB test utilities. Tests using it are skipped
// unless TEST_MONGO_URI points at a running instance.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper connects to the test MongoDB, skipping the test when no
// instance is configured.
func NewMongoHelper(t *testing.T) *MongoHelper {
	t.Helper()

	mongoURI := os.Getenv(EnvTestMongoURI)
	if mongoURI == "" {
		t.Skipf("set %s to run MongoDB integration tests", EnvTestMongoURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := mongoClient.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   mongoClient,
		Database: mongoClient.Database(DefaultDatabaseName),
		DBName:   DefaultDatabaseName,
	}
}

// Config builds a service configuration bound to the test database.
func (m *MongoHelper) Config(serviceName string) *config.Config {
	cfg := &config.Config{
		MongoDatabaseName: m.DBName,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: serviceName,
		}),
		Client: client.NewClient(),
	}
	cfg.Client.Mongo = m.Client
	return cfg
}

// CleanCollections drops the documents the test wrote.
func (m *MongoHelper) CleanCollections(t *testing.T, names ...string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	for _, name := range names {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

// Close closes the MongoDB connection.
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Errorf("failed to disconnect from MongoDB: %v", err)
	}
}
