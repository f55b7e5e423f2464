package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/tile"
)

const mongoCloseTimeout = 5 * time.Second

// MongoConfig locates the tiles collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type mongoTile struct {
	ID       string `bson:"_id"`
	Position int64  `bson:"position"`
	FileName string `bson:"file_name"`
	Content  string `bson:"content"`
	Busyness int    `bson:"busyness"`
}

// MongoStore keeps the library in a MongoDB collection ordered by a position
// field.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects and pings the server.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri, database and collection are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageError(err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, storageError(err, "connect")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) List(ctx context.Context) (tiles []tile.RawTile, err error) {
	defer func(start time.Time) { observe(ctx, "mongo", "list", start, err) }(time.Now())

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, storageError(err, "list")
	}
	defer cursor.Close(ctx)

	var docs []mongoTile
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageError(err, "list")
	}
	tiles = make([]tile.RawTile, len(docs))
	for i, d := range docs {
		tiles[i] = tile.RawTile{ID: d.ID, FileName: d.FileName, Content: d.Content, Busyness: d.Busyness}
	}
	return tiles, nil
}

func (s *MongoStore) Add(ctx context.Context, tiles ...tile.RawTile) (added []tile.RawTile, err error) {
	defer func(start time.Time) { observe(ctx, "mongo", "add", start, err) }(time.Now())

	added, err = prepare(tiles)
	if err != nil || len(added) == 0 {
		return added, err
	}

	next, err := s.nextPosition(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]any, len(added))
	for i, t := range added {
		docs[i] = mongoTile{
			ID:       t.ID,
			Position: next + int64(i),
			FileName: t.FileName,
			Content:  t.Content,
			Busyness: t.Busyness,
		}
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return nil, storageError(err, "add")
	}
	return added, nil
}

func (s *MongoStore) SetBusyness(ctx context.Context, id string, busyness int) (err error) {
	defer func(start time.Time) { observe(ctx, "mongo", "update", start, err) }(time.Now())

	if err := errors.ValidateBusyness(busyness); err != nil {
		return err
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"busyness": busyness}})
	if err != nil {
		return storageError(err, "update")
	}
	if res.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(ctx, "mongo", "delete", start, err) }(time.Now())

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageError(err, "delete")
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Clear(ctx context.Context) (err error) {
	defer func(start time.Time) { observe(ctx, "mongo", "clear", start, err) }(time.Now())

	_, err = s.collection.DeleteMany(ctx, bson.M{})
	return storageError(err, "clear")
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) nextPosition(ctx context.Context) (int64, error) {
	var last mongoTile
	err := s.collection.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, storageError(err, "add")
	}
	return last.Position + 1, nil
}

var _ Store = (*MongoStore)(nil)
