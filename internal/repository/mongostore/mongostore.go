// Package mongostore implements repository.TodoStore on a MongoDB collection.
package mongostore

import (
	"context"
	"errors"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/todo"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// Store is a TodoStore backed by a single collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ repository.TodoStore = (*Store)(nil)

// New returns a Store on the named collection of db.
func New(db *mongo.Database, collection string) *Store {
	return &Store{
		client:     db.Client(),
		collection: db.Collection(collection),
	}
}

func (s *Store) FindAll(ctx context.Context, sort repository.Sort) ([]todo.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: sort.Field, Value: int(sort.Direction)}})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify(err, "find todos")
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, classify(err, "decode todos")
	}

	docs := make([]todo.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}
	return docs, nil
}

func (s *Store) FindByID(ctx context.Context, id todo.ID) (todo.Document, error) {
	var raw bson.M

	err := s.collection.FindOne(ctx, bson.M{todo.FieldID: id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "find todo")
	}

	return toDocument(raw), nil
}

func (s *Store) Insert(ctx context.Context, doc todo.Document) (todo.ID, error) {
	res, err := s.collection.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return todo.ID{}, classify(err, "insert todo")
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return todo.ID{}, pkgerrors.Wrapf(repository.ErrOperation, "unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (s *Store) UpdateFields(ctx context.Context, id todo.ID, fields todo.Document) (int64, error) {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{todo.FieldID: id},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return 0, classify(err, "update todo")
	}
	return res.MatchedCount, nil
}

func (s *Store) DeleteByID(ctx context.Context, id todo.ID) (int64, error) {
	res, err := s.collection.DeleteOne(ctx, bson.M{todo.FieldID: id})
	if err != nil {
		return 0, classify(err, "delete todo")
	}
	return res.DeletedCount, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return classify(err, "ping")
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toDocument converts decoded BSON into the plain Go values the formatter
// understands.
func toDocument(m bson.M) todo.Document {
	doc := make(todo.Document, len(m))
	for k, v := range m {
		if dt, ok := v.(primitive.DateTime); ok {
			doc[k] = dt.Time().UTC()
			continue
		}
		doc[k] = v
	}
	return doc
}

// classify wraps err with the repository error class it belongs to.
func classify(err error, op string) error {
	if IsUnavailable(err) {
		return repository.Wrap(repository.ErrUnavailable, err, op)
	}
	return repository.Wrap(repository.ErrOperation, err, op)
}

// codeMaxTimeMSExpired is the server error returned when an operation runs
// past its maxTimeMS. The server was reached and rejected the operation.
const codeMaxTimeMSExpired = 50

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(codeMaxTimeMSExpired) {
		return false
	}

	var selectionErr topology.ServerSelectionError
	switch {
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.As(err, &selectionErr),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return true
	}
	return false
}
