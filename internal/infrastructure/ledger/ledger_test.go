package ledger

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestNew(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()
	// Connect does not dial until the first operation.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database("test")

	tests := []struct {
		name    string
		backend string
		rdb     *redis.Client
		db      *mongo.Database
		want    string
		wantErr bool
	}{
		{name: "default is redis", backend: "", rdb: rdb, want: "redis"},
		{name: "redis", backend: "redis", rdb: rdb, want: "redis"},
		{name: "mixed case", backend: " Mongo ", db: db, want: "mongo"},
		{name: "redis without client", backend: "redis", wantErr: true},
		{name: "mongo without db", backend: "mongo", rdb: rdb, wantErr: true},
		{name: "unknown", backend: "postgres", rdb: rdb, db: db, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.backend, tt.rdb, tt.db)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch l.(type) {
			case *RedisLedger:
				if tt.want != "redis" {
					t.Fatalf("got redis ledger, want %s", tt.want)
				}
			case *MongoLedger:
				if tt.want != "mongo" {
					t.Fatalf("got mongo ledger, want %s", tt.want)
				}
			default:
				t.Fatalf("unexpected ledger type %T", l)
			}
		})
	}
}
