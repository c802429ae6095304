package repository

import (
	"context"

	"live_shopping_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition show chat message store
type MessageRepository interface {
	// EnsureIndexes 建立查詢用索引，服務啟動時呼叫
	EnsureIndexes(ctx context.Context) error
	// Insert 寫入一筆聊天訊息
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	// FetchRecent 撈指定場次最近 limit 筆訊息，回傳由舊到新
	FetchRecent(ctx context.Context, showID string, limit int) ([]domain.ChatMessage, error)
}

type showMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &showMessageRepository{
		coll: db.Collection("show_messages"),
	}
}

// EnsureIndexes FetchRecent 依場次撈最新訊息，沒這個索引會全表掃
func (r *showMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "show_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// Insert - 寫入一筆聊天訊息，_id 直接用訊息 id，重複寫入會被 mongo 擋掉
func (r *showMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

// FetchRecent 先取最新 limit 筆再反轉成升冪。
// 結果是快照不是差異，重複的訊息由呼叫端去重
func (r *showMessageRepository) FetchRecent(ctx context.Context, showID string, limit int) ([]domain.ChatMessage, error) {
	filter := bson.M{"show_id": showID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.ChatMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}

	// 反轉成由舊到新
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
