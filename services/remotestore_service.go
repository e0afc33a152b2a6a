package services

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/avivhostel-jpg/Smart-Aviv/config"

	"github.com/go-redis/redis/v8"
)

// Remote collection names
const (
	CollectionResidents = "residents"
	CollectionReports   = "reports"
)

const (
	remoteKeyPrefix      = "aviv:"
	remoteChannelSuffix  = ":changes"
	provisionSentinelKey = "aviv:residents:provisioned"
)

// Document is one remote document: its collection key plus all fields except
// the id itself.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// InterfaceRemoteStoreService defines the remote document store adapter.
// Subscribe delivers the full current collection on every change by any
// writer (including the caller), at least once; rapid writes may coalesce.
type InterfaceRemoteStoreService interface {
	Ping() error
	FetchAll(collection string) ([]Document, error)
	Subscribe(collection string, onSnapshot func([]Document), onError func(error)) (func(), error)
	Put(collection, id string, data map[string]interface{}, merge bool) error
	PutBatch(collection string, docs []Document) error
	Delete(collection, id string) error
	ClaimProvisioning() (bool, error)
}

// RemoteStoreService 基于Redis的远程文档存储适配器。
// 每个集合一个hash（文档id -> JSON），写入后在对应频道发布变更通知，
// 订阅方收到通知后重新读取整个集合。
type RemoteStoreService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRemoteStoreService creates a new remote document store adapter
func NewRemoteStoreService(client *redis.Client) InterfaceRemoteStoreService {
	return &RemoteStoreService{
		Client: client,
		Ctx:    context.Background(),
	}
}

func collectionKey(collection string) string {
	return remoteKeyPrefix + collection
}

func collectionChannel(collection string) string {
	return remoteKeyPrefix + collection + remoteChannelSuffix
}

// Ping checks connectivity to the store
func (s *RemoteStoreService) Ping() error {
	return s.Client.Ping(s.Ctx).Err()
}

// FetchAll reads the full collection once. Reports come back ordered by
// timestamp descending, residents by id.
func (s *RemoteStoreService) FetchAll(collection string) ([]Document, error) {
	raw, err := s.Client.HGetAll(s.Ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(raw))
	for id, value := range raw {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(value), &data); err != nil {
			config.Warning("远程文档解析失败，已跳过: collection=%s id=%s err=%v", collection, id, err)
			continue
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	sortDocuments(collection, docs)
	return docs, nil
}

// sortDocuments materializes the feed order: reports newest first by their
// numeric timestamp, everything else by document id.
func sortDocuments(collection string, docs []Document) {
	if collection == CollectionReports {
		sort.SliceStable(docs, func(i, j int) bool {
			return docTimestamp(docs[i]) > docTimestamp(docs[j])
		})
		return
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}

func docTimestamp(doc Document) float64 {
	ts, _ := doc.Data["timestamp"].(float64)
	return ts
}

// Subscribe opens the live feed for a collection. The current snapshot is
// delivered immediately, then again after every published change. The
// returned function cancels the subscription.
func (s *RemoteStoreService) Subscribe(collection string, onSnapshot func([]Document), onError func(error)) (func(), error) {
	pubsub := s.Client.Subscribe(s.Ctx, collectionChannel(collection))
	if _, err := pubsub.Receive(s.Ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	docs, err := s.FetchAll(collection)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	onSnapshot(docs)

	go func() {
		for range pubsub.Channel() {
			docs, err := s.FetchAll(collection)
			if err != nil {
				onError(err)
				return
			}
			onSnapshot(docs)
		}
	}()

	return func() { _ = pubsub.Close() }, nil
}

// Put upserts one document. With merge true, fields absent from data are
// preserved remotely (field-level merge, not a document replace).
func (s *RemoteStoreService) Put(collection, id string, data map[string]interface{}, merge bool) error {
	doc := data
	if merge {
		existing, err := s.Client.HGet(s.Ctx, collectionKey(collection), id).Result()
		if err == nil {
			var current map[string]interface{}
			if json.Unmarshal([]byte(existing), &current) == nil {
				for k, v := range data {
					current[k] = v
				}
				doc = current
			}
		} else if err != redis.Nil {
			return err
		}
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.Client.HSet(s.Ctx, collectionKey(collection), id, encoded).Err(); err != nil {
		return err
	}
	return s.publishChange(collection, id)
}

// PutBatch writes a set of documents in one pipeline with a single change
// notification (the provisioning batch write).
func (s *RemoteStoreService) PutBatch(collection string, docs []Document) error {
	pipe := s.Client.TxPipeline()
	for _, doc := range docs {
		encoded, err := json.Marshal(doc.Data)
		if err != nil {
			return err
		}
		pipe.HSet(s.Ctx, collectionKey(collection), doc.ID, encoded)
	}
	if _, err := pipe.Exec(s.Ctx); err != nil {
		return err
	}
	return s.publishChange(collection, "*")
}

// Delete removes one document
func (s *RemoteStoreService) Delete(collection, id string) error {
	if err := s.Client.HDel(s.Ctx, collectionKey(collection), id).Err(); err != nil {
		return err
	}
	return s.publishChange(collection, id)
}

// ClaimProvisioning atomically claims the right to seed an empty store.
// Exactly one of several concurrent first launches wins the claim.
func (s *RemoteStoreService) ClaimProvisioning() (bool, error) {
	return s.Client.SetNX(s.Ctx, provisionSentinelKey, "1", 0).Result()
}

func (s *RemoteStoreService) publishChange(collection, id string) error {
	return s.Client.Publish(s.Ctx, collectionChannel(collection), id).Err()
}
