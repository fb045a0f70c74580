package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	docKeyPrefix        = "doc:" // document body: doc:{path}
	collectionKeyPrefix = "col:" // set of ids in a collection: col:{collection}
)

// Redis stores each document as a JSON string and keeps a set of ids per collection.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed store. prefix namespaces every key; it may be empty.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) docKey(docPath string) string {
	return r.prefix + docKeyPrefix + docPath
}

func (r *Redis) collectionKey(collection string) string {
	return r.prefix + collectionKeyPrefix + collection
}

func (r *Redis) Get(ctx context.Context, docPath string) (Document, error) {
	_, id, err := Split(docPath)
	if err != nil {
		return Document{}, err
	}

	raw, err := r.client.Get(ctx, r.docKey(docPath)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("redis get %s: %w", docPath, err)
	}

	data, err := decode(raw)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: data}, nil
}

func (r *Redis) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	ids, err := r.client.SMembers(ctx, r.collectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}
	out := make([]Document, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(collection + "/" + id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// index entry without a body: deleted between SMEMBERS and MGET
			continue
		}
		data, err := decode([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: ids[i], Data: data})
	}
	return out, nil
}

func (r *Redis) Create(ctx context.Context, docPath string, data map[string]any) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.docKey(docPath), body, 0).Result()
	if err != nil {
		return fmt.Errorf("redis create %s: %w", docPath, err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	if err := r.client.SAdd(ctx, r.collectionKey(collection), id).Err(); err != nil {
		return fmt.Errorf("redis index %s: %w", docPath, err)
	}
	return nil
}

func (r *Redis) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := NewID()
	if err := r.Create(ctx, collection+"/"+id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Redis) Set(ctx context.Context, docPath string, data map[string]any) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.docKey(docPath), body, 0)
	pipe.SAdd(ctx, r.collectionKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %s: %w", docPath, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, docPath string) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.docKey(docPath))
	pipe.SRem(ctx, r.collectionKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete %s: %w", docPath, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
