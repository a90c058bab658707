package kvdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meghashyamc/knowledgebase/config"
	"github.com/meghashyamc/knowledgebase/logger"
	bolt "go.etcd.io/bbolt"
)

type BoltDB struct {
	store  *bolt.DB
	logger logger.Logger
}

func New(logger logger.Logger, cfg *config.Config) (*BoltDB, error) {
	kvDBPath := cfg.GetKVDBPath()
	if err := os.MkdirAll(filepath.Dir(kvDBPath), 0755); err != nil {
		logger.Error("failed to create key-value database directory", "err", err.Error(), "path", kvDBPath)
		return nil, fmt.Errorf("failed to create key-value database directory: %w", err)
	}

	store, err := bolt.Open(kvDBPath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		logger.Error("failed to open database", "err", err.Error(), "path", kvDBPath)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	boltDB := &BoltDB{
		store:  store,
		logger: logger,
	}

	if err := boltDB.initBuckets(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return boltDB, nil
}

func (b *BoltDB) initBuckets() error {
	return b.store.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				b.logger.Error("failed to create bucket", "bucket", bucket, "err", err.Error())
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
}

func (b *BoltDB) Set(bucketName string, key string, value string) error {
	if err := b.validateKey(key); err != nil {
		return err
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			b.logger.Error("failed to set key", "bucket", bucketName, "key", key, "err", err.Error())
			return fmt.Errorf("failed to set key %s: %w", key, err)
		}

		return nil
	})
}

func (b *BoltDB) Get(bucketName string, key string) (string, error) {
	if err := b.validateKey(key); err != nil {
		return "", err
	}

	var value []byte
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}

		v := bucket.Get([]byte(key))
		if v == nil {
			return &NotFoundError{Bucket: bucketName, Key: key}
		}

		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.logger.Debug("key not found", "bucket", bucketName, "key", key)
		}
		return "", err
	}

	return string(value), nil
}

func (b *BoltDB) Delete(bucketName string, key string) error {
	if err := b.validateKey(key); err != nil {
		return err
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			b.logger.Error("failed to delete key", "bucket", bucketName, "key", key, "err", err.Error())
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}

		return nil
	})
}

func (b *BoltDB) GetAll(bucketName string) (map[string]string, error) {
	values := make(map[string]string)
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}

		return bucket.ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

func (b *BoltDB) Count(bucketName string) (int, error) {
	count := 0
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}
		count = bucket.Stats().KeyN
		return nil
	})

	return count, err
}

// Increment atomically adds one to a big-endian uint64 counter, creating it at 1.
func (b *BoltDB) Increment(bucketName string, key string) (uint64, error) {
	if err := b.validateKey(key); err != nil {
		return 0, err
	}

	var counter uint64
	err := b.store.Update(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}

		if v := bucket.Get([]byte(key)); len(v) == 8 {
			counter = binary.BigEndian.Uint64(v)
		}
		counter++

		encoded := make([]byte, 8)
		binary.BigEndian.PutUint64(encoded, counter)
		if err := bucket.Put([]byte(key), encoded); err != nil {
			b.logger.Error("failed to increment counter", "bucket", bucketName, "key", key, "err", err.Error())
			return fmt.Errorf("failed to increment counter %s: %w", key, err)
		}
		return nil
	})

	return counter, err
}

// GetCounter returns zero for counters that were never incremented.
func (b *BoltDB) GetCounter(bucketName string, key string) (uint64, error) {
	if err := b.validateKey(key); err != nil {
		return 0, err
	}

	var counter uint64
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket, err := b.bucket(tx, bucketName)
		if err != nil {
			return err
		}
		if v := bucket.Get([]byte(key)); len(v) == 8 {
			counter = binary.BigEndian.Uint64(v)
		}
		return nil
	})

	return counter, err
}

func (b *BoltDB) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

func (b *BoltDB) validateKey(key string) error {
	if key == "" {
		b.logger.Error("key cannot be empty", "key", key)
		return &InvalidKeyError{
			Key:    key,
			Reason: "key cannot be empty",
		}
	}
	return nil
}

func (b *BoltDB) bucket(tx *bolt.Tx, bucketName string) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(bucketName))
	if bucket == nil {
		b.logger.Error("bucket not found", "bucket", bucketName)
		return nil, fmt.Errorf("bucket not found: %s", bucketName)
	}
	return bucket, nil
}
