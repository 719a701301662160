package kvstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/fystack/megasena-analyzer/pkg/infra"
)

const StoreName = "badger"

type BadgerStore struct {
	db     *badger.DB
	prefix string
	codec  infra.Codec
}

// NewBadgerStore opens (or creates) a badger database at path. An empty path
// opens an in-memory database.
func NewBadgerStore(path string, prefix string, codec infra.Codec) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	if codec == nil {
		codec = infra.JSON
	}
	return &BadgerStore{
		db:     db,
		prefix: prefix,
		codec:  codec,
	}, nil
}

func (b *BadgerStore) fullKey(k string) (string, error) {
	if k == "" {
		return "", ErrKeyEmpty
	}
	if b.prefix != "" {
		return b.prefix + "/" + k, nil
	}
	return k, nil
}

func (b *BadgerStore) GetName() string {
	return StoreName
}

func (b *BadgerStore) read(k string) ([]byte, error) {
	var valCopy []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	return valCopy, err
}

func (b *BadgerStore) Get(key string) (string, error) {
	k, err := b.fullKey(key)
	if err != nil {
		return "", err
	}
	val, err := b.read(k)
	return string(val), err
}

func (b *BadgerStore) Set(key string, value string) error {
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(k), []byte(value))
	})
}

func (b *BadgerStore) SetAny(key string, value any) error {
	if err := checkKeyAndValue(key, value); err != nil {
		return err
	}
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}

	data, err := b.codec.Marshal(value)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(k), data)
	})
}

// GetAny decodes the stored value into value. A missing key reports
// found=false without an error.
func (b *BadgerStore) GetAny(key string, value any) (bool, error) {
	if err := checkKeyAndValue(key, value); err != nil {
		return false, err
	}
	k, err := b.fullKey(key)
	if err != nil {
		return false, err
	}

	val, err := b.read(k)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, b.codec.Unmarshal(val, value)
}

func (b *BadgerStore) List(prefix string) ([]*infra.KVPair, error) {
	if prefix == "" {
		return nil, fmt.Errorf("prefix is empty")
	}
	searchPrefix := prefix
	if b.prefix != "" {
		searchPrefix = b.prefix + "/" + prefix
	}

	result := make([]*infra.KVPair, 0)
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(searchPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result = append(result, &infra.KVPair{
				Key:   string(item.KeyCopy(nil)),
				Value: v,
			})
		}
		return nil
	})
	return result, err
}

func (b *BadgerStore) Delete(key string) error {
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(k))
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
