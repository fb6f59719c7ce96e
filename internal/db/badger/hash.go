package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/prodex/internal/db"
)

// HSet merges fields into the hash at key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.update(ctx, db.OpHSet, func(txn *badger.Txn) error {
		return mergeHash(txn, key, fields)
	})
}

// HSetNX sets field only when it does not exist yet. Returns true if set.
func (s *Store) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	var set bool
	err := s.update(ctx, db.OpHSetNX, func(txn *badger.Txn) error {
		set = false
		m, err := readHash(txn, key)
		if err != nil {
			return err
		}
		if _, ok := m[field]; ok {
			return nil
		}
		m[field] = value
		set = true
		return writeHash(txn, key, m)
	})
	if err != nil {
		return false, err
	}
	return set, nil
}

// HSetMulti stores multiple hashes in one transaction.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.update(ctx, db.OpHSet, func(txn *badger.Txn) error {
		for _, item := range items {
			if len(item.Fields) == 0 {
				continue
			}
			if err := mergeHash(txn, item.Key, item.Fields); err != nil {
				return fmt.Errorf("key %s: %w", item.Key, err)
			}
		}
		return nil
	})
}

// HGetAll returns all fields of a hash; empty for a missing key.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	var out map[string]string
	err := s.view(db.OpHGetAll, func(txn *badger.Txn) error {
		var err error
		out, err = readHash(txn, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HGetAllMulti fetches multiple hashes from one read snapshot.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([]map[string]string, len(keys))
	err := s.view(db.OpHGetAll, func(txn *badger.Txn) error {
		for i, key := range keys {
			m, err := readHash(txn, key)
			if err != nil {
				return fmt.Errorf("key %s: %w", key, err)
			}
			out[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Del removes the hash and set stored at key. Returns true if either existed.
func (s *Store) Del(ctx context.Context, key string) (bool, error) {
	var existed bool
	err := s.update(ctx, db.OpDel, func(txn *badger.Txn) error {
		existed = false
		_, err := txn.Get(hashKey(key))
		switch {
		case err == nil:
			existed = true
			if err := txn.Delete(hashKey(key)); err != nil {
				return err
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		members, err := memberKeys(txn, key)
		if err != nil {
			return err
		}
		for _, k := range members {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		existed = existed || len(members) > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

// Exists reports whether a hash or a non-empty set is stored at key.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	var found bool
	err := s.view(db.OpExists, func(txn *badger.Txn) error {
		_, err := txn.Get(hashKey(key))
		if err == nil {
			found = true
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		n, err := countPrefix(txn, setMemberPrefix(key))
		found = n > 0
		return err
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func readHash(txn *badger.Txn, key string) (map[string]string, error) {
	m := make(map[string]string)
	item, err := txn.Get(hashKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func writeHash(txn *badger.Txn, key string, m map[string]string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return txn.Set(hashKey(key), raw)
}

func mergeHash(txn *badger.Txn, key string, fields map[string]string) error {
	m, err := readHash(txn, key)
	if err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	return writeHash(txn, key, m)
}
