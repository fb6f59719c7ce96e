package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/prodex/internal/db"
)

// SAdd adds members to the set at key.
func (s *Store) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return s.update(ctx, db.OpSAdd, func(txn *badger.Txn) error {
		for _, m := range members {
			if err := txn.Set(setMemberKey(key, m), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// SRem removes members from the set at key. Missing members are ignored.
func (s *Store) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return s.update(ctx, db.OpSRem, func(txn *badger.Txn) error {
		for _, m := range members {
			if err := txn.Delete(setMemberKey(key, m)); err != nil {
				return err
			}
		}
		return nil
	})
}

// SMembers returns the members of the set at key in byte order.
func (s *Store) SMembers(_ context.Context, key string) ([]string, error) {
	var out []string
	err := s.view(db.OpSMembers, func(txn *badger.Txn) error {
		prefix := setMemberPrefix(key)
		keys, err := memberKeysWithPrefix(txn, prefix)
		if err != nil {
			return err
		}
		out = make([]string, len(keys))
		for i, k := range keys {
			out[i] = string(k[len(prefix):])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SCard returns the number of members in the set at key.
func (s *Store) SCard(_ context.Context, key string) (int, error) {
	var n int
	err := s.view(db.OpSCard, func(txn *badger.Txn) error {
		var err error
		n, err = countPrefix(txn, setMemberPrefix(key))
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func memberKeys(txn *badger.Txn, key string) ([][]byte, error) {
	return memberKeysWithPrefix(txn, setMemberPrefix(key))
}

func memberKeysWithPrefix(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := txn.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, slices.Clone(iter.Item().Key()))
	}
	return keys, nil
}

func countPrefix(txn *badger.Txn, prefix []byte) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := txn.NewIterator(opts)
	defer iter.Close()

	n := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		n++
	}
	return n, nil
}
