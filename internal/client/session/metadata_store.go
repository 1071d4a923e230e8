package session

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/travelmate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/dmitrijs2005/travelmate/internal/cryptox"
	"github.com/dmitrijs2005/travelmate/internal/dbx"
)

// sealedPrefix marks a token value written by a store with a passphrase.
var sealedPrefix = []byte("sealed:v1:")

// MetadataStore persists session state in the local client_state table.
// With a passphrase the token is sealed at rest; a plain token written
// earlier is still readable so enabling the passphrase needs no migration.
type MetadataStore struct {
	db         *sql.DB
	passphrase []byte
}

func NewMetadataStore(db *sql.DB, passphrase string) *MetadataStore {
	s := &MetadataStore{db: db}
	if passphrase != "" {
		s.passphrase = []byte(passphrase)
	}
	return s
}

func (s *MetadataStore) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *MetadataStore) LoadToken(ctx context.Context) (string, error) {
	v, err := s.repo().Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}

	if !bytes.HasPrefix(v, sealedPrefix) {
		return string(v), nil
	}
	if s.passphrase == nil {
		return "", fmt.Errorf("stored token is sealed and no passphrase is configured: %w", common.ErrLocalDataNotAvailable)
	}
	plain, err := cryptox.Open(v[len(sealedPrefix):], s.passphrase)
	if err != nil {
		return "", fmt.Errorf("open stored token: %w", common.ErrLocalDataNotAvailable)
	}
	return string(plain), nil
}

func (s *MetadataStore) SaveToken(ctx context.Context, token string) error {
	value := []byte(token)
	if s.passphrase != nil {
		sealed, err := cryptox.Seal(value, s.passphrase)
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		value = append(append([]byte(nil), sealedPrefix...), sealed...)
	}
	return s.repo().Set(ctx, common.AccessTokenKey, value)
}

func (s *MetadataStore) DeleteToken(ctx context.Context) error {
	return s.repo().Delete(ctx, common.AccessTokenKey)
}

func (s *MetadataStore) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	return s.repo().Get(ctx, blobPrefix+key)
}

func (s *MetadataStore) SaveBlob(ctx context.Context, key string, value []byte) error {
	return s.repo().Set(ctx, blobPrefix+key, value)
}

// Wipe removes the token and all blobs in one transaction. Unrelated keys
// in client_state are kept.
func (s *MetadataStore) Wipe(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		all, err := repo.List(ctx)
		if err != nil {
			return err
		}

		keys := []string{}
		for k := range all {
			if isBlobKey(k) {
				keys = append(keys, k)
			}
		}
		return repo.Delete(ctx, common.AccessTokenKey, keys...)
	})
}
