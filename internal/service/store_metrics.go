package service

import (
	"context"
	"io"
	"time"

	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

// InstrumentObjectStore wraps a store so every round trip feeds the
// object_store collectors. With no metrics service the store is returned
// untouched.
func InstrumentObjectStore(store storage.ObjectStore, metrics *MetricsService) storage.ObjectStore {
	if metrics == nil {
		return store
	}
	return &instrumentedStore{store: store, metrics: metrics}
}

type instrumentedStore struct {
	store   storage.ObjectStore
	metrics *MetricsService
}

func (s *instrumentedStore) Store(ctx context.Context, name, mimeType string, data []byte) (*storage.StoredObject, error) {
	start := time.Now()
	object, err := s.store.Store(ctx, name, mimeType, data)
	s.metrics.ObserveStoreCall(time.Since(start), err)
	return object, err
}

func (s *instrumentedStore) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	data, err := s.store.ExportPDF(ctx, id)
	s.metrics.ObserveStoreCall(time.Since(start), err)
	return data, err
}

func (s *instrumentedStore) OpenRead(ctx context.Context, id string) (io.ReadCloser, error) {
	start := time.Now()
	reader, err := s.store.OpenRead(ctx, id)
	s.metrics.ObserveStoreCall(time.Since(start), err)
	return reader, err
}
