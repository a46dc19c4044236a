// Package blob stores uploaded files in memory or in an S3-compatible bucket.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

const (
	DriverMemory = "memory"
	DriverS3     = "s3"
)

type entry struct {
	info ports.BlobInfo
	data []byte
}

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	objs map[string]entry
}

var _ ports.BlobStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objs: make(map[string]entry)}
}

func (s *MemoryStore) Driver() string { return DriverMemory }

func (s *MemoryStore) Put(_ context.Context, key, contentType string, r io.Reader) (ports.BlobInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return ports.BlobInfo{}, err
	}
	info := ports.BlobInfo{Key: key, Size: int64(len(b)), ContentType: contentType, LastModified: time.Now().UTC()}

	s.mu.Lock()
	s.objs[key] = entry{info: info, data: b}
	s.mu.Unlock()
	return info, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (ports.BlobInfo, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return ports.BlobInfo{}, nil, fmt.Errorf("blob %s: %w", key, ports.ErrBlobNotFound)
	}
	dataCopy := make([]byte, len(obj.data))
	copy(dataCopy, obj.data)
	return obj.info, io.NopCloser(bytes.NewReader(dataCopy)), nil
}

// Delete is a no-op for missing keys.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objs, key)
	s.mu.Unlock()
	return nil
}
