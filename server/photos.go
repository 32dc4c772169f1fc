package server

import (
	"bytes"
	"errors"
	"image/jpeg"
	"sync"

	"github.com/google/uuid"
)

const maxPhotoSize = 512 << 10

var (
	ErrPhotoTooLarge = errors.New("photo is larger than 512KiB")
	ErrNotJPEG       = errors.New("photo is not a jpeg")
	ErrPhotoNotFound = errors.New("photo not found")
)

// PhotoStore keeps uploaded player photos in memory under random tokens.
type PhotoStore struct {
	mu     sync.RWMutex
	photos map[string][]byte
}

func NewPhotoStore() *PhotoStore {
	return &PhotoStore{photos: map[string][]byte{}}
}

// Put validates a JPEG and stores it under a fresh token.
func (s *PhotoStore) Put(data []byte) (string, error) {
	if len(data) > maxPhotoSize {
		return "", ErrPhotoTooLarge
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrNotJPEG
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[token] = append([]byte(nil), data...)
	return token, nil
}

func (s *PhotoStore) Get(token string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.photos[token]
	if !ok {
		return nil, ErrPhotoNotFound
	}
	return data, nil
}
