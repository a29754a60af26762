package testutil

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/dtroode/portfolio-server/internal/model"
)

// DocumentStore is an in-memory model.DocumentStore. Setting Err makes every
// write fail with it.
type DocumentStore struct {
	mu    sync.Mutex
	order map[string][]string
	docs  map[string]map[string]model.Document
	Err   error
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		order: make(map[string][]string),
		docs:  make(map[string]map[string]model.Document),
	}
}

func (s *DocumentStore) Get(_ context.Context, collection, id string) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return maps.Clone(doc), nil
}

func (s *DocumentStore) List(_ context.Context, collection string) ([]model.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StoredDocument, 0, len(s.order[collection]))
	for _, id := range s.order[collection] {
		out = append(out, model.StoredDocument{ID: id, Data: maps.Clone(s.docs[collection][id])})
	}
	return out, nil
}

func (s *DocumentStore) Set(_ context.Context, collection, id string, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]model.Document)
	}
	if _, ok := s.docs[collection][id]; !ok {
		s.order[collection] = append(s.order[collection], id)
	}
	s.docs[collection][id] = maps.Clone(doc)
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.docs[collection], id)
	for i, existing := range s.order[collection] {
		if existing == id {
			s.order[collection] = append(s.order[collection][:i:i], s.order[collection][i+1:]...)
			break
		}
	}
	return nil
}

// Uploader is an in-memory model.ImageUploader handing out
// https://img.test/<n>/<file name> URLs.
type Uploader struct {
	mu      sync.Mutex
	next    int
	Stored  map[string]model.Blob
	Deleted []string
	Err     error
}

func NewUploader() *Uploader {
	return &Uploader{Stored: make(map[string]model.Blob)}
}

func (u *Uploader) Upload(_ context.Context, blob model.Blob) (model.UploadedImage, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return model.UploadedImage{}, u.Err
	}
	u.next++
	id := fmt.Sprintf("%d/%s", u.next, blob.FileName)
	u.Stored[id] = blob
	return model.UploadedImage{URL: "https://img.test/" + id, ID: id}, nil
}

func (u *Uploader) Delete(_ context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.Stored, id)
	u.Deleted = append(u.Deleted, id)
	return nil
}
