package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/portfolio-server/internal/model"
)

// MockDocumentStore mocks the DocumentStore interface
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) (model.Document, error) {
	args := m.Called(ctx, collection, id)
	doc, _ := args.Get(0).(model.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentStore) List(ctx context.Context, collection string) ([]model.StoredDocument, error) {
	args := m.Called(ctx, collection)
	docs, _ := args.Get(0).([]model.StoredDocument)
	return docs, args.Error(1)
}

func (m *MockDocumentStore) Set(ctx context.Context, collection, id string, doc model.Document) error {
	args := m.Called(ctx, collection, id, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

// MockUploader mocks the ImageUploader interface
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, blob model.Blob) (model.UploadedImage, error) {
	args := m.Called(ctx, blob)
	return args.Get(0).(model.UploadedImage), args.Error(1)
}

func (m *MockUploader) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingSink collects raised alerts.
type recordingSink struct {
	mu     sync.Mutex
	alerts []model.Alert
}

func (r *recordingSink) Alert(_ context.Context, alert model.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
}

func (r *recordingSink) All() []model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Alert(nil), r.alerts...)
}

func blobNamed(name string) interface{} {
	return mock.MatchedBy(func(b model.Blob) bool { return b.FileName == name })
}
