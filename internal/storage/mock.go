package storage

import (
	"context"

	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of service.Store. View and Update invoke the
// callback with the Reader/Writer returned by the configured expectation,
// or return the configured error without calling it.
type MockStore struct {
	mock.Mock
}

// View implements service.Store.
func (m *MockStore) View(ctx context.Context, fn func(r service.Reader) error) error {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return err
	}
	return fn(args.Get(0).(service.Reader))
}

// Update implements service.Store.
func (m *MockStore) Update(ctx context.Context, fn func(w service.Writer) error) error {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return err
	}
	return fn(args.Get(0).(service.Writer))
}

// Clear implements service.Store.
func (m *MockStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Close implements service.Store.
func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

// MockWriter is a testify mock of service.Writer.
type MockWriter struct {
	mock.Mock
}

// Read implements service.Reader.
func (m *MockWriter) Read(ctx context.Context, c service.Collection) ([]byte, error) {
	args := m.Called(ctx, c)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Error(1)
}

// Write implements service.Writer.
func (m *MockWriter) Write(ctx context.Context, c service.Collection, data []byte) error {
	return m.Called(ctx, c, data).Error(0)
}

// Remove implements service.Writer.
func (m *MockWriter) Remove(ctx context.Context, c service.Collection) error {
	return m.Called(ctx, c).Error(0)
}

var (
	_ service.Store  = (*MockStore)(nil)
	_ service.Writer = (*MockWriter)(nil)
)
