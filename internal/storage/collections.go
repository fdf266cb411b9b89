package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/service"
)

// Load decodes a collection into a slice. An absent collection yields an
// empty, non-nil slice.
func Load[T any](ctx context.Context, r service.Reader, c service.Collection) ([]T, error) {
	data, err := r.Read(ctx, c)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, common.StorageError("decode "+string(c), fmt.Errorf("%w: %w", ErrMalformedDocument, err))
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save encodes items and replaces the collection.
func Save[T any](ctx context.Context, w service.Writer, c service.Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return common.StorageError("encode "+string(c), err)
	}
	return w.Write(ctx, c, data)
}

// Exists reports whether the collection has ever been written.
func Exists(ctx context.Context, r service.Reader, c service.Collection) (bool, error) {
	data, err := r.Read(ctx, c)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// LoadFlag decodes a boolean preference stored as JSON true/false or the
// strings "true"/"false". An absent preference is false.
func LoadFlag(ctx context.Context, r service.Reader, c service.Collection) (bool, error) {
	data, err := r.Read(ctx, c)
	if err != nil || len(data) == 0 {
		return false, err
	}

	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		return flag, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return false, common.StorageError("decode "+string(c), fmt.Errorf("%w: %w", ErrMalformedDocument, err))
	}
	return s == "true", nil
}

// SaveFlag stores a boolean preference.
func SaveFlag(ctx context.Context, w service.Writer, c service.Collection, flag bool) error {
	data, err := json.Marshal(flag)
	if err != nil {
		return common.StorageError("encode "+string(c), err)
	}
	return w.Write(ctx, c, data)
}
