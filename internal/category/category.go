// Package category keeps the registry of transaction category labels.
package category

import (
	"context"
	"strings"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
)

// Defaults is the category list seeded on first run.
var Defaults = []string{
	"Salário", "Bônus", "Freelance", "Investimento", "Presente",
	"Moradia", "Alimentação", "Transporte", "Saúde", "Lazer", "Educação", "Outros",
}

// Registry is an ordered list of unique category names. Names are compared
// exactly after trimming surrounding whitespace; there is no case folding.
// Removing a category does not touch transactions that use it.
type Registry struct {
	store service.Store
}

// New creates a registry over store.
func New(store service.Store) *Registry {
	return &Registry{store: store}
}

// List returns the categories in insertion order.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.store.View(ctx, func(rd service.Reader) error {
		var err error
		categories, err = storage.Load[string](ctx, rd, service.CollectionCategories)
		return err
	})
	return categories, err
}

// Add appends a category and returns the stored name.
func (r *Registry) Add(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.Validationf("category name is required")
	}

	err := r.store.Update(ctx, func(w service.Writer) error {
		categories, err := storage.Load[string](ctx, w, service.CollectionCategories)
		if err != nil {
			return err
		}
		for _, c := range categories {
			if c == name {
				return common.Duplicatef("category %q", name)
			}
		}
		categories = append(categories, name)
		return storage.Save(ctx, w, service.CollectionCategories, categories)
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes the category at a zero-based position and returns its name.
func (r *Registry) Remove(ctx context.Context, index int) (string, error) {
	var removed string
	err := r.store.Update(ctx, func(w service.Writer) error {
		categories, err := storage.Load[string](ctx, w, service.CollectionCategories)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(categories) {
			return common.Validationf("category index %d out of range [0, %d)", index, len(categories))
		}
		removed = categories[index]
		categories = append(categories[:index], categories[index+1:]...)
		return storage.Save(ctx, w, service.CollectionCategories, categories)
	})
	if err != nil {
		return "", err
	}
	return removed, nil
}

// SeedDefaults writes the default list when the registry has never been
// written. It reports whether anything was seeded.
func (r *Registry) SeedDefaults(ctx context.Context) (bool, error) {
	seeded := false
	err := r.store.Update(ctx, func(w service.Writer) error {
		var err error
		seeded, err = Seed(ctx, w)
		return err
	})
	return seeded, err
}

// Seed writes the default list inside an existing update when the
// collection is absent.
func Seed(ctx context.Context, w service.Writer) (bool, error) {
	exists, err := storage.Exists(ctx, w, service.CollectionCategories)
	if err != nil || exists {
		return false, err
	}
	return true, storage.Save(ctx, w, service.CollectionCategories, Defaults)
}
