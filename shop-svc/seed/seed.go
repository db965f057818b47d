// Package seed loads the starter menu and payment methods shipped with the
// service and writes them into an empty database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"sivik-storefront/shop-svc/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultFile []byte

type PaymentMethod struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Enabled     bool   `yaml:"enabled"`
}

type MenuItem struct {
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	Calories    *int    `yaml:"calories"`
	Description string  `yaml:"description"`
	ImageURL    string  `yaml:"image_url"`
	Disabled    bool    `yaml:"disabled"`
}

type File struct {
	PaymentMethods []PaymentMethod `yaml:"payment_methods"`
	Menu           []MenuItem      `yaml:"menu"`
}

func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	for i, item := range f.Menu {
		if item.Name == "" || item.Category == "" {
			return File{}, fmt.Errorf("menu entry %d: name and category are required", i)
		}
		if item.Price < 0 {
			return File{}, fmt.Errorf("menu entry %q: negative price", item.Name)
		}
	}
	return f, nil
}

func Default() (File, error) {
	return Load(bytes.NewReader(defaultFile))
}

type Store interface {
	CountMenuItems(ctx context.Context) (int, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	SeedPaymentMethod(ctx context.Context, m domain.PaymentMethod, sortOrder int) error
}

type Result struct {
	PaymentMethods int
	MenuItems      int
}

// Apply always upserts the payment methods but only writes menu items into
// an empty menu, so re-running it never duplicates dishes.
func Apply(ctx context.Context, store Store, f File) (Result, error) {
	var res Result
	for i, pm := range f.PaymentMethods {
		m := domain.PaymentMethod{Name: pm.Name, DisplayName: pm.DisplayName, IsEnabled: pm.Enabled}
		if err := store.SeedPaymentMethod(ctx, m, i); err != nil {
			return res, fmt.Errorf("seed payment method %s: %w", pm.Name, err)
		}
		res.PaymentMethods++
	}

	n, err := store.CountMenuItems(ctx)
	if err != nil {
		return res, fmt.Errorf("count menu items: %w", err)
	}
	if n > 0 {
		return res, nil
	}

	for _, it := range f.Menu {
		item := &domain.MenuItem{
			Name:        it.Name,
			Description: it.Description,
			ImageURL:    it.ImageURL,
			Calories:    it.Calories,
			Category:    it.Category,
			Price:       it.Price,
			IsEnabled:   !it.Disabled,
		}
		if err := store.CreateMenuItem(ctx, item); err != nil {
			return res, fmt.Errorf("seed menu item %s: %w", it.Name, err)
		}
		res.MenuItems++
	}
	return res, nil
}
