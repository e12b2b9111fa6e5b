package billing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLPlanSource loads the plan catalog from a YAML file.
//
// File format:
//
//	plans:
//	  - id: starter
//	    name: Starter
//	    monthly_price: {amount: 0, currency: USD}
//	    order_fee: {amount: 0, currency: USD}
//	    store_limit: 1
//	    product_limit: 50
//	    features: {dropshipping: false, custom_domain: false}
//	    public: true
type YAMLPlanSource struct {
	path string
}

// NewYAMLPlanSource creates a plan source reading from the given file path.
func NewYAMLPlanSource(path string) *YAMLPlanSource {
	return &YAMLPlanSource{path: path}
}

type planCatalogFile struct {
	Plans []Plan `yaml:"plans"`
}

// Load reads and parses the catalog file. Duplicate plan IDs are rejected
// rather than silently overwritten.
func (s *YAMLPlanSource) Load(ctx context.Context) (map[string]Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog %s: %w", s.path, err)
	}

	var file planCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse plan catalog %s: %w", s.path, err)
	}

	plans := make(map[string]Plan, len(file.Plans))
	for _, p := range file.Plans {
		if _, exists := plans[p.ID]; exists {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate plan ID %q", p.ID))
		}
		plans[p.ID] = p
	}

	return plans, nil
}

// StaticPlanSource serves a fixed catalog. Useful for tests and for
// applications that define plans in code.
type StaticPlanSource map[string]Plan

// Load returns the static catalog.
func (s StaticPlanSource) Load(ctx context.Context) (map[string]Plan, error) {
	return s, nil
}
