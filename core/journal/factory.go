package journal

import (
	"fmt"

	"github.com/kilianp07/crewplan/core/factory"
)

var registry = factory.NewRegistry[Store]()

type fileConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func decodeFile(conf map[string]any) (fileConf, error) {
	c := fileConf{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 90}
	if err := factory.Decode(conf, &c); err != nil {
		return c, err
	}
	if c.Path == "" {
		return c, fmt.Errorf("journal: path required")
	}
	return c, nil
}

func init() {
	_ = registry.Register("nop", func(map[string]any) (Store, error) { return NopStore{}, nil })
	_ = registry.Register("jsonl", func(conf map[string]any) (Store, error) {
		c, err := decodeFile(conf)
		if err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	_ = registry.Register("rotating", func(conf map[string]any) (Store, error) {
		c, err := decodeFile(conf)
		if err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = registry.Register("sqlite", func(conf map[string]any) (Store, error) {
		c, err := decodeFile(conf)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
	registry.SetDefault("nop")
}

// Register adds a store factory identified by name.
func Register(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// New creates the Store described by cfg. An empty type yields a NopStore.
func New(cfg factory.ModuleConfig) (Store, error) {
	s, err := registry.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return s, nil
}

// Types lists the available store types.
func Types() []string { return registry.Types() }
