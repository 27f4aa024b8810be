// Package factory is a small generic registry that builds pluggable modules,
// such as journal stores, from configuration. A module is named by a type
// string and configured by a map of raw settings that the factory decodes
// into its own typed struct.
//
//	reg := factory.NewRegistry[journal.Store]()
//	reg.Register("jsonl", func(conf map[string]any) (journal.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return journal.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "journal.jsonl"}})
package factory
