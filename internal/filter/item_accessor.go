package filter

import "github.com/xaizek/dit/internal/item"

// ItemAccessor adapts an Item into an Accessor: ordinary keys resolve to
// their single effective value, and "_any" fans out to the current values
// of every populated field.
func ItemAccessor(it *item.Item) Accessor {
	return func(key string) ([]string, error) {
		if key == "_any" {
			names, err := it.ListRecordNames()
			if err != nil {
				return nil, err
			}
			values := make([]string, 0, len(names))
			for _, name := range names {
				v, err := it.Value(name)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			return values, nil
		}

		v, err := it.Value(key)
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}
}
