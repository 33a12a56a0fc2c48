package table

import "github.com/xaizek/dit/internal/item"

// ItemRow adapts an Item into a Row.
type ItemRow struct {
	Item *item.Item
}

func (r ItemRow) Field(key string) (string, error) {
	return r.Item.Value(key)
}
