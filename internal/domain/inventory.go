package domain

// Inventory - общий мешок партии, порядок добавления сохраняется.
type Inventory struct {
	Items []*Item `json:"items"`
}

// Add кладет предмет в конец.
func (inv *Inventory) Add(item *Item) {
	inv.Items = append(inv.Items, item)
}

// Find ищет предмет по ID.
func (inv *Inventory) Find(id string) (*Item, bool) {
	for _, it := range inv.Items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// Remove вынимает первый предмет с таким ID.
func (inv *Inventory) Remove(id string) (*Item, bool) {
	for i, it := range inv.Items {
		if it.ID == id {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return it, true
		}
	}
	return nil, false
}

// Clone - глубокая копия.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{Items: make([]*Item, len(inv.Items))}
	for i, it := range inv.Items {
		out.Items[i] = it.Clone()
	}
	return out
}
