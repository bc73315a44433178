package publication

import "errors"

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("publication not found")

// Collection is an immutable, validated, ordered set of publications.
// Build one with NewCollection and pass it to whatever composes the view.
type Collection struct {
	pubs  []Publication
	index map[string]int
}

// NewCollection validates pubs and returns a collection holding private
// copies of them. Any structural problem or duplicate id is reported as a
// *ValidationError listing every issue.
func NewCollection(pubs []Publication) (*Collection, error) {
	if issues := Check(pubs); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	c := &Collection{
		pubs:  make([]Publication, len(pubs)),
		index: make(map[string]int, len(pubs)),
	}
	for i, p := range pubs {
		c.pubs[i] = p.clone()
		c.index[p.ID] = i
	}
	return c, nil
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.pubs)
}

// All returns copies of every record in original order.
func (c *Collection) All() []Publication {
	out := make([]Publication, len(c.pubs))
	for i, p := range c.pubs {
		out[i] = p.clone()
	}
	return out
}

// Index returns the position of the record with the given id.
func (c *Collection) Index(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Get returns a copy of the record with the given id.
func (c *Collection) Get(id string) (Publication, error) {
	i, ok := c.index[id]
	if !ok {
		return Publication{}, ErrNotFound
	}
	return c.pubs[i].clone(), nil
}
