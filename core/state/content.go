package state

import (
	"fmt"

	"luminashare/fhe"
	"luminashare/native/content"
)

func contentKey(id uint64) []byte {
	return prefixedKey(contentRecordPrefix, idBytes(id))
}

func creatorIndexKey(creator [20]byte) []byte {
	return prefixedKey(contentCreatorIdxPrefix, creator[:])
}

type storedContent struct {
	ID          uint64
	Creator     [20]byte
	Title       string
	Locator     string
	ContentType uint8
	AccessType  uint8
	Price       fhe.Handle
	Earnings    fhe.Handle
	ViewCount   fhe.Handle
	TipCount    fhe.Handle
	CreatedAt   uint64
	Active      bool
}

func newStoredContent(c *content.Content) *storedContent {
	if c == nil {
		return nil
	}
	return &storedContent{
		ID:          c.ID,
		Creator:     c.Creator,
		Title:       c.Title,
		Locator:     c.Locator,
		ContentType: uint8(c.ContentType),
		AccessType:  uint8(c.AccessType),
		Price:       c.Price,
		Earnings:    c.Earnings,
		ViewCount:   c.ViewCount,
		TipCount:    c.TipCount,
		CreatedAt:   uint64(c.CreatedAt),
		Active:      c.Active,
	}
}

func (s *storedContent) toContent() (*content.Content, error) {
	if s == nil {
		return nil, fmt.Errorf("state: nil content record")
	}
	contentType := content.ContentType(s.ContentType)
	if !contentType.Valid() {
		return nil, fmt.Errorf("state: invalid stored content type: %d", s.ContentType)
	}
	accessType := content.AccessType(s.AccessType)
	if !accessType.Valid() {
		return nil, fmt.Errorf("state: invalid stored access type: %d", s.AccessType)
	}
	return &content.Content{
		ID:          s.ID,
		Creator:     s.Creator,
		Title:       s.Title,
		Locator:     s.Locator,
		ContentType: contentType,
		AccessType:  accessType,
		Price:       s.Price,
		Earnings:    s.Earnings,
		ViewCount:   s.ViewCount,
		TipCount:    s.TipCount,
		CreatedAt:   int64(s.CreatedAt),
		Active:      s.Active,
	}, nil
}

// ContentGet loads the content record for the given id.
func (m *Manager) ContentGet(id uint64) (*content.Content, bool, error) {
	var stored storedContent
	ok, err := m.loadRLP(contentKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	record, err := stored.toContent()
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// ContentPut persists the content record.
func (m *Manager) ContentPut(record *content.Content) error {
	if record == nil {
		return fmt.Errorf("state: nil content record")
	}
	return m.storeRLP(contentKey(record.ID), newStoredContent(record))
}

// ContentCount returns the number of registered content records.
func (m *Manager) ContentCount() (uint64, error) {
	return m.loadCounter(contentCountKey)
}

// ContentSetCount persists the content counter.
func (m *Manager) ContentSetCount(count uint64) error {
	return m.storeCounter(contentCountKey, count)
}

// CreatorContentIndex returns the creator's content ids in insertion order.
func (m *Manager) CreatorContentIndex(creator [20]byte) ([]uint64, error) {
	var ids []uint64
	if _, err := m.loadRLP(creatorIndexKey(creator), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CreatorContentAppend adds a content id to the creator's membership index.
func (m *Manager) CreatorContentAppend(creator [20]byte, id uint64) error {
	ids, err := m.CreatorContentIndex(creator)
	if err != nil {
		return err
	}
	return m.storeRLP(creatorIndexKey(creator), append(ids, id))
}
