// Package cards manages the payment cards of a workspace and resolves their
// billing closing days.
package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/spendsync/internal/model"
)

// FileName is the cards file relative to the workspace root.
const FileName = "cards.csv"

// Service provides in-memory lookup over the workspace cards.
type Service struct {
	cards []model.Card
	byID  map[string]model.Card
}

// NewService creates a Service from a slice of cards. Lookups are
// case-insensitive on the card id.
func NewService(cards []model.Card) *Service {
	byID := make(map[string]model.Card, len(cards))
	for _, c := range cards {
		byID[strings.ToLower(c.ID)] = c
	}
	return &Service{cards: cards, byID: byID}
}

// Load reads cards.csv from a workspace root. A missing file yields an
// empty Service.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, FileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewService(nil), nil
		}
		return nil, fmt.Errorf("opening cards: %w", err)
	}
	defer f.Close()

	cards, err := ReadCards(f)
	if err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}
	return NewService(cards), nil
}

// All returns all cards.
func (s *Service) All() []model.Card {
	return s.cards
}

// Get returns a card by id.
func (s *Service) Get(id string) (model.Card, bool) {
	c, ok := s.byID[strings.ToLower(id)]
	return c, ok
}

// ClosingDay returns the closing day of the card with the given id.
func (s *Service) ClosingDay(id string) (int, bool) {
	c, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	return c.ClosingDay, true
}

// Put adds a card, replacing any card with the same id.
func (s *Service) Put(c model.Card) {
	key := strings.ToLower(c.ID)
	if _, ok := s.byID[key]; ok {
		for i := range s.cards {
			if strings.EqualFold(s.cards[i].ID, c.ID) {
				s.cards[i] = c
			}
		}
	} else {
		s.cards = append(s.cards, c)
	}
	s.byID[key] = c
}

// Save writes the cards to cards.csv under root.
func (s *Service) Save(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating workspace dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, FileName))
	if err != nil {
		return fmt.Errorf("creating cards file: %w", err)
	}
	defer f.Close()

	if err := WriteCards(f, s.cards); err != nil {
		return fmt.Errorf("writing cards: %w", err)
	}
	return nil
}
