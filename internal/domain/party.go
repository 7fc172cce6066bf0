package domain

import "fmt"

// MaxPartySize - больше четырех персонажей в партии не бывает.
const MaxPartySize = 4

// Party - упорядоченный список персонажей и индекс активного.
type Party struct {
	Members     []*Character `json:"members"`
	ActiveIndex int          `json:"activeIndex"`
}

// Add добавляет персонажа в конец. Полная партия не меняется.
func (p *Party) Add(c *Character) error {
	if len(p.Members) >= MaxPartySize {
		return ErrPartyFull
	}
	p.Members = append(p.Members, c)
	return nil
}

// Remove убирает персонажа по ID, сохраняя порядок остальных.
func (p *Party) Remove(id string) error {
	for i, m := range p.Members {
		if m.ID == id {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			// Активным остается тот же персонаж
			if i < p.ActiveIndex {
				p.ActiveIndex--
			}
			if p.ActiveIndex >= len(p.Members) {
				p.ActiveIndex = 0
			}
			return nil
		}
	}
	return fmt.Errorf("character %s: %w", id, ErrNotFound)
}

// Find ищет персонажа по ID.
func (p *Party) Find(id string) (*Character, bool) {
	for _, m := range p.Members {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// SetActive делает персонажа активным.
func (p *Party) SetActive(id string) error {
	for i, m := range p.Members {
		if m.ID == id {
			p.ActiveIndex = i
			return nil
		}
	}
	return fmt.Errorf("character %s: %w", id, ErrNotFound)
}

// Active возвращает активного персонажа (nil для пустой партии).
func (p *Party) Active() *Character {
	if p.ActiveIndex < 0 || p.ActiveIndex >= len(p.Members) {
		return nil
	}
	return p.Members[p.ActiveIndex]
}

// AllFallen - у всех здоровье 0. Пустая партия считается павшей.
func (p *Party) AllFallen() bool {
	for _, m := range p.Members {
		if m.IsAlive() {
			return false
		}
	}
	return true
}

// Size - количество персонажей.
func (p *Party) Size() int {
	return len(p.Members)
}

// Clone - глубокая копия.
func (p *Party) Clone() *Party {
	out := &Party{ActiveIndex: p.ActiveIndex, Members: make([]*Character, len(p.Members))}
	for i, m := range p.Members {
		out.Members[i] = m.Clone()
	}
	return out
}
