package domain

import (
	"fmt"
	"strings"
)

// CharacterClass - класс персонажа.
type CharacterClass string

const (
	ClassWarrior CharacterClass = "warrior"
	ClassMage    CharacterClass = "mage"
)

// ParseClass конвертирует строку из JSON в CharacterClass.
func ParseClass(s string) (CharacterClass, error) {
	switch CharacterClass(strings.ToLower(strings.TrimSpace(s))) {
	case ClassWarrior:
		return ClassWarrior, nil
	case ClassMage:
		return ClassMage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

// Defender - всё, у чего есть защита (персонаж или враг).
type Defender interface {
	DefenseValue() int
}

// Stats - базовые характеристики.
type Stats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
}

// Equipment - слоты экипировки. Пустой слот = nil.
type Equipment struct {
	Weapon *Item `json:"weapon,omitempty"`
	Armor  *Item `json:"armor,omitempty"`
}

// Character - член партии.
type Character struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Class            CharacterClass `json:"class"`
	Level            int            `json:"level"`
	Health           int            `json:"health"`
	MaxHealth        int            `json:"maxHealth"`
	Mana             int            `json:"mana"`
	MaxMana          int            `json:"maxMana"`
	Experience       int            `json:"experience"`
	ExperienceToNext int            `json:"experienceToNext"`
	Stats            Stats          `json:"stats"`
	Equipment        Equipment      `json:"equipment"`
}

// IsAlive - персонаж может действовать.
func (c *Character) IsAlive() bool {
	return c.Health > 0
}

// DefenseValue учитывает надетую броню.
func (c *Character) DefenseValue() int {
	def := c.Stats.Defense
	if c.Equipment.Armor != nil && c.Equipment.Armor.Stats != nil {
		def += c.Equipment.Armor.Stats.Defense
	}
	return def
}

// WeaponAttack - бонус атаки от оружия (0, если его нет).
func (c *Character) WeaponAttack() int {
	if c.Equipment.Weapon != nil && c.Equipment.Weapon.Stats != nil {
		return c.Equipment.Weapon.Stats.Attack
	}
	return 0
}

// Clone делает глубокую копию (экипировка тоже копируется).
func (c *Character) Clone() *Character {
	cp := *c
	cp.Equipment = Equipment{
		Weapon: c.Equipment.Weapon.Clone(),
		Armor:  c.Equipment.Armor.Clone(),
	}
	return &cp
}

// Enemy - противник, стоящий в клетке подземелья.
type Enemy struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Attack    int      `json:"attack"`
	Defense   int      `json:"defense"`
	Position  Position `json:"position"`
	IsAlive   bool     `json:"isAlive"`
}

// DefenseValue - у врага защита плоская.
func (e *Enemy) DefenseValue() int {
	return e.Defense
}

// TakeDamage наносит урон. Возвращает true, если враг погиб именно сейчас.
func (e *Enemy) TakeDamage(amount int) bool {
	if !e.IsAlive {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.IsAlive = false
		return true
	}
	return false
}

// Clone возвращает независимую копию.
func (e *Enemy) Clone() *Enemy {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}
