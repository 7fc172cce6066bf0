package api

import (
	"errors"
	"strings"
)

// MaxNameLength - ограничение на имена персонажей и слотов.
const MaxNameLength = 64

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

var moveDirections = map[string]bool{
	"forward":      true,
	"backward":     true,
	"strafe_left":  true,
	"strafe_right": true,
	"turn_left":    true,
	"turn_right":   true,
}

func (p CreateCharacterPayload) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > MaxNameLength {
		return errors.New("name is too long")
	}
	if p.Class == "" {
		return errors.New("class is required")
	}
	return nil
}

func (p CharacterPayload) Validate() error {
	if p.CharacterID == "" {
		return errors.New("characterId is required")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if !moveDirections[strings.ToLower(p.Direction)] {
		return errors.New("unknown direction")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.ItemID == "" {
		return errors.New("itemId is required")
	}
	return nil
}

func (p SpellPayload) Validate() error {
	if p.SpellID == "" {
		return errors.New("spellId is required")
	}
	return nil
}

func (p SavePayload) Validate() error {
	if len(strings.TrimSpace(p.SaveName)) > MaxNameLength {
		return errors.New("saveName is too long")
	}
	if p.SaveID < 0 {
		return errors.New("saveId must be positive")
	}
	if p.SaveID == 0 && strings.TrimSpace(p.SaveName) == "" {
		return errors.New("saveName is required for a new save")
	}
	return nil
}

func (p SaveIDPayload) Validate() error {
	if p.SaveID <= 0 {
		return errors.New("saveId must be positive")
	}
	return nil
}
