package domain

import "errors"

// Ошибки валидации игровых команд. Ни одна из них не меняет состояние.
var (
	ErrEmptyName       = errors.New("character name is empty")
	ErrUnknownClass    = errors.New("unknown character class")
	ErrPartyFull       = errors.New("party is full")
	ErrPartyEmpty      = errors.New("party is empty")
	ErrInvalidMove     = errors.New("target cell is not walkable")
	ErrNotFound        = errors.New("not found")
	ErrWrongPhase      = errors.New("action not allowed in current phase")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrEncounterOver   = errors.New("encounter is over")
	ErrNotEnoughMana   = errors.New("not enough mana")
	ErrActorFallen     = errors.New("actor has fallen")
	ErrTargetFallen    = errors.New("target has fallen")
	ErrNotEquippable   = errors.New("item cannot be equipped")
	ErrNotUsable       = errors.New("item cannot be used")
	ErrUnknownSpell    = errors.New("spell is not known by this class")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
