package domain

// TakeDamage наносит урон персонажу. Здоровье не опускается ниже нуля.
// Возвращает true, если персонаж пал от этого удара.
func (c *Character) TakeDamage(amount int) bool {
	if !c.IsAlive() {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	c.Health -= amount
	if c.Health <= 0 {
		c.Health = 0
		return true
	}
	return false
}

// Heal лечит персонажа, не выше максимума. Возвращает фактически
// восстановленное значение.
func (c *Character) Heal(amount int) int {
	if !c.IsAlive() || amount <= 0 {
		return 0 // Павших не поднимаем
	}
	before := c.Health
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	return c.Health - before
}

// HasMana проверяет, хватает ли маны.
func (c *Character) HasMana(cost int) bool {
	return c.Mana >= cost
}

// SpendMana тратит ману. Возвращает false, если не хватило.
func (c *Character) SpendMana(cost int) bool {
	if c.Mana < cost {
		return false
	}
	c.Mana -= cost
	return true
}

// RestoreMana восстанавливает ману, не выше максимума.
func (c *Character) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.Mana
	c.Mana += amount
	if c.Mana > c.MaxMana {
		c.Mana = c.MaxMana
	}
	return c.Mana - before
}
