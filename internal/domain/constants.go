package domain

// Стартовые значения нового персонажа
const (
	StartLevel            = 1
	StartHealth           = 100
	StartMana             = 50
	StartExperienceToNext = 100
)

// Прирост при повышении уровня
const (
	LevelUpHealth      = 20
	LevelUpManaMage    = 15
	LevelUpManaDefault = 5
	LevelUpPrimaryStat = 3
	LevelUpOtherStat   = 1
	LevelUpDefense     = 2
	LevelUpSpeed       = 1
	ExperiencePerLevel = 100
)

// Типы записей игрового лога
const (
	LogInfo   = "INFO"
	LogCombat = "COMBAT"
	LogError  = "ERROR"
)
