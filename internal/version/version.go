package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags "-X crawler-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch - нулевой номер сборки.
var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build - метаданные сборки для /version.
type Build struct {
	Number     int    `json:"build"`
	Date       string `json:"date,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// buildNumber - число суток от buildEpoch до даты сборки.
func buildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}
	return int(t.Sub(buildEpoch) / (24 * time.Hour)), nil
}

// Info возвращает метаданные текущего бинарника.
func Info() Build {
	b := Build{
		Date:   BuildDate,
		Commit: BuildCommit,
		Branch: BuildBranch,
		CI:     BuildCI,
	}
	n, err := buildNumber(BuildDate)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.Number = n
	b.Calculated = true
	return b
}

func (b Build) String() string {
	if !b.Calculated {
		return fmt.Sprintf("build unknown (%s)", b.Error)
	}
	return fmt.Sprintf("build %d (%s) commit[%s] branch[%s] ci[%s]",
		b.Number, b.Date,
		orDefault(b.Commit, "unknown"),
		orDefault(b.Branch, "unknown"),
		orDefault(b.CI, "local"),
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
