package storage

import (
	"strconv"
	"strings"
)

// Dialect - различия SQL между драйверами. Запросы пишутся с плейсхолдером "?".
type Dialect struct {
	Name   string
	Driver string
	Schema string

	// NumberedArgs - драйвер ждет $1, $2... вместо "?"
	NumberedArgs bool
}

// Rebind переписывает плейсхолдеры под диалект.
func (d Dialect) Rebind(query string) string {
	if !d.NumberedArgs {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
