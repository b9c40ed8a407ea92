package config

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const outputTimeLayout = "20060102_150405"

// Placeholders supplies the values substituted into the output path pattern.
type Placeholders struct {
	Executable string
	Start      time.Time
	PID        int
	Counter    uint
}

// ExpandOutputPath substitutes %e (executable base name), %t (start time),
// %p (pid), %n (counter) and %% in pattern. Any other placeholder is copied
// through unchanged.
func ExpandOutputPath(pattern string, p Placeholders) string {
	var b strings.Builder
	b.Grow(len(pattern) + 32)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 == len(pattern) {
			b.WriteByte(c)
			continue
		}

		i++
		switch pattern[i] {
		case 'e':
			if p.Executable != "" {
				b.WriteString(filepath.Base(p.Executable))
			}
		case 't':
			b.WriteString(p.Start.Format(outputTimeLayout))
		case 'p':
			b.WriteString(strconv.Itoa(p.PID))
		case 'n':
			b.WriteString(strconv.FormatUint(uint64(p.Counter), 10))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(pattern[i])
		}
	}

	return b.String()
}

// OutputPath expands the configured output path pattern.
func (o *Options) OutputPath(p Placeholders) string {
	return ExpandOutputPath(o.OutputPathPattern, p)
}
