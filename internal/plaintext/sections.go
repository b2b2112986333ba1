package plaintext

import (
	"strconv"
	"strings"
)

// counters holds one running number per open heading level; counters[0]
// belongs to level 1.
type counters []int

// enter sizes the stack for a heading at level, dropping deeper counters and
// starting new depths at 1.
func (c *counters) enter(level int) {
	c.truncate(level)
	for len(*c) < level {
		*c = append(*c, 1)
	}
}

// leave closes a heading at level and advances the counter of the next
// sibling heading.
func (c *counters) leave(level int) {
	c.truncate(level)
	if n := len(*c); n > 0 {
		(*c)[n-1]++
	}
}

func (c *counters) truncate(level int) {
	if level < 0 {
		level = 0
	}
	if len(*c) > level {
		*c = (*c)[:level]
	}
}

// prefix formats the stack as "1.2. ", or "" when no heading is open.
func (c counters) prefix() string {
	if len(c) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range c {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte('.')
	}
	b.WriteByte(' ')
	return b.String()
}
