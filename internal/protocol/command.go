package protocol

import "strings"

// Param is one key=value pair of a command.
type Param struct {
	Key   string
	Value string
}

// Command is an upstream verb with ordered parameters, serialized as
// Verb:Key1=Val1|Key2=Val2. Parameter order is significant to the upstream.
// Commands are immutable: With and WithOptional return copies.
type Command struct {
	verb   string
	params []Param
}

func NewCommand(verb string) Command {
	return Command{verb: verb}
}

func (c Command) Verb() string {
	return c.verb
}

func (c Command) Params() []Param {
	out := make([]Param, len(c.params))
	copy(out, c.params)
	return out
}

// Get returns the value of the first parameter named key.
func (c Command) Get(key string) (string, bool) {
	for _, p := range c.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (c Command) With(key, value string) Command {
	params := make([]Param, len(c.params), len(c.params)+1)
	copy(params, c.params)
	return Command{
		verb:   c.verb,
		params: append(params, Param{Key: key, Value: value}),
	}
}

// WithOptional appends the parameter only when value is not blank. Omitting
// a parameter changes upstream behaviour (no ssd means a catalog-wide query).
func (c Command) WithOptional(key, value string) Command {
	if strings.TrimSpace(value) == "" {
		return c
	}
	return c.With(key, value)
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.verb)
	b.WriteByte(':')
	for i, p := range c.params {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}
