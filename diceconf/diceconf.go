// Package diceconf turns textual die specifications into dice.
//
// A die is written as a comma-separated list of integer faces, optionally
// in brackets: "2,2,4,4,9,9" or "[1, 1, 6, 6, 8, 8]". Dice sets can also be
// loaded from YAML files:
//
//	name: grime
//	dice:
//	  - 2,2,4,4,9,9
//	  - 1,1,6,6,8,8
//	  - 3,3,5,5,7,7
package diceconf

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/fairdice/dice"
)

// Lexer splits a die specification into integers and punctuation.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// DieSpec is the grammar of a single die.
type DieSpec struct {
	Faces []int `parser:"'['? @Int ( ',' @Int )* ']'?"`
}

var parser = participle.MustBuild[DieSpec](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace"),
)

// Parse reads one die specification. Errors wrap [dice.ErrInvalidDie].
func Parse(spec string) (dice.Die, error) {
	ast, err := parser.ParseString("", spec)
	if err != nil {
		return dice.Die{}, fmt.Errorf("%w: %q: %w", dice.ErrInvalidDie, spec, err)
	}
	d, err := dice.New(ast.Faces...)
	if err != nil {
		return dice.Die{}, fmt.Errorf("%q: %w", spec, err)
	}
	return d, nil
}

// ParseAll parses each spec in order.
func ParseAll(specs []string) ([]dice.Die, error) {
	set := make([]dice.Die, 0, len(specs))
	for i, s := range specs {
		d, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("die %d: %w", i+1, err)
		}
		set = append(set, d)
	}
	return set, nil
}

// Set is a named collection of dice as stored in YAML.
type Set struct {
	Name string   `yaml:"name"`
	Dice []string `yaml:"dice"`
}

// Decode reads a YAML dice set from r.
func Decode(r io.Reader) (string, []dice.Die, error) {
	var s Set
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return "", nil, fmt.Errorf("decode dice set: %w", err)
	}
	set, err := ParseAll(s.Dice)
	if err != nil {
		return "", nil, fmt.Errorf("dice set %q: %w", s.Name, err)
	}
	return s.Name, set, nil
}

// LoadFile reads a YAML dice set from path.
func LoadFile(path string) (string, []dice.Die, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open dice set: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

var presets = map[string][]string{
	"standard": {
		"1,2,3,4,5,6",
		"1,2,3,4,5,6",
		"1,2,3,4,5,6",
		"1,2,3,4,5,6",
	},
	"nontransitive": {
		"2,2,4,4,9,9",
		"1,1,6,6,8,8",
		"3,3,5,5,7,7",
	},
}

// Preset returns a built-in dice set.
func Preset(name string) ([]dice.Die, error) {
	specs, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (have %s)", dice.ErrInvalidDie, name, strings.Join(Presets(), ", "))
	}
	return ParseAll(specs)
}

// Presets returns the built-in preset names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
