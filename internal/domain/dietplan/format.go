// Package dietplan turns the model's free text into the plain layout shown
// to users: no markdown, one block per meal, blocks split by a dashed rule.
package dietplan

import (
	"regexp"
	"strings"
)

// Separator goes between meal blocks.
const Separator = "\n\n----------------------------\n\n"

// Meals lists the block headings in the order a day is laid out.
var Meals = []string{
	"Café da manhã",
	"Lanche da manhã",
	"Almoço",
	"Lanche da tarde",
	"Jantar",
	"Ceia",
}

var (
	markupRe     = regexp.MustCompile("[*#_`~>•\\-]")
	blankRunRe   = regexp.MustCompile(`\r?\n\s*\r?\n\s*\r?\n`)
	whitespaceRe = regexp.MustCompile(`\s{2,}`)
	mealRe       = regexp.MustCompile(`(?i)` + mealPattern())
)

func mealPattern() string {
	quoted := make([]string, len(Meals))
	for i, m := range Meals {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// Clean strips markdown characters and squeezes whitespace. Any run of two
// or more whitespace characters, newlines included, becomes one space.
func Clean(raw string) string {
	s := markupRe.ReplaceAllString(raw, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Blocks splits cleaned text in front of every meal heading. Text before
// the first heading (the plan title and client data) is its own block.
func Blocks(text string) []string {
	starts := []int{0}
	for _, loc := range mealRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			starts = append(starts, loc[0])
		}
	}
	starts = append(starts, len(text))

	out := make([]string, 0, len(starts)-1)
	for i := 0; i+1 < len(starts); i++ {
		if b := strings.TrimSpace(text[starts[i]:starts[i+1]]); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Format is Clean followed by Blocks joined with Separator. It returns ""
// when nothing printable is left.
func Format(raw string) string {
	return strings.Join(Blocks(Clean(raw)), Separator)
}
