package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// JRISC lexes listing lines as printed by jdis.
var JRISC = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "JRISC",
		Aliases:   []string{"jrisc", "jaguar"},
		Filenames: []string{"*.jas"},
		EnsureNL:  true,
	},
	jriscRules,
))

func jriscRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			{Pattern: `^[0-9a-f]{8}:`, Type: chroma.CommentSpecial},
			{Pattern: `^(\w+)(:)$`, Type: chroma.ByGroups(chroma.NameLabel, chroma.Punctuation)},
			{Pattern: `[0-9a-f]{4}(?: {12}| [0-9a-f]{4} {7}| [0-9a-f]{4} [0-9a-f]{4} {2})`, Type: chroma.CommentSpecial},
			{Pattern: `dc\.w\b`, Type: chroma.KeywordPseudo, Mutator: chroma.Push("operands")},
			{Pattern: `[a-z][a-z0-9]*\b`, Type: chroma.Keyword, Mutator: chroma.Push("operands")},
			{Pattern: `;.*`, Type: chroma.Comment},
			{Pattern: `\n`, Type: chroma.Text},
			{Pattern: `[^\S\n]+`, Type: chroma.Text},
		},
		"operands": {
			{Pattern: `\n`, Type: chroma.Text, Mutator: chroma.Pop(1)},
			{Pattern: `;.*`, Type: chroma.Comment},
			{Pattern: `\b(r[12][0-9]|r3[01]|r[0-9])\b`, Type: chroma.NameVariable},
			{Pattern: `\b(PC|T|NE|EQ|CC|HI|CS|PL|MI)\b`, Type: chroma.NameBuiltin},
			{Pattern: `#?\$[0-9a-f]+`, Type: chroma.LiteralNumberHex},
			{Pattern: `#-?[0-9]+`, Type: chroma.LiteralNumber},
			{Pattern: `\*[+-][0-9]+`, Type: chroma.LiteralNumber},
			{Pattern: `\b[0-9]+\b`, Type: chroma.LiteralNumber},
			{Pattern: `loc_[0-9a-f]+`, Type: chroma.NameLabel},
			{Pattern: `\+`, Type: chroma.Operator},
			{Pattern: `[(),]`, Type: chroma.Punctuation},
			{Pattern: `[^\S\n]+`, Type: chroma.Text},
			{Pattern: `.`, Type: chroma.Text},
		},
	}
}
