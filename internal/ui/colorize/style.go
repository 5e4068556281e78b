package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// JRISCDark is the listing color scheme.
var JRISCDark = styles.Register(chroma.MustNewStyle("jrisc-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#EBC2ED", // annotations

	// address and machine code columns
	chroma.CommentSpecial: "#4F4F4F",

	chroma.Keyword:       "#FFFFFF", // mnemonics
	chroma.KeywordPseudo: "#9A9A9A", // dc.w
	chroma.NameVariable:  "#7C9C9D", // registers
	chroma.NameBuiltin:   "#C586C0", // conditions and PC

	chroma.LiteralNumber:    "#FF5F87",
	chroma.LiteralNumberHex: "#FF5F87",

	chroma.NameLabel: "#FFD700",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",
}))
