package palette

import (
	"strings"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// Parse reads a comma-separated list of "#RRGGBB" tokens.
//
// Surrounding whitespace is trimmed from each token and empty tokens are
// ignored. Tokens that are not exactly '#' followed by six hex digits are
// dropped individually and returned in dropped; a malformed token never
// fails the whole parse. Order is preserved, including duplicates.
func Parse(text string) (pal imaging.Palette, dropped []string) {
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		c, err := imaging.ParseHex(tok)
		if err != nil {
			dropped = append(dropped, tok)
			continue
		}
		pal = append(pal, c)
	}
	return pal, dropped
}
