// Package validate holds input validation shared by services and the HTTP
// binding layer.
package validate

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// emojiRune reports whether r sits in one of the Unicode emoji blocks.
func emojiRune(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x2600 && r <= 0x26FF: // misc symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	}
	return false
}

// modifierRune reports whether r only modifies a preceding emoji rune and
// does not add a visible glyph of its own.
func modifierRune(r rune) bool {
	switch {
	case r == 0xFE0F: // variation selector 16
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	}
	return false
}

// Emoji reports whether s renders as exactly one emoji glyph. Multi-rune
// sequences count as one glyph when the extra runes are joined in: a flag is
// exactly two regional indicators, and ZWJ sequences fold their joined runes
// into the preceding glyph.
func Emoji(s string) bool {
	const zwj = 0x200D
	base, regional, joined := 0, 0, 0
	prevZWJ := false
	for _, r := range s {
		if r == zwj {
			prevZWJ = true
			continue
		}
		switch {
		case modifierRune(r):
		case emojiRune(r):
			if r >= 0x1F1E6 && r <= 0x1F1FF {
				regional++
			}
			if prevZWJ {
				joined++
			}
			base++
		default:
			return false
		}
		prevZWJ = false
	}
	if base == 0 {
		return false
	}
	if regional > 0 {
		return regional == 2 && base == 2
	}
	return base-joined == 1
}

// RegisterEmojiValidator wires the emoji_glyph binding tag into gin's
// validator engine. Call once at startup.
func RegisterEmojiValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("emoji_glyph", func(fl validator.FieldLevel) bool {
			return Emoji(fl.Field().String())
		})
	}
}
