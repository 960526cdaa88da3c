package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const tokenPrefix = "EDXMLBLOCK"

// tokenNamespace seeds the name-based UUIDs used for placeholder tokens so
// tokens are stable across runs for the same document.
var tokenNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-edxml/placeholders"))

// Tokens are plain alphanumerics so no Markdown converter escapes them, and
// matching is case-insensitive so case-folding converters cannot break them.
var tokenPattern = regexp.MustCompile(`(?i)` + tokenPrefix + `[0-9a-f]{32}`)

// Placeholders is the side-table mapping opaque tokens to the fragments they
// protect while the canonical markup crosses the conversion boundary.
type Placeholders struct {
	tokens    []string
	fragments map[string]string
}

// NewPlaceholders returns an empty table.
func NewPlaceholders() *Placeholders {
	return &Placeholders{fragments: map[string]string{}}
}

// Protect registers fragment and returns the token standing in for it.
func (p *Placeholders) Protect(fragment string) string {
	seed := fmt.Sprintf("%d\x00%s", len(p.tokens), fragment)
	id := uuid.NewSHA1(tokenNamespace, []byte(seed))
	token := tokenPrefix + strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	p.tokens = append(p.tokens, token)
	p.fragments[token] = fragment
	return token
}

// Len reports the number of protected fragments.
func (p *Placeholders) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tokens)
}

// Tokens returns the registered tokens in registration order.
func (p *Placeholders) Tokens() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.tokens...)
}

// Fragment returns the fragment registered under token.
func (p *Placeholders) Fragment(token string) (string, bool) {
	if p == nil {
		return "", false
	}
	fragment, ok := p.fragments[strings.ToUpper(token)]
	return fragment, ok
}

// Restore substitutes every known token in text with its fragment. Fragments
// may embed tokens of nested blocks, so substitution repeats until no known
// token remains.
func (p *Placeholders) Restore(text string) string {
	if p.Len() == 0 {
		return text
	}
	for range p.tokens {
		replaced := false
		text = tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
			fragment, ok := p.fragments[strings.ToUpper(match)]
			if !ok {
				return match
			}
			replaced = true
			return fragment
		})
		if !replaced {
			break
		}
	}
	return text
}

// ContainsToken reports whether text still carries a placeholder token.
func ContainsToken(text string) bool {
	return tokenPattern.MatchString(text)
}
