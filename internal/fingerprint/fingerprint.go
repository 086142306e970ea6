// Package fingerprint derives deterministic cache keys for processed assets.
//
// Every key is a pure function of the inputs that influence the emitted
// bytes: identifiers, processing flags, file modification times or literal
// content. Keys carry a short human-readable category prefix (css_, js_,
// scss_, svg_sprite_, ...) outside the hashed portion so cache contents stay
// debuggable. Two calls with the same inputs always return the same key;
// any flag or content change that alters the output produces a new key, so
// no external invalidation call is ever needed for file-backed assets.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Viewport is the coarse device class used to scope critical-asset variants.
type Viewport string

const (
	ViewportMobile  Viewport = "mobile"
	ViewportDesktop Viewport = "desktop"
)

// keySeparator joins identifier and flag tokens before hashing. The NUL
// byte cannot occur in identifiers or flag tokens, so concatenation stays
// unambiguous ("ab"+"c" never collides with "a"+"bc").
const keySeparator = "\x00"

// hashTokens joins tokens with the separator and returns the hex sha256.
func hashTokens(tokens ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(tokens, keySeparator)))
	return hex.EncodeToString(sum[:])
}

// CSSKey returns the cache key for a CSS asset identified by name.
// Minified and raw variants never share a key.
func CSSKey(identifier string, minified bool) string {
	return "css_" + hashTokens(identifier, flagToken("min", minified))
}

// JSKey returns the cache key for a JS asset identified by name.
func JSKey(identifier string, minified bool) string {
	return "js_" + hashTokens(identifier, flagToken("min", minified))
}

// SCSSKey returns the cache key for a compiled SCSS asset. File-backed
// sources pass their modification time so the key changes whenever the file
// does. Inline sources pass a nil mtime and the literal content instead;
// any content edit changes the key. The two variants are always distinct.
func SCSSKey(identifier string, mtime *time.Time, content []byte) string {
	if mtime != nil {
		return "scss_" + hashTokens(identifier, "mtime", strconv.FormatInt(mtime.Unix(), 10))
	}
	contentSum := sha256.Sum256(content)
	return "scss_" + hashTokens(identifier, "inline", hex.EncodeToString(contentSum[:]))
}

// SpriteKey returns the cache key for an assembled sprite. The symbol id
// list is sorted lexicographically before hashing, so the key does not
// depend on the order extensions happened to register in.
func SpriteKey(symbolIDs []string) string {
	sorted := make([]string, len(symbolIDs))
	copy(sorted, symbolIDs)
	sort.Strings(sorted)
	return "svg_sprite_" + hashTokens(sorted...)
}

// CriticalCSSKey returns the cache key for the critical CSS of a page and
// viewport. Nothing else enters the key: critical-asset entries are
// invalidated only by an explicit extraction rebuild, never by the key.
func CriticalCSSKey(pageID int, viewport Viewport) string {
	return "critical_css_" + hashTokens(strconv.Itoa(pageID), string(viewport))
}

// CriticalJSKey returns the cache key for the critical JS of a page and
// viewport.
func CriticalJSKey(pageID int, viewport Viewport) string {
	return "critical_js_" + hashTokens(strconv.Itoa(pageID), string(viewport))
}

func flagToken(name string, on bool) string {
	if on {
		return name + "=1"
	}
	return name + "=0"
}
