package csrf

import "github.com/google/uuid"

// Header names carried on every credential request.
const (
	HeaderToken = "x-csrf-token"
	HeaderName  = "x-csrf-name"
)

// Pair is a double-submit token pair. Name is itself a random identifier used
// to namespace the cookie; Token is the secret compared against the header.
type Pair struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// NewPair generates a fresh random pair.
func NewPair() Pair {
	return Pair{
		Token: uuid.NewString(),
		Name:  uuid.NewString(),
	}
}

// CookieName returns the cookie holding the name half of a pair.
func CookieName(name string) string {
	return "sb-" + name + "-csrf"
}

// Valid reports whether both halves are present.
func (p Pair) Valid() bool {
	return p.Token != "" && p.Name != ""
}
