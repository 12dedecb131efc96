package model

// Account is one entry in the external account registry. The resolver
// matches free-text references against Name first and the remaining fields
// as a secondary corpus.
type Account struct {
	ID          string
	Name        string
	Description string
	Institution string
	LastFour    string // last-4 account number fragment, e.g. "1234"
}

// Category is one entry in the external category registry.
type Category struct {
	ID   string
	Name string
}

// CategoryRef is a tagged category reference: either resolved to a registry
// ID or carried through as the raw source text. The two cases are never
// conflated; an empty ref has neither set.
type CategoryRef struct {
	ID  string // set when resolved against the registry
	Raw string // set when the source text matched nothing
}

// ResolvedCategory returns a ref pointing at a registry category.
func ResolvedCategory(id string) CategoryRef { return CategoryRef{ID: id} }

// UnresolvedCategory returns a ref carrying raw source text.
func UnresolvedCategory(raw string) CategoryRef { return CategoryRef{Raw: raw} }

// Resolved reports whether the ref points at a registry category.
func (c CategoryRef) Resolved() bool { return c.ID != "" }

// IsZero reports whether no category information is present at all.
func (c CategoryRef) IsZero() bool { return c.ID == "" && c.Raw == "" }

// Label returns the registry ID when resolved, else the raw text.
func (c CategoryRef) Label() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Raw
}
