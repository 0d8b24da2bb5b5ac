package oauth

// Google normalizes the flat userinfo payload Google returns:
// email and name live at the top level.
type Google struct{}

func (Google) Provider() string { return "google" }

func (g Google) Normalize(attrs map[string]any) (Identity, error) {
	return Identity{
		Provider:    g.Provider(),
		Email:       stringAttr(attrs, "email"),
		DisplayName: stringAttr(attrs, "name"),
	}, nil
}
