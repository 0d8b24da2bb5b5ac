package oauth

// Kakao normalizes Kakao's nested userinfo payload: the email sits under
// kakao_account and the nickname under kakao_account.profile.
type Kakao struct{}

func (Kakao) Provider() string { return "kakao" }

func (k Kakao) Normalize(attrs map[string]any) (Identity, error) {
	account := mapAttr(attrs, "kakao_account")
	profile := mapAttr(account, "profile")
	return Identity{
		Provider:    k.Provider(),
		Email:       stringAttr(account, "email"),
		DisplayName: stringAttr(profile, "nickname"),
	}, nil
}
