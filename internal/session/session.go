// Package session holds the console's client-side credential state: the
// bearer tokens issued at login, the account claim returned alongside them,
// and the durable storage that lets a session survive a process restart.
package session

import "encoding/json"

// Session is the credential snapshot for the authenticated operator.
// The Account blob is stored verbatim as the backend returned it; the
// console only ever reads the role name out of it.
type Session struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	Account      json.RawMessage `json:"account,omitempty"`
	LoggedIn     bool            `json:"loggedIn"`
}

// Role resolves the role claim from the stored account blob. A session
// without a resolvable role reads as "", which downgrades every capability
// check to a denial.
func (s Session) Role() string {
	if len(s.Account) == 0 {
		return ""
	}
	var claim struct {
		RoleName string `json:"roleName"`
	}
	if err := json.Unmarshal(s.Account, &claim); err != nil {
		return ""
	}
	return claim.RoleName
}

// HasToken reports whether an access token is present.
func (s Session) HasToken() bool {
	return s.AccessToken != ""
}

// IsZero reports whether the session carries no credential state at all.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && len(s.Account) == 0 && !s.LoggedIn
}
