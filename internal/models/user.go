package models

// User is the identity of the authenticated caller, shaped after a SCIM user.
type User struct {
	ID          string         `json:"id,omitempty"`
	UserName    string         `json:"user_name,omitempty"`
	DisplayName string         `json:"display_name,omitempty"`
	Active      *bool          `json:"active,omitempty"`
	Emails      []ComplexValue `json:"emails,omitempty"`
	Name        *Name          `json:"name,omitempty"`
}

type ComplexValue struct {
	Display string `json:"display,omitempty"`
	Primary bool   `json:"primary,omitempty"`
	Type    string `json:"type,omitempty"`
	Value   string `json:"value,omitempty"`
}

type Name struct {
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}
