package domain

// JWT role claims understood by the alert API.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)
