package models

// RoleType identifies the kind of authenticated account
type RoleType string

const (
	// RoleStudent is a registered lab user subject to the sit-in quota
	RoleStudent RoleType = "STUDENT"
	// RoleAdmin is a laboratory administrator
	RoleAdmin RoleType = "ADMIN"
)
