package services

import "storefront/models"

type Operation string

const (
	CatalogRead     Operation = "catalog:read"
	CatalogWrite    Operation = "catalog:write"
	CartCreate      Operation = "cart:create"
	CartRead        Operation = "cart:read"
	CartItemWrite   Operation = "cart_item:write"
	NotifyCustomers Operation = "notifications:send"
	Playground      Operation = "playground"
	Profile         Operation = "profile"
)

type privilege int

const (
	anyone privilege = iota
	authenticated
	staff
)

var policy = map[Operation]privilege{
	CatalogRead:     anyone,
	CatalogWrite:    staff,
	CartCreate:      anyone,
	CartRead:        anyone,
	CartItemWrite:   anyone,
	NotifyCustomers: staff,
	Playground:      anyone,
	Profile:         authenticated,
}

// Authorize decides op for the caller. A nil identity is an anonymous caller.
// Unknown operations require staff.
func Authorize(id *models.Identity, op Operation) error {
	required, ok := policy[op]
	if !ok {
		required = staff
	}
	if required == anyone {
		return nil
	}
	if id == nil {
		return models.Unauthorized("Authentication credentials were not provided")
	}
	if required == staff && !id.IsStaff() {
		return models.Forbidden("You do not have permission to perform this action")
	}
	return nil
}
