package domain

type Role string

const (
	RoleManager  Role = "manager"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
)

// User is a chat participant identified by phone number.
type User struct {
	Phone    string
	Name     string
	Role     Role
	Company  string
	Location string
}
