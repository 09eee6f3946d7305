package entity

// Role rol de un usuario dentro de la farmacia.
type Role string

const (
	RoleAdmin      Role = "admin"
	RolePharmacist Role = "pharmacist"
	RoleStaff      Role = "staff"
	RoleCustomer   Role = "customer"
)

// User usuario autenticado (panel administrativo o portal de clientes).
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
