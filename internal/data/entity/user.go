package entity

type UserRole string

const (
	RoleUser         UserRole = "user"
	RoleAdmin        UserRole = "admin"
	RoleParkingOwner UserRole = "parking_owner"
)

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
