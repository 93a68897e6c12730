package domain

import "time"

// Role is the account role of a registered user
type Role string

const (
	RoleWarga Role = "warga" // Resident
	RoleRT    Role = "rt"    // Block (RT) head
	RoleRW    Role = "rw"    // Neighborhood unit (RW) head
	RoleAdmin Role = "admin" // Administrator
)

// Valid reports whether r is one of the enumerated roles
func (r Role) Valid() bool {
	switch r {
	case RoleWarga, RoleRT, RoleRW, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts raw input into a Role; empty input means resident
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return RoleWarga, true // Default role
	}
	r := Role(s)
	return r, r.Valid()
}

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`                                                               // Primary key
	NIK       string    `gorm:"column:nik;type:varchar(16);uniqueIndex;not null"`                         // Unique identity number
	Nama      string    `gorm:"column:nama;type:varchar(100);not null"`                                   // Display name
	Password  string    `gorm:"type:text;not null" json:"-"`                                              // Hashed password
	Role      Role      `gorm:"type:enum('warga','rt','rw','admin');default:warga;not null"`              // Account role
	Alamat    *string   `gorm:"column:alamat;type:text"`                                                  // Address, optional
	RT        *int      `gorm:"column:rt"`                                                                // Block number, optional
	RW        *int      `gorm:"column:rw"`                                                                // Neighborhood unit number, optional
	CreatedAt time.Time `gorm:"not null"`                                                                 // Creation timestamp
	UpdatedAt time.Time `gorm:"not null"`                                                                 // Modification timestamp
	Reports   []Report  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Reports filed by the user
}

// PublicUser is the outward-facing projection of a User. It has no password field.
type PublicUser struct {
	ID        uint      `json:"id"`
	NIK       string    `json:"nik"`
	Nama      string    `json:"nama"`
	Role      Role      `json:"role"`
	Alamat    *string   `json:"alamat"`
	RT        *int      `json:"rt"`
	RW        *int      `json:"rw"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns the projection of u that is safe to send to clients
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		NIK:       u.NIK,
		Nama:      u.Nama,
		Role:      u.Role,
		Alamat:    u.Alamat,
		RT:        u.RT,
		RW:        u.RW,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Profile is a user projection with their most recent reports embedded
type Profile struct {
	PublicUser
	Reports []ReportSummary `json:"reports"`
}
