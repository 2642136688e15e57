package model

import "time"

// User represents a row in the `users` table.  The json tags are
// omitted because these structs are used internally by the repository
// layer; handlers define separate response types with appropriate
// JSON shapes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – first name.
//  LastName     – last name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  DNI          – national identity number (optional).
//  Role         – user role (user or admin).
//  Enabled      – whether the account is active; disabled users cannot log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    LastName     string    // users.last_name
    Email        string    // users.email
    PasswordHash string    // users.password
    DNI          string    // users.dni (may be empty)
    Role         Role      // users.role
    Enabled      bool      // users.enabled
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// FullName joins first and last name the way DTO assembly displays it.
func (u User) FullName() string {
    return u.Name + " " + u.LastName
}
