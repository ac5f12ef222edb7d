package dto

import "time"

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Cedula string `json:"cedula"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Phone  string `json:"telefono"`
	City   string `json:"ciudad"`
}

// UpdateClientRequest campos opcionales; la cédula no cambia.
type UpdateClientRequest struct {
	Name  *string `json:"nombre,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"telefono,omitempty"`
	City  *string `json:"ciudad,omitempty"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	Cedula    string    `json:"cedula"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Phone     string    `json:"telefono"`
	City      string    `json:"ciudad"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
