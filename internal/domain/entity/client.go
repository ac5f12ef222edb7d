package entity

import "time"

// Client representa un cliente final identificado por su cédula.
type Client struct {
	Cedula    ClientID
	Name      string
	Email     string
	Phone     string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
