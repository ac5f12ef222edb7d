package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products ProductRepository
	Sales    SaleRepository
	Carts    CartRepository
	Clients  ClientRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
