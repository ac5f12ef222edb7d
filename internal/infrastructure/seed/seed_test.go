package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/memory"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/seed"
)

func TestReadProducts_Coma(t *testing.T) {
	csv := "nombre,precio,stock,categoria\n" +
		"Cuaderno,3.50,10,Papelería\n" +
		",1,1,\n" +
		"Lápiz,\"1,20\",,Papelería\n"
	rows, err := seed.ReadProducts(strings.NewReader(csv), seed.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2, "las filas sin nombre se ignoran")

	assert.Equal(t, "Cuaderno", rows[0].Name)
	assert.Equal(t, "3.5", rows[0].Price.String())
	assert.Equal(t, 10, rows[0].Stock)
	assert.Equal(t, "Papelería", rows[0].Category)

	assert.Equal(t, "1.2", rows[1].Price.String())
	assert.Equal(t, 0, rows[1].Stock)
	assert.Equal(t, 4, rows[1].Line)
}

func TestReadProducts_PuntoYComaLatin1(t *testing.T) {
	utf8 := "\ufeffNombre;Descripcion;Precio;Stock\nCañón;Útil escolar;$1.234,50;2\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(strings.TrimPrefix(utf8, "\ufeff"))
	require.NoError(t, err)

	rows, err := seed.ReadProducts(bytes.NewReader([]byte(latin1)), seed.ReadOptions{Latin1: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cañón", rows[0].Name)
	assert.Equal(t, "Útil escolar", rows[0].Description)
	assert.Equal(t, "1234.5", rows[0].Price.String())

	rows, err = seed.ReadProducts(strings.NewReader(utf8), seed.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1, "la marca BOM no afecta la cabecera")
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := seed.ReadProducts(strings.NewReader("nombre,stock\nA,1\n"), seed.ReadOptions{})
	assert.ErrorContains(t, err, "precio")

	_, err = seed.ReadProducts(strings.NewReader("nombre,precio\nA,abc\n"), seed.ReadOptions{})
	assert.ErrorContains(t, err, "línea 2")

	_, err = seed.ReadProducts(strings.NewReader("nombre,precio,stock\nA,1,-3\n"), seed.ReadOptions{})
	assert.ErrorContains(t, err, "stock")

	_, err = seed.ReadProducts(strings.NewReader(""), seed.ReadOptions{})
	assert.Error(t, err)
}

func TestCatalogImporter(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	categories := usecase.NewCategoryUseCase(s.Categories())
	products := usecase.NewProductUseCase(s.Products(), s.Categories())

	rows, err := seed.ReadProducts(strings.NewReader(
		"nombre,precio,stock,categoria\n"+
			"Cuaderno,3.50,10,Papelería\n"+
			"Lápiz,1.20,5,papelería\n"+
			"Regalo,0,1,\n"+
			"Balón,20,1,Deportes\n"), seed.ReadOptions{})
	require.NoError(t, err)

	res, err := seed.NewCatalogImporter(categories, products).Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 2, res.Categories, "la categoría se reutiliza sin importar mayúsculas")
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Skipped[0], "Regalo")

	list, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	users := usecase.NewUserUseCase(s.Users())

	created, err := seed.EnsureAdmin(ctx, users, "admin@tikno.test", "supersecreto", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = seed.EnsureAdmin(ctx, users, "ADMIN@tikno.test", "otraclave123", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = seed.EnsureAdmin(ctx, users, "admin2@tikno.test", "corta", "Admin")
	assert.Error(t, err)
}
