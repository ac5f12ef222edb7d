// Package seed carga datos iniciales: catálogo de productos desde CSV y usuario administrador.
package seed

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/domain"
)

// csvProduct registro tal como viene en el CSV; los números se validan después.
type csvProduct struct {
	Name        string `csv:"nombre"`
	Description string `csv:"descripcion"`
	Price       string `csv:"precio"`
	Stock       string `csv:"stock"`
	Category    string `csv:"categoria"`
	ImageURL    string `csv:"imagen_url"`
}

var requiredColumns = []string{"nombre", "precio"}

// ProductRow fila del CSV de catálogo.
type ProductRow struct {
	Line        int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
}

// ReadOptions Latin1 para archivos exportados desde Excel en Windows (ISO-8859-1).
type ReadOptions struct {
	Latin1 bool
}

// headerReader normaliza la cabecera (minúsculas, sin BOM) antes de que gocsv la lea.
type headerReader struct {
	*csv.Reader
	seen bool
	err  error
}

func (r *headerReader) Read() ([]string, error) {
	rec, err := r.Reader.Read()
	if err != nil || r.seen {
		return rec, err
	}
	r.seen = true
	cols := make(map[string]bool, len(rec))
	for i, h := range rec {
		rec[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[rec[i]] = true
	}
	for _, c := range requiredColumns {
		if !cols[c] {
			r.err = fmt.Errorf("seed: falta la columna %q", c)
			return nil, r.err
		}
	}
	return rec, nil
}

func (r *headerReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ReadProducts lee el CSV. El separador (',' o ';') se deduce de la cabecera.
func ReadProducts(r io.Reader, opts ReadOptions) ([]ProductRow, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(r)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("seed: leer cabecera: %w", err)
	}
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, errors.New("seed: CSV sin cabecera")
	}
	firstLine, _, _ := strings.Cut(string(head), "\n")

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		cr.Comma = ';'
	}
	hr := &headerReader{Reader: cr}

	var records []*csvProduct
	if err := gocsv.UnmarshalCSV(hr, &records); err != nil {
		if hr.err != nil {
			return nil, hr.err
		}
		return nil, fmt.Errorf("seed: leer CSV: %w", err)
	}

	rows := make([]ProductRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		price, err := parsePrice(rec.Price)
		if err != nil {
			return nil, fmt.Errorf("seed: línea %d: precio %q inválido", line, rec.Price)
		}
		stock := 0
		if s := strings.TrimSpace(rec.Stock); s != "" {
			if stock, err = strconv.Atoi(s); err != nil || stock < 0 {
				return nil, fmt.Errorf("seed: línea %d: stock %q inválido", line, s)
			}
		}
		rows = append(rows, ProductRow{
			Line:        line,
			Name:        name,
			Description: strings.TrimSpace(rec.Description),
			Price:       price,
			Stock:       stock,
			Category:    strings.TrimSpace(rec.Category),
			ImageURL:    strings.TrimSpace(rec.ImageURL),
		})
	}
	return rows, nil
}

// parsePrice acepta "1234.50", "1234,50" y "1.234,50".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Products   int
	Categories int
	Skipped    []string
}

// CatalogImporter da de alta categorías y productos a través de los casos de uso.
type CatalogImporter struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
}

func NewCatalogImporter(categories *usecase.CategoryUseCase, products *usecase.ProductUseCase) *CatalogImporter {
	return &CatalogImporter{categories: categories, products: products}
}

// Import crea las categorías que falten y los productos. Las filas rechazadas por
// validación se omiten y se informan; un error de almacenamiento corta la importación.
func (im *CatalogImporter) Import(ctx context.Context, rows []ProductRow) (*ImportResult, error) {
	existing, err := im.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	res := &ImportResult{}
	for _, row := range rows {
		var categoryID *int64
		if row.Category != "" {
			key := strings.ToLower(row.Category)
			id, ok := byName[key]
			if !ok {
				created, err := im.categories.Create(ctx, dto.CategoryRequest{Name: row.Category})
				if err != nil {
					return res, fmt.Errorf("seed: categoría %q: %w", row.Category, err)
				}
				id = created.ID
				byName[key] = id
				res.Categories++
			}
			categoryID = &id
		}
		_, err := im.products.Create(ctx, dto.CreateProductRequest{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Stock:       row.Stock,
			ImageURL:    row.ImageURL,
			CategoryID:  categoryID,
		})
		switch {
		case err == nil:
			res.Products++
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidPrice), errors.Is(err, domain.ErrDuplicate):
			res.Skipped = append(res.Skipped, fmt.Sprintf("línea %d (%s): %v", row.Line, row.Name, err))
		default:
			return res, fmt.Errorf("seed: producto %q: %w", row.Name, err)
		}
	}
	return res, nil
}
