package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davidnier/storefront-backend/pkg/db"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImportOptions controls how CSV rows are written.
type ImportOptions struct {
	// Upsert updates an existing product matched by name+department
	// instead of failing on the unique index.
	Upsert bool
}

// ImportSummary reports what an import run did.
type ImportSummary struct {
	Created int
	Updated int
}

var requiredImportColumns = []string{"name", "price", "stock", "department"}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Importer loads catalog rows from CSV files. The whole file is applied in
// one transaction so a bad row leaves the catalog untouched.
type Importer struct {
	repo *Repository
	tx   txRunner
}

// NewImporter constructs a CSV importer.
func NewImporter(repo *Repository, tx txRunner) (*Importer, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &Importer{repo: repo, tx: tx}, nil
}

// LoadCSV reads header-keyed rows from r and creates or upserts products.
func (i *Importer) LoadCSV(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportSummary, error) {
	rows, err := parseImportRows(r)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	if err := i.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := i.repo.WithTx(tx)
		for _, row := range rows {
			if err := i.applyRow(ctx, txRepo, row, opts, summary); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import products")
	}
	return summary, nil
}

type importRow struct {
	line  int
	input CreateProductInput
}

func parseImportRows(r io.Reader) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv file is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv header")
	}

	index := map[string]int{}
	for pos, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = pos
	}
	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("csv missing required columns: %s", strings.Join(missing, ", ")))
	}

	field := func(record []string, name string) string {
		pos, ok := index[name]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	var rows []importRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("read csv line %d", line+1))
		}
		line++

		name := field(record, "name")
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: name is required", line))
		}

		price := decimal.Zero
		if raw := field(record, "price"); raw != "" {
			price, err = decimal.NewFromString(raw)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: invalid price %q", line, raw))
			}
		}

		stock := 0
		if raw := field(record, "stock"); raw != "" {
			stock, err = strconv.Atoi(raw)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: invalid stock %q", line, raw))
			}
		}

		var meatType *string
		if raw := strings.ToLower(field(record, "meat_type")); raw != "" {
			meatType = &raw
		}
		unit := strings.ToLower(field(record, "unit"))
		if unit == "" {
			unit = "each"
		}

		rows = append(rows, importRow{
			line: line,
			input: CreateProductInput{
				Name:        name,
				SKU:         field(record, "sku"),
				Price:       price,
				IsTaxable:   parseCSVBool(field(record, "is_taxable"), true),
				Department:  strings.ToLower(field(record, "department")),
				Category:    field(record, "category"),
				Subcategory: field(record, "subcategory"),
				MeatType:    meatType,
				Unit:        unit,
				Stock:       stock,
				IsActive:    parseCSVBool(field(record, "is_active"), true),
			},
		})
	}
	return rows, nil
}

func (i *Importer) applyRow(ctx context.Context, txRepo *Repository, row importRow, opts ImportOptions, summary *ImportSummary) error {
	attrs, err := resolveAttributes(row.input.Department, row.input.Unit, row.input.MeatType)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("line %d, product %q: %s", row.line, row.input.Name, err.Error()))
	}
	if row.input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("line %d, product %q: price cannot be negative", row.line, row.input.Name))
	}
	if row.input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("line %d, product %q: stock cannot be negative", row.line, row.input.Name))
	}

	if opts.Upsert {
		existing, err := txRepo.FindByNameAndDepartment(ctx, row.input.Name, attrs.department)
		switch {
		case err == nil:
			existing.SKU = row.input.SKU
			existing.Price = row.input.Price.Round(2)
			existing.IsTaxable = row.input.IsTaxable
			existing.Category = row.input.Category
			existing.Subcategory = row.input.Subcategory
			existing.MeatType = attrs.meatType
			existing.Unit = attrs.unit
			existing.Stock = row.input.Stock
			existing.IsActive = row.input.IsActive
			if _, err := txRepo.UpdateProduct(ctx, existing); err != nil {
				return err
			}
			summary.Updated++
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// fall through to create
		default:
			return err
		}
	}

	product := row.input.toModel(attrs)
	if _, err := txRepo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_name_department") {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("product %q already exists in department %s", row.input.Name, attrs.department))
		}
		return err
	}
	summary.Created++
	return nil
}

func parseCSVBool(raw string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
