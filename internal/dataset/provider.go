package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Provider supplies the four operational tables the KPI engine consumes.
// Implementations return the latest rows on every call; staleness is the
// caller's problem to avoid, not the provider's to hide.
type Provider interface {
	Orders(ctx context.Context) ([]Order, error)
	Inspections(ctx context.Context) ([]Inspection, error)
	Downtime(ctx context.Context) ([]Downtime, error)
	Inventory(ctx context.Context) ([]InventoryItem, error)
}

// SalesProvider supplies the catalog tables backing quote pricing.
type SalesProvider interface {
	BOM(ctx context.Context) ([]BOMLine, error)
	Products(ctx context.Context) ([]Product, error)
}

// Table file names under the data directory.
const (
	OrdersFile      = "orders.jsonl"
	InspectionsFile = "quality_inspections.jsonl"
	DowntimeFile    = "downtime_log.jsonl"
	InventoryFile   = "inventory.jsonl"
	BOMFile         = "bom.jsonl"
	ProductsFile    = "products.jsonl"
)

// FileProvider reads tables from JSONL files in a single directory.
// A missing file yields zero rows, not an error; the engine decides
// whether an empty table is fatal.
type FileProvider struct {
	Dir string
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Dir: dir}
}

func (p *FileProvider) Orders(ctx context.Context) ([]Order, error) {
	return readRows[Order](ctx, filepath.Join(p.Dir, OrdersFile))
}

func (p *FileProvider) Inspections(ctx context.Context) ([]Inspection, error) {
	return readRows[Inspection](ctx, filepath.Join(p.Dir, InspectionsFile))
}

func (p *FileProvider) Downtime(ctx context.Context) ([]Downtime, error) {
	return readRows[Downtime](ctx, filepath.Join(p.Dir, DowntimeFile))
}

func (p *FileProvider) Inventory(ctx context.Context) ([]InventoryItem, error) {
	return readRows[InventoryItem](ctx, filepath.Join(p.Dir, InventoryFile))
}

func (p *FileProvider) BOM(ctx context.Context) ([]BOMLine, error) {
	return readRows[BOMLine](ctx, filepath.Join(p.Dir, BOMFile))
}

func (p *FileProvider) Products(ctx context.Context) ([]Product, error) {
	return readRows[Product](ctx, filepath.Join(p.Dir, ProductsFile))
}

// LoadSnapshot reads the four KPI tables concurrently.
func LoadSnapshot(ctx context.Context, p Provider) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Orders, err = p.Orders(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Inspections, err = p.Inspections(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Downtime, err = p.Downtime(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Inventory, err = p.Inventory(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, errors.Wrap(err, "loading dataset snapshot")
	}
	return snap, nil
}

// readRows decodes one JSONL file into rows of T. Invalid lines are
// skipped with a warning so a single corrupt record cannot take down the
// whole table.
func readRows[T any](ctx context.Context, path string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "opening table %s", filepath.Base(path))
	}
	defer file.Close()

	var rows []T
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			log.Warn().Err(err).Str("table", filepath.Base(path)).Msg("Skipping invalid JSON line")
			continue
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading table %s", filepath.Base(path))
	}
	return rows, nil
}

// WriteRows persists rows as JSONL via a temp file and atomic rename.
func WriteRows[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "creating data directory for %s", filepath.Base(path))
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrap(err, "creating temp table file")
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return errors.Wrap(err, "encoding table row")
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "flushing table writer")
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "closing table file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "renaming table file")
	}
	return nil
}
