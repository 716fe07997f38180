package services

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

// Datasets is one parsed load of all three sources
type Datasets struct {
	Cards          []models.Card
	Slabs          []models.Slab
	ValueLog       []models.ValueLogEntry
	DroppedLogRows int
}

// DatasetLoader fetches and parses the card, slab and value log sources
type DatasetLoader struct {
	cards    Source
	slabs    Source
	valueLog Source
}

// NewDatasetLoader accepts nil sources; those datasets load empty
func NewDatasetLoader(cards, slabs, valueLog Source) *DatasetLoader {
	return &DatasetLoader{cards: cards, slabs: slabs, valueLog: valueLog}
}

// Load fetches the sources concurrently. Any failure fails the whole load.
func (l *DatasetLoader) Load(ctx context.Context) (*Datasets, error) {
	var data Datasets
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := readTable(ctx, l.cards, "cards")
		if err != nil {
			return err
		}
		data.Cards = catalog.ParseCards(t)
		return nil
	})

	g.Go(func() error {
		t, err := readTable(ctx, l.slabs, "slabs")
		if err != nil {
			return err
		}
		data.Slabs = catalog.ParseSlabs(t)
		return nil
	})

	g.Go(func() error {
		if l.valueLog == nil {
			return nil
		}
		t, err := readTable(ctx, l.valueLog, "value log")
		if err != nil {
			return err
		}
		entries, dropped, err := catalog.ParseValueLog(t)
		if err != nil {
			return fmt.Errorf("value log %s: %w", l.valueLog, err)
		}
		data.ValueLog = entries
		data.DroppedLogRows = dropped
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func readTable(ctx context.Context, src Source, dataset string) (catalog.Table, error) {
	if src == nil {
		log.Printf("Dataset loader: no %s source configured", dataset)
		return catalog.Table{}, nil
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return catalog.Table{}, fmt.Errorf("%s: %w", dataset, err)
	}
	defer rc.Close()

	t, err := catalog.ReadCSV(rc)
	if err != nil {
		return catalog.Table{}, fmt.Errorf("%s %s: %w", dataset, src, err)
	}
	return t, nil
}
