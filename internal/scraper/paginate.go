package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
)

// PageOptions controls pacing and the safety cap of FetchAll
type PageOptions struct {
	Pause    time.Duration
	MaxPages int
	// Sleep waits between page requests, client.Sleep when nil
	Sleep func(ctx context.Context, d time.Duration) error
}

// FetchAll walks the result pages of one language query until a page comes
// back empty. The total reported on the first page is kept even when it
// differs from the number of items actually enumerated. Reading stops after
// MaxPages pages; the collection is marked Truncated when that happens with
// fewer items than the reported total.
func FetchAll(ctx context.Context, src Source, language string, opts PageOptions) (*models.Collection, error) {
	collection := &models.Collection{}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = client.Sleep
	}

	for page := 0; ; page++ {
		body, err := src.FetchPage(ctx, language, page)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d for %s: %w", src.Name(), page, language, err)
		}
		collection.Pages++

		if page == 0 {
			collection.TotalFound = src.ExtractTotal(body)
		}

		items := src.ExtractItems(body)
		if len(items) == 0 {
			break
		}
		collection.Items = append(collection.Items, items...)

		if opts.MaxPages > 0 && collection.Pages >= opts.MaxPages {
			collection.Truncated = len(collection.Items) < collection.TotalFound
			break
		}

		if err := sleep(ctx, opts.Pause); err != nil {
			return nil, err
		}
	}

	return collection, nil
}
