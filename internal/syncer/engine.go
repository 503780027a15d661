// Package syncer orchestrates a sync run: read annotations from the device
// database, resolve each book's Notion page and append the new annotations
// as blocks. Books are processed sequentially and failures are isolated per
// book; the delta watermark only advances when every book succeeded.
package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/kobo2notion/internal/entities"
	"github.com/mrlokans/kobo2notion/internal/mapper"
	"github.com/mrlokans/kobo2notion/internal/notion"
)

// Run statuses, recorded in the settings store after each run.
const (
	StatusIdle            = "idle"
	StatusReading         = "reading"
	StatusSyncing         = "syncing"
	StatusCompleted       = "completed"
	StatusPartiallyFailed = "partially_failed"
)

// SourceReader yields books with annotations modified after the cutoff.
// A nil cutoff means everything.
type SourceReader interface {
	GetBooks(cutoff *time.Time) ([]entities.Book, error)
}

// TargetClient is the subset of the Notion API the engine needs.
type TargetClient interface {
	FindPage(ctx context.Context, parentID, title string) (*notion.PageRef, error)
	CreatePage(ctx context.Context, page notion.PageDescriptor) (*notion.PageRef, error)
	AppendBlocks(ctx context.Context, pageID string, blocks []notion.BlockDescriptor) ([]notion.BlockRef, error)
}

// DeltaTracker persists the watermark between runs.
type DeltaTracker interface {
	GetSyncDelta() (*time.Time, error)
	CommitSyncDelta(t time.Time) error
}

// PageLinkStore remembers which Notion page each book exports to.
type PageLinkStore interface {
	GetPageLink(volumeID string) (*entities.PageLink, error)
	SavePageLink(volumeID, title, pageID string) error
}

// BookFailure records one book that could not be synced.
type BookFailure struct {
	Title string
	Err   error
}

// Result summarizes a sync run.
type Result struct {
	Status            string
	BooksSynced       int
	BooksFailed       int
	AnnotationsSynced int
	Failures          []BookFailure
	Delta             *time.Time
}

// Options configure a sync run.
type Options struct {
	ParentPageID string
	Icon         string
	// Full ignores the stored watermark and re-reads every annotation.
	Full bool
}

type Engine struct {
	reader SourceReader
	client TargetClient
	delta  DeltaTracker
	links  PageLinkStore
	opts   Options
}

func New(reader SourceReader, client TargetClient, delta DeltaTracker, links PageLinkStore, opts Options) *Engine {
	return &Engine{
		reader: reader,
		client: client,
		delta:  delta,
		links:  links,
		opts:   opts,
	}
}

// Run executes one sync pass. A read failure from the source is fatal;
// failures against the target are recorded per book and the run continues
// with the next book. Annotations already delivered in a partially failed
// run may be delivered again on retry since the watermark did not move.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	startedAt := time.Now().UTC()
	result := Result{Status: StatusReading}

	var cutoff *time.Time
	if !e.opts.Full {
		stored, err := e.delta.GetSyncDelta()
		if err != nil {
			return result, fmt.Errorf("failed to load sync delta: %w", err)
		}
		cutoff = stored
	}

	if cutoff != nil {
		log.Printf("Starting incremental sync, annotations after %s", cutoff.Format(time.RFC3339))
	} else {
		log.Printf("Starting full sync")
	}

	books, err := e.reader.GetBooks(cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to read annotations: %w", err)
	}

	result.Status = StatusSyncing
	var latest time.Time

	for _, book := range books {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		synced, err := e.syncBook(ctx, book)
		if err != nil {
			log.Printf("WARN: failed to sync %q: %v", book.Title, err)
			result.BooksFailed++
			result.Failures = append(result.Failures, BookFailure{Title: book.Title, Err: err})
			continue
		}

		result.BooksSynced++
		result.AnnotationsSynced += synced
		for _, a := range book.Annotations {
			if ts := a.Timestamp(); ts.After(latest) {
				latest = ts
			}
		}
	}

	if result.BooksFailed > 0 {
		result.Status = StatusPartiallyFailed
		log.Printf("Sync partially failed: %d books synced, %d failed, delta not advanced",
			result.BooksSynced, result.BooksFailed)
		return result, nil
	}

	// Clamp the new watermark to the run start so clock skew in the device
	// timestamps cannot push it into the future and skip annotations.
	newDelta := latest
	if newDelta.IsZero() || newDelta.After(startedAt) {
		newDelta = startedAt
	}
	if err := e.delta.CommitSyncDelta(newDelta); err != nil {
		return result, fmt.Errorf("failed to commit sync delta: %w", err)
	}

	result.Status = StatusCompleted
	result.Delta = &newDelta
	log.Printf("Sync completed: %d books, %d annotations, delta %s",
		result.BooksSynced, result.AnnotationsSynced, newDelta.Format(time.RFC3339))
	return result, nil
}

// syncBook resolves the book's page and appends its annotations in order.
func (e *Engine) syncBook(ctx context.Context, book entities.Book) (int, error) {
	pageID, err := e.ensurePage(ctx, book)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, annotation := range book.Annotations {
		blocks := mapper.AnnotationBlocks(annotation)
		if _, err := e.client.AppendBlocks(ctx, pageID, blocks); err != nil {
			return synced, fmt.Errorf("failed to append annotation: %w", err)
		}
		synced++
	}
	return synced, nil
}

// ensurePage returns the ID of the book's Notion page, creating it when the
// book has never been exported. A page link saved from an earlier run wins;
// otherwise a title search avoids duplicating pages created out of band.
func (e *Engine) ensurePage(ctx context.Context, book entities.Book) (string, error) {
	link, err := e.links.GetPageLink(book.VolumeID)
	if err != nil {
		return "", fmt.Errorf("failed to look up page link: %w", err)
	}
	if link != nil {
		return link.PageID, nil
	}

	title := mapper.PageTitle(book)

	existing, err := e.client.FindPage(ctx, e.opts.ParentPageID, title)
	if err != nil {
		return "", fmt.Errorf("failed to search for page: %w", err)
	}
	if existing != nil {
		if err := e.links.SavePageLink(book.VolumeID, title, existing.ID); err != nil {
			return "", fmt.Errorf("failed to save page link: %w", err)
		}
		return existing.ID, nil
	}

	page, err := e.client.CreatePage(ctx, mapper.BookPage(book, e.opts.ParentPageID, e.opts.Icon))
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	log.Printf("Created page for %q", title)

	if err := e.links.SavePageLink(book.VolumeID, title, page.ID); err != nil {
		return "", fmt.Errorf("failed to save page link: %w", err)
	}
	return page.ID, nil
}
