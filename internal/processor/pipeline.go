package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/songbook-catalog/internal/classifier"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/loader"
	"github.com/palemoky/songbook-catalog/internal/logger"
	"github.com/palemoky/songbook-catalog/internal/notice"
)

// DefaultPageSize is the number of tracks a full listing page carries
const DefaultPageSize = 10

// Notifier records a newly added book in the site's notice list
type Notifier interface {
	Prepend(content string, now time.Time) ([]notice.Entry, error)
}

// Options configures the listing source of a Driver
type Options struct {
	BaseURL          string
	PaginationSuffix string
	PageSize         int
	Unsplittable     []string
}

// Driver ingests one product listing into the store
type Driver struct {
	repo     database.RepositoryInterface
	resolver *Resolver
	fetcher  loader.Fetcher
	notifier Notifier
	splitter classifier.Splitter
	opts     Options
	progress *mpb.Progress
	now      func() time.Time
}

// NewDriver creates a driver. A nil notifier disables the notice update.
func NewDriver(repo database.RepositoryInterface, fetcher loader.Fetcher, notifier Notifier, opts Options) *Driver {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	return &Driver{
		repo:     repo,
		resolver: NewResolver(repo),
		fetcher:  fetcher,
		notifier: notifier,
		splitter: classifier.NewSplitter(opts.Unsplittable),
		opts:     opts,
		now:      time.Now,
	}
}

// WithProgress renders a persist progress bar per run on p
func (d *Driver) WithProgress(p *mpb.Progress) *Driver {
	d.progress = p
	return d
}

// RunAll ingests each code in order. A failed code does not stop the others;
// all failures are returned joined.
func (d *Driver) RunAll(ctx context.Context, codes []string) ([]*Result, error) {
	results := make([]*Result, 0, len(codes))
	var errs []error

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := d.Run(ctx, code)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", code, err))
			if result != nil {
				result.Err = err
			}
		}
		if result != nil {
			results = append(results, result)
		}
	}

	return results, errors.Join(errs...)
}

// Run ingests one product code. It returns OutcomeSkipped without fetching
// when the code is already stored.
func (d *Driver) Run(ctx context.Context, code string) (*Result, error) {
	start := time.Now()
	result := &Result{Code: code, RunID: uuid.NewString()}
	log := logger.Named("ingest").With(zap.String("code", code), zap.String("run_id", result.RunID))
	defer func() { result.Duration = time.Since(start) }()

	// CHECK_EXISTS
	log.Debug("state", zap.Stringer("state", StateCheckExists))
	existing, err := d.repo.FindBookByCode(code)
	if err != nil {
		return result, fmt.Errorf("failed to check product code: %w", err)
	}
	if existing != nil {
		result.Outcome = OutcomeSkipped
		result.BookID = existing.ID
		result.BookName = existing.Name
		log.Info("product already present",
			zap.Stringer("state", StateSkip),
			zap.Int64("book_id", existing.ID),
			zap.String("book_name", existing.Name))
		return result, nil
	}

	tracks, err := d.fetchAll(ctx, code, result, log)
	if err != nil {
		return result, err
	}

	if err := d.persist(code, tracks, result, log); err != nil {
		return result, err
	}

	// DONE
	result.Outcome = OutcomeDone
	d.notify(result.BookName, log)
	log.Info("ingestion finished",
		zap.Stringer("state", StateDone),
		zap.Int64("book_id", result.BookID),
		zap.Int("songs_created", result.SongsCreated),
		zap.Int("songs_failed", result.SongsFailed),
		zap.Int("links", result.Links))
	return result, nil
}

// fetchAll pages through the listing until a short or empty page
func (d *Driver) fetchAll(ctx context.Context, code string, result *Result, log *zap.Logger) ([]classifier.Track, error) {
	var tracks []classifier.Track

	for offset := 0; ; offset += d.opts.PageSize {
		url := loader.PageURL(d.opts.BaseURL, code, d.opts.PaginationSuffix, offset)
		log.Debug("state", zap.Stringer("state", StateFetchPage), zap.Int("offset", offset))

		body, err := d.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page at offset %d: %w", offset, err)
		}
		page, err := loader.ParsePage(body, d.splitter)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page at offset %d: %w", offset, err)
		}
		result.Pages++

		if result.BookName == "" {
			result.BookName = page.BookName
		}
		if page.DeclaredTracks > 0 {
			result.DeclaredTracks = page.DeclaredTracks
		}

		if len(page.Tracks) == 0 {
			break
		}

		// ACCUMULATE
		tracks = append(tracks, page.Tracks...)
		log.Debug("state",
			zap.Stringer("state", StateAccumulate),
			zap.Int("page_tracks", len(page.Tracks)),
			zap.Int("total_tracks", len(tracks)))

		if len(page.Tracks) < d.opts.PageSize {
			break
		}
	}

	result.Tracks = len(tracks)
	if result.DeclaredTracks > 0 && result.DeclaredTracks != result.Tracks {
		log.Warn("track count differs from the declared total",
			zap.Int("declared", result.DeclaredTracks),
			zap.Int("fetched", result.Tracks))
	}
	return tracks, nil
}

// persist writes the book, then each track with its credits.
// A failed song insert skips that track; any other failure aborts the run.
func (d *Driver) persist(code string, tracks []classifier.Track, result *Result, log *zap.Logger) error {
	log.Info("persisting book",
		zap.Stringer("state", StatePersist),
		zap.String("book_name", result.BookName),
		zap.Int("tracks", len(tracks)))

	book := &database.Book{Name: result.BookName, ProductCode: code}
	if err := d.repo.CreateBook(book); err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	result.BookID = book.ID

	bar := d.newBar(code, len(tracks))

	for _, track := range tracks {
		song := &database.Song{
			BookID: book.ID,
			Name:   track.Title,
			Grade:  track.GradeValue(),
			Memo:   track.Memo(),
		}
		if err := d.repo.CreateSong(song); err != nil {
			result.SongsFailed++
			log.Error("failed to create song, skipping track",
				zap.String("song_name", track.Title), zap.Error(err))
			incr(bar)
			continue
		}
		result.SongsCreated++

		for _, c := range credits(track) {
			for _, name := range c.names {
				id, ok, err := d.resolver.Resolve(c.kind, name)
				if err != nil {
					abort(bar)
					return fmt.Errorf("failed to resolve %s %q: %w", c.kind, name, err)
				}
				if !ok {
					continue
				}
				if err := d.repo.LinkSong(c.kind, song.ID, id); err != nil {
					abort(bar)
					return err
				}
				result.Links++
			}
		}
		incr(bar)
	}

	return nil
}

func (d *Driver) notify(bookName string, log *zap.Logger) {
	if d.notifier == nil {
		return
	}
	if _, err := d.notifier.Prepend(bookName, d.now()); err != nil {
		log.Warn("notice not updated", zap.Error(err))
		return
	}
	log.Info("notice updated", zap.String("book_name", bookName))
}

func (d *Driver) newBar(code string, total int) *mpb.Bar {
	if d.progress == nil || total == 0 {
		return nil
	}
	return d.progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(code+": ", decor.WC{W: 14, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.1f songs/s", decor.WC{W: 12}),
		),
	)
}

func incr(bar *mpb.Bar) {
	if bar != nil {
		bar.Increment()
	}
}

func abort(bar *mpb.Bar) {
	if bar != nil {
		bar.Abort(false)
	}
}
