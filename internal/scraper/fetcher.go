package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	apperrors "github.com/guscaldeira/teste-tecnico-intuitive-care/internal/errors"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/files"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
)

const maxConcurrentListings = 4

// YearFailure records a year whose listing could not be read
type YearFailure struct {
	Year string
	Err  error
}

// Result summarizes one fetch
type Result struct {
	Downloaded  []string      // paths written by this run
	Cached      []string      // paths that already existed in staging
	Failed      []string      // URLs that could not be downloaded
	FailedYears []YearFailure // listings that could not be read
}

// Fetcher downloads quarterly archives from the ANS open data listing into
// the staging directory.
type Fetcher struct {
	baseURL         *url.URL
	years           []string
	maxDownloads    int
	listingTimeout  time.Duration
	downloadTimeout time.Duration
	userAgent       string
	stagingDir      string

	client  *http.Client
	limiter *rate.Limiter
	files   *files.Manager
	logger  *slog.Logger
}

// NewFetcher creates a fetcher for the configured source
func NewFetcher(cfg config.SourceConfig, stagingDir string, logger *slog.Logger) (*Fetcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid source base url", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = config.DefaultRequestsPerSecond
	}
	listingTimeout := cfg.ListingTimeout
	if listingTimeout <= 0 {
		listingTimeout = config.DefaultListingTimeout
	}
	downloadTimeout := cfg.DownloadTimeout
	if downloadTimeout <= 0 {
		downloadTimeout = config.DefaultDownloadTimeout
	}

	return &Fetcher{
		baseURL:         base,
		years:           cfg.Years,
		maxDownloads:    cfg.MaxDownloads,
		listingTimeout:  listingTimeout,
		downloadTimeout: downloadTimeout,
		userAgent:       cfg.UserAgent,
		stagingDir:      stagingDir,
		client:          &http.Client{},
		limiter:         rate.NewLimiter(rate.Limit(rps), 1),
		files:           files.NewManager(logger),
		logger:          infrastructure.WithComponent(logger, "scraper"),
	}, nil
}

// Fetch walks the configured years in order and downloads archives that are
// not in staging yet. It stops after MaxDownloads new files (0 means no
// limit). A year whose listing fails is logged and skipped.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	if err := f.files.EnsureDirectory(f.stagingDir); err != nil {
		return nil, apperrors.NewFatalError("cannot create staging directory", err)
	}

	listings := f.readListings(ctx)
	if err := ctx.Err(); err != nil {
		return &Result{}, err
	}

	result := &Result{}
	for i, year := range f.years {
		if f.limitReached(result) {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		listing := listings[i]
		if listing.err != nil {
			f.logger.WarnContext(ctx, "Failed to read listing",
				slog.String("year", year),
				slog.String("error", listing.err.Error()))
			result.FailedYears = append(result.FailedYears, YearFailure{Year: year, Err: listing.err})
			continue
		}

		f.logger.InfoContext(ctx, "Listing read",
			slog.String("year", year),
			slog.Int("archives", len(listing.links)))

		for _, link := range listing.links {
			if f.limitReached(result) {
				break
			}
			f.fetchOne(ctx, link, result)
		}
	}

	f.logger.InfoContext(ctx, "Fetch finished",
		slog.Int("downloaded", len(result.Downloaded)),
		slog.Int("cached", len(result.Cached)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("failed_years", len(result.FailedYears)))

	return result, nil
}

type yearListing struct {
	links []ArchiveLink
	err   error
}

// readListings fetches every year's listing concurrently. Results keep the
// configured year order; the shared limiter still paces the requests.
func (f *Fetcher) readListings(ctx context.Context) []yearListing {
	listings := make([]yearListing, len(f.years))

	var g errgroup.Group
	g.SetLimit(maxConcurrentListings)
	for i, year := range f.years {
		g.Go(func() error {
			links, err := f.listYear(ctx, year)
			listings[i] = yearListing{links: links, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return listings
}

func (f *Fetcher) limitReached(r *Result) bool {
	return f.maxDownloads > 0 && len(r.Downloaded) >= f.maxDownloads
}

func (f *Fetcher) fetchOne(ctx context.Context, link ArchiveLink, result *Result) {
	dst := filepath.Join(f.stagingDir, filepath.Base(link.Name))
	if f.files.FileExists(dst) {
		f.logger.InfoContext(ctx, "Archive already staged",
			slog.String("filename", link.Name))
		result.Cached = append(result.Cached, dst)
		return
	}

	if err := f.download(ctx, link.URL, dst); err != nil {
		f.logger.WarnContext(ctx, "Download failed",
			slog.String("url", link.URL),
			slog.String("error", err.Error()))
		result.Failed = append(result.Failed, link.URL)
		return
	}
	result.Downloaded = append(result.Downloaded, dst)
}

func (f *Fetcher) listYear(ctx context.Context, year string) ([]ArchiveLink, error) {
	pageURL := f.baseURL.ResolveReference(&url.URL{Path: year + "/"})

	ctx, cancel := context.WithTimeout(ctx, f.listingTimeout)
	defer cancel()

	resp, err := f.get(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parseListing(resp.Body, pageURL)
}

func (f *Fetcher) download(ctx context.Context, rawURL, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, f.downloadTimeout)
	defer cancel()

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	start := time.Now()
	n, err := f.files.WriteAtomic(dst, resp.Body)
	if err != nil {
		return apperrors.NewStorageError("failed to store archive", err).
			WithContext("path", dst)
	}

	f.logger.InfoContext(ctx, "Archive downloaded",
		slog.String("filename", filepath.Base(dst)),
		slog.Int64("size_bytes", n),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to build request", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("request failed", err).WithContext("url", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apperrors.NewNetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil).
			WithContext("url", rawURL)
	}
	return resp, nil
}
