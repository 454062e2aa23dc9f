package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/database"
	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/photos"
	"github.com/arthouse/theaters/internal/places"
	"github.com/arthouse/theaters/internal/queue"
	"github.com/arthouse/theaters/internal/repository"
)

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Download and review venue photos from Google Places",
}

var (
	downloadLimit  int
	downloadDryRun bool
	consumeLog     string
)

var photosDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Fetch up to PHOTOS_MAX_PER_THEATER photos per theater",
	RunE:  runPhotosDownload,
}

var photosConsumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append photo result events from RabbitMQ to a log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.RabbitURL == "" {
			return errors.New("missing required env var: RABBITMQ_URL")
		}
		return queue.StartPhotoConsumer(cmd.Context(), cfg.RabbitURL, consumeLog)
	},
}

var photosReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Serve the local photo review page",
	RunE:  runPhotosReview,
}

func init() {
	photosDownloadCmd.Flags().IntVar(&downloadLimit, "limit", 0, "process at most this many theaters (0 = all)")
	photosDownloadCmd.Flags().BoolVar(&downloadDryRun, "dry-run", false, "list the theaters that would be processed without downloading")
	photosConsumeCmd.Flags().StringVar(&consumeLog, "log", queue.DefaultLogPath, "file to append results to")

	photosCmd.AddCommand(photosDownloadCmd, photosConsumeCmd, photosReviewCmd)
}

func runPhotosDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.Ctx(ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pcfg := config.LoadPhotosConfig()
	if !downloadDryRun {
		if err := pcfg.Validate(); err != nil {
			return err
		}
	}
	if !cfg.HasDatabase() {
		return fmt.Errorf("database not configured, missing %v", cfg.MissingDB())
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	theaters, err := repository.NewTheaterRepo(db).ListRefs(ctx, downloadLimit)
	if err != nil {
		return fmt.Errorf("fetch theaters: %w", err)
	}
	if len(theaters) == 0 {
		fmt.Fprintln(out, "No theaters found.")
		return nil
	}
	log.Info().Int("theaters", len(theaters)).Bool("dry_run", downloadDryRun).Msg("theaters loaded")

	if downloadDryRun {
		printDryRun(out, theaters)
		return nil
	}

	d := &photos.Downloader{
		Places: places.NewClient(pcfg.PlacesBaseURL, pcfg.PlacesAPIKey, &http.Client{Timeout: 30 * time.Second}),
		Cfg:    pcfg,
	}
	if cfg.RabbitURL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable; photo events will not be published")
		} else {
			defer pub.Close()
			d.Publisher = pub
		}
	}

	results, elapsed, err := d.Run(ctx, theaters)
	report := photos.GenerateReport(results, elapsed, pcfg.Dir)
	fmt.Fprint(out, report)

	path, werr := photos.WriteReport(pcfg.Dir, report, time.Now())
	if werr != nil {
		log.Error().Err(werr).Msg("save report")
	} else {
		fmt.Fprintf(out, "Report saved to: %s\n", path)
	}
	return err
}

func printDryRun(w io.Writer, theaters []repository.SlugRef) {
	fmt.Fprintln(w, "DRY RUN - would process these theaters:")
	for _, t := range theaters {
		fmt.Fprintf(w, "  - %s (%s, %s) [%s]\n", t.Name, t.City, t.State, t.Slug)
	}
	fmt.Fprintln(w, "Run without --dry-run to download photos.")
}

func runPhotosReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pcfg := config.LoadPhotosConfig()

	store, closeStore, err := selectionStore(ctx, pcfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &photos.ReviewServer{Dir: pcfg.Dir, Store: store}
	e := srv.Echo()
	e.HidePort = true

	errCh := make(chan error, 1)
	go func() {
		logger.Ctx(ctx).Info().Str("url", "http://localhost:"+pcfg.ReviewPort).Str("dir", pcfg.Dir).Msg("photo review server running")
		errCh <- e.Start(":" + pcfg.ReviewPort)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// selectionStore picks the review store named by REVIEW_STORE.
func selectionStore(ctx context.Context, pcfg config.PhotosConfig) (photos.SelectionStore, func(), error) {
	switch pcfg.ReviewStore {
	case "", "file":
		return photos.NewFileSelectionStore(filepath.Join(pcfg.Dir, "selections.json")), func() {}, nil
	case "redis":
		client, err := config.NewRedisClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		return photos.NewRedisSelectionStore(client, pcfg.RedisKey), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown REVIEW_STORE %q (want file or redis)", pcfg.ReviewStore)
	}
}
