package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const rule = "================================================================================"

// GenerateReport renders a plain-text summary of a download run.
func GenerateReport(results []Result, elapsed time.Duration, dir string) string {
	var success, noPlace, noPhotos, failed []Result
	total := 0
	for _, r := range results {
		total += r.PhotosDownloaded
		switch r.Status {
		case StatusSuccess:
			success = append(success, r)
		case StatusNoPlace:
			noPlace = append(noPlace, r)
		case StatusNoPhotos:
			noPhotos = append(noPhotos, r)
		default:
			failed = append(failed, r)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n                    THEATER PHOTO DOWNLOAD REPORT\n%s\n\n", rule, rule)
	b.WriteString("SUMMARY\n-------\n")
	fmt.Fprintf(&b, "Total theaters processed: %d\n", len(results))
	fmt.Fprintf(&b, "Duration: %.1f seconds\n\n", elapsed.Seconds())
	fmt.Fprintf(&b, "  + Success (with photos):     %d\n", len(success))
	fmt.Fprintf(&b, "  o No place found:            %d\n", len(noPlace))
	fmt.Fprintf(&b, "  o Place found, no photos:    %d\n", len(noPhotos))
	fmt.Fprintf(&b, "  x Errors:                    %d\n\n", len(failed))
	fmt.Fprintf(&b, "Total photos downloaded: %d\n", total)

	if len(success) > 0 {
		b.WriteString("\nSUCCESSFUL DOWNLOADS\n--------------------\n")
		for _, r := range success {
			fmt.Fprintf(&b, "  + %s (%s, %s) - %d photos\n", r.Theater.Name, r.Theater.City, r.Theater.State, r.PhotosDownloaded)
			fmt.Fprintf(&b, "    Folder: %s/%s/\n", strings.TrimSuffix(dir, "/"), r.Theater.Slug)
			if r.PlaceName != r.Theater.Name {
				fmt.Fprintf(&b, "    Google Place: %q\n", r.PlaceName)
			}
		}
	}
	if len(noPlace) > 0 {
		fmt.Fprintf(&b, "\nNO PLACE FOUND (%d)\n------------------\n", len(noPlace))
		for _, r := range noPlace {
			fmt.Fprintf(&b, "  o %s (%s, %s)\n", r.Theater.Name, r.Theater.City, r.Theater.State)
		}
	}
	if len(noPhotos) > 0 {
		fmt.Fprintf(&b, "\nNO PHOTOS AVAILABLE (%d)\n---------------------\n", len(noPhotos))
		for _, r := range noPhotos {
			fmt.Fprintf(&b, "  o %s (%s, %s)\n", r.Theater.Name, r.Theater.City, r.Theater.State)
			if r.PlaceName != "" {
				fmt.Fprintf(&b, "    Google Place: %q\n", r.PlaceName)
			}
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&b, "\nERRORS (%d)\n------\n", len(failed))
		for _, r := range failed {
			fmt.Fprintf(&b, "  x %s (%s, %s)\n", r.Theater.Name, r.Theater.City, r.Theater.State)
			fmt.Fprintf(&b, "    Error: %s\n", r.Error)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", rule)
	return b.String()
}

// ReportPath names the report file for a run finished at t.
func ReportPath(dir string, t time.Time) string {
	return filepath.Join(dir, "report-"+t.UTC().Format("20060102T150405")+".txt")
}

// WriteReport saves report under dir and returns its path.
func WriteReport(dir, report string, t time.Time) (string, error) {
	path := ReportPath(dir, t)
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
