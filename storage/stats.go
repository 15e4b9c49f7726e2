package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"
)

// BucketStats summarizes the objects of a store.
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
	ByFolder     map[string]int64 // bytes per top-level folder
}

// Stats lists prefix and totals the result.
func Stats(ctx context.Context, s Store, prefix string) ([]ObjectInfo, *BucketStats, error) {
	objects, err := s.List(ctx, prefix)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })

	stats := &BucketStats{ByFolder: make(map[string]int64)}
	for _, obj := range objects {
		stats.TotalObjects++
		stats.TotalSize += obj.Size
		if obj.LastModified.After(stats.LastModified) {
			stats.LastModified = obj.LastModified
		}
		folder := "."
		if i := strings.Index(obj.Key, "/"); i > 0 {
			folder = obj.Key[:i]
		}
		stats.ByFolder[folder] += obj.Size
	}
	return objects, stats, nil
}

// PrintStatus writes a human readable report of the store contents.
func PrintStatus(ctx context.Context, w io.Writer, s Store, prefix string) error {
	objects, stats, err := Stats(ctx, s, prefix)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Prefix:        %q\n", prefix)
	fmt.Fprintf(w, "Objects:       %d\n", stats.TotalObjects)
	fmt.Fprintf(w, "Total size:    %s\n", FormatSize(stats.TotalSize))
	if !stats.LastModified.IsZero() {
		fmt.Fprintf(w, "Last modified: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}

	folders := make([]string, 0, len(stats.ByFolder))
	for f := range stats.ByFolder {
		folders = append(folders, f)
	}
	sort.Strings(folders)
	for _, f := range folders {
		fmt.Fprintf(w, "  %-14s %s\n", f+"/", FormatSize(stats.ByFolder[f]))
	}

	fmt.Fprintln(w)
	for _, obj := range objects {
		fmt.Fprintf(w, "  %s  %8s  %s\n", obj.LastModified.Format("2006-01-02 15:04"), FormatSize(obj.Size), path.Clean(obj.Key))
	}
	return nil
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
