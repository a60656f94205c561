package dispatch

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/j3k0/mooncrescent/internal/moonraker"
)

// fileCache is a soft cache of the daemon's gcode file listing plus the
// `#N` id map from the most recent `ls`. Ids count newest-first: #0 is
// always the most recently modified file of the listing that produced
// the map, so each `ls` invocation (filtered or not) redefines the map
// from its own result set.
type fileCache struct {
	ttl     time.Duration
	files   []moonraker.FileInfo // oldest first
	fetched time.Time
	ids     []string // ids[n] is the filename behind #n
}

func (fc *fileCache) stale() bool {
	return fc.fetched.IsZero() || time.Since(fc.fetched) > fc.ttl
}

// setIDs rebuilds the id map from a listing sorted oldest first.
func (fc *fileCache) setIDs(files []moonraker.FileInfo) {
	fc.ids = make([]string, len(files))
	for i := range files {
		fc.ids[i] = files[len(files)-1-i].Path
	}
}

// refreshFiles revalidates the listing cache. With force it always
// refetches (every `ls` shows live data); otherwise only when stale.
func (d *Dispatcher) refreshFiles(force bool) error {
	if !force && !d.cache.stale() {
		return nil
	}

	files, err := d.api.ListFiles()
	if err != nil {
		return err
	}
	d.cache.files = files
	d.cache.fetched = time.Now()
	return nil
}

// resolveTarget maps a `#N` token to the filename it was assigned in
// the most recent listing, or returns any other argument as a literal
// filename. An unresolvable token is an error naming the token, never a
// literal filename.
func (d *Dispatcher) resolveTarget(arg string) (string, *Line) {
	if !strings.HasPrefix(arg, "#") {
		return arg, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// No listing yet this session: build an id map from a fresh fetch
	if len(d.cache.ids) == 0 {
		if err := d.refreshFiles(false); err == nil {
			d.cache.setIDs(d.cache.files)
		}
	}

	n, err := strconv.Atoi(arg[1:])
	if err != nil || n < 0 || n >= len(d.cache.ids) {
		line := errorf("Unknown file ID: %s. Use 'ls' to see available files.", arg)
		return "", &line
	}
	return d.cache.ids[n], nil
}

// listFiles implements `ls [-l] [glob]`.
func (d *Dispatcher) listFiles(arg string) []Line {
	showDetails := false
	var patternParts []string
	for _, field := range strings.Fields(arg) {
		if strings.EqualFold(field, "-l") {
			showDetails = true
			continue
		}
		patternParts = append(patternParts, field)
	}
	pattern := strings.Join(patternParts, " ")

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.refreshFiles(true); err != nil {
		return []Line{errorf("No files found or unable to query")}
	}

	files := d.cache.files
	if pattern != "" {
		var filtered []moonraker.FileInfo
		for _, f := range files {
			matched, err := path.Match(strings.ToLower(pattern), strings.ToLower(f.Path))
			if err != nil {
				return []Line{errorf("Bad pattern: %s", pattern)}
			}
			if matched {
				filtered = append(filtered, f)
			}
		}
		files = filtered
		if len(files) == 0 {
			return []Line{info("No files matching '%s'", pattern)}
		}
	}

	// This listing redefines the #N id map, filtered or not
	d.cache.setIDs(files)

	if showDetails {
		return d.detailedListing(files)
	}
	return d.simpleListing(files)
}

func (d *Dispatcher) simpleListing(files []moonraker.FileInfo) []Line {
	lines := []Line{info("Found %d file(s):", len(files))}
	for i, f := range files {
		id := fmt.Sprintf("#%d", len(files)-1-i)
		lines = append(lines, info("  %-5s %s (%s)", id, f.Path, formatSize(f.Size)))
	}
	return lines
}

func (d *Dispatcher) detailedListing(files []moonraker.FileInfo) []Line {
	lines := []Line{
		info("%-5s %-10s %-8s %-10s %s", "ID", "SIZE", "TIME", "FILAMENT", "FILENAME"),
		info("%s", strings.Repeat("-", 70)),
	}
	for i, f := range files {
		id := fmt.Sprintf("#%d", len(files)-1-i)

		timeStr, filamentStr := "?", "?"
		// Metadata is fetched per file; slow listings are the price of -l
		if meta, err := d.api.GetFileMetadata(f.Path); err == nil {
			if meta.EstimatedTime > 0 {
				timeStr = formatDuration(meta.EstimatedTime)
			}
			if meta.FilamentTotal > 0 {
				filamentStr = fmt.Sprintf("%.1fm", meta.FilamentTotal/1000)
			}
		}

		lines = append(lines, info("%-5s %-10s %-8s %-10s %s", id, formatSize(f.Size), timeStr, filamentStr, f.Path))
	}
	return lines
}

// FreshFilenames returns the cached listing, revalidating it first when
// stale. Used by tab completion.
func (d *Dispatcher) FreshFilenames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.refreshFiles(false); err != nil {
		return nil
	}
	names := make([]string, len(d.cache.files))
	for i, f := range d.cache.files {
		names[i] = f.Path
	}
	return names
}
