package transport

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/photonicat/mintaka_screen/internal/protocol"
)

// WatchFile sends the file at path as a full transfer on start and again
// every time it is written or replaced. Each line of the file is one row.
func WatchFile(ctx context.Context, path string, out chan<- protocol.Chunk) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory so editors that rename over the file are seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	clean := filepath.Clean(path)

	if err := sendFile(ctx, path, out); err != nil {
		log.Printf("transport file: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != clean || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := sendFile(ctx, path, out); err != nil {
				log.Printf("transport file: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("transport file: watcher error: %v", err)
		}
	}
}

func sendFile(ctx context.Context, path string, out chan<- protocol.Chunk) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, c := range protocol.EncodeLines(protocol.SplitText(string(data))) {
		select {
		case out <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
