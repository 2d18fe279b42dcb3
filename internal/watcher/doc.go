// Package watcher notifies about modifications of a single file.
//
// A Watcher combines fsnotify on the file's parent directory with a periodic
// stat poll, debounces bursts of changes, and delivers ChangeEvent values on
// a channel with room for one pending event. Consumers range over the
// channel; it is closed when the watcher stops.
//
//	w, err := watcher.New(watcher.Config{Path: "partnerships.xml", Interval: 10 * time.Second})
//	events, err := w.Start(ctx)
//	for ev := range events {
//		reload(ev)
//	}
//
// Stop waits for the watch loop to exit, so no event is delivered after it
// returns.
package watcher
