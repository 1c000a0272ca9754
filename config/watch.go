package config

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// Watch watches the .env file and invokes onChange with the current
// LOG_LEVEL value whenever the file is rewritten. Only the log level is
// applied live; everything else requires a restart. Returns a stop function.
func Watch(path string, onChange func(level string)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				vars, err := godotenv.Read(path)
				if err != nil {
					continue
				}
				level := vars["LOG_LEVEL"]
				if level == "" {
					level = os.Getenv("LOG_LEVEL")
				}
				if level != "" {
					onChange(level)
				}
			case <-watcher.Errors:
				// Watcher errors are non-fatal; the next write will retry.
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
