package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"

	"github.com/cbegin/soundtype-go"
)

// exportAll renders text once per preset into dir, a few presets at a time.
// Each render owns its buffer, so workers share nothing but the engine's
// read-only catalog.
func exportAll(engine *soundtype.Engine, text, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var (
		mu   sync.Mutex
		errs []error
	)
	swg := sizedwaitgroup.New(runtime.NumCPU())
	for _, p := range engine.Presets() {
		swg.Add()
		go func(id string) {
			defer swg.Done()
			data, err := engine.RenderWAV(text, id)
			if err == nil && data != nil {
				path := filepath.Join(dir, id+".wav")
				err = os.WriteFile(path, data, 0o644)
				if err == nil {
					mu.Lock()
					fmt.Printf("wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
					mu.Unlock()
				}
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				mu.Unlock()
			}
		}(p.ID)
	}
	swg.Wait()
	return errors.Join(errs...)
}
