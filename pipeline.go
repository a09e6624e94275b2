package spritehd

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/bodgit/spritehd/resize"
	"github.com/bodgit/spritehd/sprite"
)

func (s *SpriteHD) feedFiles(ctx context.Context, files []string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, file := range files {
			select {
			case out <- file:
			case <-ctx.Done():
				errc <- errors.New("resize cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (s *SpriteHD) resizeWorker(ctx context.Context, r resize.Resizer, dir string, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}

			// Always PNG encoded, so always named as such
			target := filepath.Join(dir, sprite.Name(file)+".png")
			if err := resize.File(r, file, target); err != nil {
				errc <- err
				return
			}
			s.logger.Printf("Resized %s to %s\n", file, target)
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error, cancelling the remaining stages,
// but only once every stage has finished
func waitForPipeline(cancelFunc context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancelFunc()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// resizeAll writes a 50% copy of each file into dir using a pool of workers.
// The first error cancels any outstanding work.
func (s *SpriteHD) resizeAll(ctx context.Context, r resize.Resizer, files []string, dir string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	in, errc, err := s.feedFiles(ctx, files)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := s.resizeWorker(ctx, r, dir, in)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
