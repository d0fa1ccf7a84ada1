package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// fanOutSelf launches n copies of the running binary with args, each
// forced to --workers=1 so children never recurse into their own
// fan-out, and waits for all of them. Go has no fork(); re-executing
// itself is the idiomatic stand-in for the original's
// multiprocessing.Process pool.
func fanOutSelf(ctx context.Context, n int, args []string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("fanout: resolve executable: %w", err)
	}

	childArgs := append(append([]string{}, args...), "--workers=1")

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := exec.CommandContext(ctx, self, childArgs...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Stdin = os.Stdin
			fmt.Fprintf(os.Stderr, "starting worker process %d/%d\n", i+1, n)
			errs[i] = cmd.Run()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
