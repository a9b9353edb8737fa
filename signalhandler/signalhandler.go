package signalhandler

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tiMaxal/pairs3d/logging"
	"github.com/tiMaxal/pairs3d/pairing"
)

// SetupRunContext returns a context that is cancelled on SIGINT or SIGTERM,
// so an interrupted run still reports the pairs committed so far. SIGUSR1
// toggles the pairing pause:
//
//	kill -USR1 $(pidof pairs3d)
//
// The returned stop function releases the signal handlers.
func SetupRunContext(parent context.Context, control *pairing.Control) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigChan:
				switch sig {
				case syscall.SIGINT, syscall.SIGTERM:
					logging.LogInfo("interrupted, finishing with partial result")
					cancel()
					return
				case syscall.SIGUSR1:
					if control == nil {
						continue
					}
					if control.Toggle() {
						logging.LogInfo("paused (send SIGUSR1 again to resume)")
					} else {
						logging.LogInfo("resumed")
					}
				}
			}
		}
	}()

	return ctx, cancel
}
