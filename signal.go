// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
)

// interruptSignals defines the signals that cancel the running command.
// Conditional compilation is used to also include SIGTERM on Unix.
var interruptSignals = []os.Signal{os.Interrupt}

// interruptListener returns a context which is canceled on the first
// interrupt signal.  A second signal exits right away, for a lookup or
// broadcast that does not honor cancellation.  The returned stop function
// unregisters the handler.
func interruptListener(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-interruptChannel:
			log.Infof("Received signal (%s).  Shutting down...", sig)
			cancel()

		case <-done:
			return
		}

		select {
		case sig := <-interruptChannel:
			log.Warnf("Received signal (%s) again.  Exiting now.", sig)
			os.Exit(1)

		case <-done:
		}
	}()

	stop := func() {
		signal.Stop(interruptChannel)
		close(done)
		cancel()
	}
	return ctx, stop
}
