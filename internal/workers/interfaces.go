// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the client's background jobs for the lifetime of a
// signed-in session.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
//
// Start must not block; Stop must wait until the job has exited and be
// safe to call on a stopped worker.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
