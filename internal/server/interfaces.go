// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server is the lifecycle of the development server.
//
// [RunServer] blocks until a termination signal arrives; [Shutdown] stops
// the listener and waits for in-flight requests.
type Server interface {
	RunServer()
	Shutdown()
}
