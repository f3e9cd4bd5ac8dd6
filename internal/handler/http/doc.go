// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http is the HTTP surface of the development server.
//
// Success responses use the {success, message, data} envelope. Task and
// authentication failures are reported inside a "detail" object with an
// error code, conversation lookups answer 200 with success=false, and
// ownership violations on chat endpoints carry a plain "detail" string.
// Task ids are numeric, is_completed is emitted as 0/1 and timestamps carry
// no zone designator.
package http
