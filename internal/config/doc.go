// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads, merges and validates the configuration of the
// task keeper client and development server.
//
// Configuration is assembled from multiple sources (later sources override
// earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. Config file, JSON with comments or YAML
//
// Fields still zero after merging take built-in defaults. The entry points
// are [GetClientConfig] and [GetDevServerConfig].
package config
