// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// NetAddress holds a validated host:port pair. It implements [pflag.Value].
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the command-line arguments (without the program name).
//
// Flags:
//
//	-c, --config            config file path (.json or .yaml)
//	-l, --log-level         log level
//	    --log-file          client log file
//	-u, --base-url          remote service base URL
//	    --request-timeout   per-request timeout (e.g. "10s")
//	-b, --storage-backend   "sqlite" or "file"
//	-d, --dsn               SQLite database path
//	-s, --session-file      session file for the file backend
//	-r, --refresh-interval  background refresh period, 0 disables
//	-a, --address           devserver listen address host:port
//	    --devserver-dsn     devserver SQLite database
//	    --token-sign-key    devserver JWT signing key
//	    --token-issuer      devserver JWT issuer
//	    --token-duration    devserver JWT lifetime (e.g. "24h")
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var address NetAddress

	fs := pflag.NewFlagSet("task-keeper", pflag.ContinueOnError)
	fs.StringVarP(&cfg.ConfigFilePath, "config", "c", "", "Config file path (.json or .yaml)")
	fs.StringVarP(&cfg.App.LogLevel, "log-level", "l", "", "Log level")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Client log file")
	fs.StringVarP(&cfg.Adapter.BaseURL, "base-url", "u", "", "Remote service base URL")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Request timeout (e.g. 10s)")
	fs.StringVarP(&cfg.Storage.Backend, "storage-backend", "b", "", "Session storage backend: sqlite or file")
	fs.StringVarP(&cfg.Storage.DSN, "dsn", "d", "", "SQLite database path")
	fs.StringVarP(&cfg.Storage.SessionFile, "session-file", "s", "", "Session file for the file backend")
	fs.DurationVarP(&cfg.Workers.RefreshInterval, "refresh-interval", "r", 0, "Background refresh interval, 0 disables")
	fs.VarP(&address, "address", "a", "Devserver listen address host:port")
	fs.StringVar(&cfg.DevServer.DSN, "devserver-dsn", "", "Devserver SQLite database")
	fs.StringVar(&cfg.DevServer.TokenSignKey, "token-sign-key", "", "Devserver token signing key")
	fs.StringVar(&cfg.DevServer.TokenIssuer, "token-issuer", "", "Devserver token issuer")
	fs.DurationVar(&cfg.DevServer.TokenDuration, "token-duration", 0, "Devserver token lifetime (e.g. 24h)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	cfg.DevServer.Address = address.String()

	return cfg, nil
}

// String returns host:port, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Type implements [pflag.Value].
func (a *NetAddress) Type() string {
	return "host:port"
}

// Set parses host:port. The host must be "localhost", an IP address or
// empty (all interfaces).
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be within 1..65535")
	}

	if host != "" && !strings.EqualFold(host, "localhost") && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
