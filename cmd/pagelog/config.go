package main

import (
	"time"

	"github.com/tinytelemetry/pagelog/internal/model"
)

const (
	defaultDevtoolsAddr   = "127.0.0.1:9222"
	defaultBindHost       = "127.0.0.1"
	defaultAPIPort        = 3800
	defaultReportTitle    = model.DefaultReportTitle
	defaultReportDir      = model.DefaultReportDir
	defaultReportPrefix   = model.DefaultReportPrefix
	defaultSessionTimeout = 0 * time.Second // 0 = run until signal or browser disconnect
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	WSURL          string        `mapstructure:"ws-url" yaml:"ws-url"`
	DevtoolsAddr   string        `mapstructure:"devtools-addr" yaml:"devtools-addr"`
	BasePath       string        `mapstructure:"base-path" yaml:"base-path"`
	AutoEmit       bool          `mapstructure:"auto-emit" yaml:"auto-emit"`
	APIEnabled     bool          `mapstructure:"api-enabled" yaml:"api-enabled"`
	APIPort        int           `mapstructure:"api-port" yaml:"api-port"`
	APIAddr        string        `mapstructure:"api-addr" yaml:"api-addr"`
	ReportTitle    string        `mapstructure:"report-title" yaml:"report-title"`
	ReportDir      string        `mapstructure:"report-dir" yaml:"report-dir"`
	ReportPrefix   string        `mapstructure:"report-prefix" yaml:"report-prefix"`
	ReportToFile   bool          `mapstructure:"report-to-file" yaml:"report-to-file"`
	SessionTimeout time.Duration `mapstructure:"session-timeout" yaml:"session-timeout"`
	ConfigPath     string        `mapstructure:"-" yaml:"-"` // not from config file
}
