package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/pagelog/internal/aggregator"
	"github.com/tinytelemetry/pagelog/internal/cdp"
	"github.com/tinytelemetry/pagelog/internal/httpserver"
)

// runCapture attaches to the browser, streams the transcript, and prints
// the final report on shutdown.
func runCapture(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsURL := cfg.WSURL
	if wsURL == "" {
		discovered, err := cdp.DiscoverWSURL(ctx, cfg.DevtoolsAddr)
		if err != nil {
			return fmt.Errorf("discovering page target: %w", err)
		}
		wsURL = discovered
	}

	client, err := cdp.Dial(ctx, wsURL)
	if err != nil {
		return fmt.Errorf("connecting to page: %w", err)
	}
	defer client.Stop()

	opts := aggregator.DefaultOptions()
	opts.BasePathPrefix = cfg.BasePath
	opts.AutoEmit = cfg.AutoEmit
	opts.Sink = aggregator.NewWriterSink(os.Stdout)
	opts.PersistReports = cfg.ReportToFile
	opts.ReportDir = cfg.ReportDir
	opts.ReportPrefix = cfg.ReportPrefix
	agg := aggregator.New(client, opts)

	if err := client.Start(); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, agg)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer apiServer.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now - not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, wsURL)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-client.Done():
			log.Printf("pagelog: browser session ended")
		}
		return nil
	})

	if cfg.SessionTimeout > 0 {
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-time.After(cfg.SessionTimeout):
				log.Printf("pagelog: session timeout reached")
				cancel()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("pagelog: capture exited with error: %v", err)
	}

	cancel()
	client.Stop()
	signal.Stop(sigCh)

	if err := agg.PrintReport(cfg.ReportTitle); err != nil {
		return fmt.Errorf("writing final report: %w", err)
	}
	return nil
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "pagelog")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(logDir, "pagelog.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, wsURL string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cyan.Bold(true).Render("  pagelog")+" "+dim.Render("v"+version))
	lines = append(lines, "")
	lines = append(lines, bold.Render("  Capture"))
	lines = append(lines, fmt.Sprintf("  %s  Page         %s", check, cyan.Render(wsURL)))
	if cfg.AutoEmit {
		lines = append(lines, fmt.Sprintf("  %s  Live Stream  %s", check, dim.Render("stdout")))
	} else {
		lines = append(lines, fmt.Sprintf("  %s  Live Stream  %s", dot, dim.Render("disabled")))
	}
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("  %s  HTTP API     %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("  %s  HTTP API     %s", dot, dim.Render("disabled")))
	}
	if cfg.ReportToFile {
		lines = append(lines, fmt.Sprintf("  %s  Report Files %s", check, dim.Render(shortenPath(cfg.ReportDir))))
	} else {
		lines = append(lines, fmt.Sprintf("  %s  Report Files %s", dot, dim.Render("disabled")))
	}
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("  %s  Config       %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	}
	lines = append(lines, "")
	lines = append(lines, "  "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop and print the report"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
