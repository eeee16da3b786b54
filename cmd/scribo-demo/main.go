package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/ternarybob/banner"

	"github.com/ternarybob/scribo"
	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/pkg/config"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Scribo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Auto-discover a config file when none was specified.
	if len(configFiles) == 0 {
		if _, err := os.Stat("scribo.toml"); err == nil {
			configFiles = append(configFiles, "scribo.toml")
		}
	}

	cfg := config.Default()
	if len(configFiles) > 0 {
		loaded, err := config.Load(configFiles...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	banner.PrintSimple("Scribo", common.GetVersion())

	if err := scribo.Init(cfg); err != nil {
		// The pipeline keeps running without the durable sink; for the demo
		// that defeats the point, so bail out loudly.
		fmt.Fprintf(os.Stderr, "durable sink unavailable: %v\n", err)
		os.Exit(1)
	}

	_ = scribo.DumpConfig(os.Stdout)

	// One burst per level from the main goroutine.
	scribo.Trace("trace from main")
	scribo.Info("info from main")
	scribo.Warn("warn from main")
	scribo.Error("error from main")
	scribo.Critical("critical from main")

	// A record without a message is valid and distinct from an empty one.
	scribo.Warn()

	// Concurrent producers; the store keeps each goroutine's records in its
	// own order.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				scribo.Info(fmt.Sprintf("worker %d message %d", worker, j))
			}
		}(i)
	}
	wg.Wait()

	if err := scribo.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush failed: %v\n", err)
	}

	if err := scribo.DumpRecords(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
	}
}
