// Command demoserver serves a demo calculator site for trying GEO audits.
// Usage: go run ./cmd/demoserver [port] [variant]
// Default port: 9999, default variant: optimized
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/auriti-labs/geo-optimizer/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}
	if len(os.Args) > 2 {
		cfg.InitialVariant = os.Args[2]
	}

	fmt.Println("===========================================")
	fmt.Println("   GEO Optimizer Demo Site")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Variants:")
	fmt.Println("  - optimized: robots.txt with AI bots, llms.txt, sitemap,")
	fmt.Println("               JSON-LD, meta tags and cited statistics")
	fmt.Println("  - bare:      plain homepage, nothing else")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
