// Command scrollctl loads a scroll-enhancement request from a YAML file,
// computes the optimal scroll policy, and either prints the decision or
// serves it for inspection in a browser.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/capreolina/scroll-strategist/internal/config"
	"github.com/capreolina/scroll-strategist/internal/engine"
	"github.com/capreolina/scroll-strategist/internal/server"
)

var (
	configPath *string
	serve      *bool
	addr       *string
	debug      *bool
)

func init() {
	configPath = flag.String("config", "./request.yaml", "path to the request YAML file")
	serve = flag.Bool("serve", false, "serve the decision and policy tree over http instead of printing it")
	addr = flag.String("addr", ":8080", "address to listen on when -serve is set")
	debug = flag.Bool("debug", false, "print the evaluator's memo size and other diagnostics")
	flag.Parse()
}

func runApp() error {
	req, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("scrollctl: %w", err)
	}

	if *serve {
		res, tree, err := engine.EvaluateTree(req)
		if err != nil {
			return fmt.Errorf("scrollctl: %w", err)
		}
		return server.New(*addr, res, tree, nil).Serve()
	}

	res, err := engine.Evaluate(req)
	if err != nil {
		return fmt.Errorf("scrollctl: %w", err)
	}

	if res.HasChoice {
		fmt.Printf("choice=%d p_goal=%.6f e_cost=%.2f\n", res.Choice, res.PGoal, res.ECost)
	} else {
		fmt.Printf("no scroll to apply: p_goal=%.6f e_cost=%.2f\n", res.PGoal, res.ECost)
	}
	if *debug {
		fmt.Printf("memoized states: %d\n", res.Memoized)
	}
	return nil
}

func main() {
	if err := runApp(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
