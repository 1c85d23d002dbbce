// Package main is a standalone terminal entrypoint for the Change
// Grouping Engine, grounded on the teacher's cmd/sync-vault banner/
// color-code style but running Engine.Analyze against a local repository
// instead of syncing a vault. Useful for the developer persona in spec §1
// who wants a grouping without standing up the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/viewv/smartcommitcore/internal/config"
	"github.com/viewv/smartcommitcore/internal/engine"
	"github.com/viewv/smartcommitcore/internal/export"
	"github.com/viewv/smartcommitcore/internal/gitsource"
	"github.com/viewv/smartcommitcore/internal/refgraph"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func main() {
	fmt.Printf("%s%sSmart Commit — Change Grouping Engine%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("%s%s%s\n\n", colorGray, strings.Repeat("─", 40), colorReset)

	repoPath := "."
	if len(os.Args) > 1 {
		repoPath = os.Args[1]
	}
	baseRevision := "HEAD"
	if len(os.Args) > 2 {
		baseRevision = os.Args[2]
	}

	fmt.Printf("%s→%s Opening repository at %s%s%s...\n", colorBlue, colorReset, colorYellow, repoPath, colorReset)
	source, err := gitsource.Open(repoPath)
	if err != nil {
		fmt.Printf("%s✗ Failed to open repository:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	fmt.Printf("%s→%s Enumerating changes against %s%s%s...\n", colorBlue, colorReset, colorYellow, baseRevision, colorReset)
	workingSet, err := source.EnumerateWorkingTree(baseRevision)
	if err != nil {
		fmt.Printf("%s✗ Failed to enumerate changes:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}
	fmt.Printf("%s✓%s Found %d changed file(s)\n\n", colorGreen, colorReset, len(workingSet.Files))

	cfg := config.DefaultConfig().Engine
	eng, err := engine.New(cfg, nil, refgraph.NewGoParser())
	if err != nil {
		fmt.Printf("%s✗ Failed to construct engine:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	fmt.Printf("%s→%s Building reference graphs and deriving groups...\n", colorBlue, colorReset)
	result, err := eng.Analyze(context.Background(), engine.Input{
		Files:        workingSet.Files,
		BaseFiles:    workingSet.BaseFiles,
		CurrentFiles: workingSet.CurrentFiles,
	})
	if err != nil {
		fmt.Printf("%s✗ Analysis failed:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	fmt.Printf("%s✓%s Produced %s%d%s group(s) in %s%s\n\n", colorGreen, colorReset, colorYellow, len(result.Groups), colorReset, result.Duration, colorReset)

	fmt.Printf("%sGroups:%s\n", colorBold, colorReset)
	for _, g := range result.Groups {
		label := g.IntentLabel
		if label == "" {
			label = "(no intent label)"
		}
		fmt.Printf("  %sgroup%d%s %s— %d hunk(s) across %d file(s), %s%s\n", colorCyan, g.GroupID, colorReset, colorGray, len(g.DiffHunkIDs), len(g.Files), label, colorReset)
		for _, f := range g.Files {
			fmt.Printf("    %s•%s %s\n", colorGray, colorReset, f)
		}
	}

	if len(result.Diagnostics) > 0 {
		fmt.Printf("\n%sDiagnostics:%s\n", colorBold, colorReset)
		for _, d := range result.Diagnostics {
			fmt.Printf("  %s⚠%s %s: %s\n", colorYellow, colorReset, d.FilePath, d.Message)
		}
	}

	if dotPath := os.Getenv("SMARTCOMMIT_DOT_OUT"); dotPath != "" {
		dotGraph := export.DOT(result.DiffHunkGraph, result.Groups)
		if err := os.WriteFile(dotPath, []byte(dotGraph), 0o644); err != nil { // #nosec G306 -- debug artifact, not sensitive
			fmt.Printf("%s✗ Failed to write DOT snapshot:%s %v\n", colorRed, colorReset, err)
			os.Exit(1)
		}
		fmt.Printf("\n%s✓%s Wrote DOT snapshot to %s%s%s\n", colorGreen, colorReset, colorCyan, dotPath, colorReset)
	}

	fmt.Printf("\n%s✨ Done!%s\n", colorGreen, colorReset)
}
