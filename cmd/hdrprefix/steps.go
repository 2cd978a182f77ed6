package main

import (
	"context"

	"hdrprefix/internal/logging"
	"hdrprefix/internal/rewrite"
)

// invocation holds the operation flags of one run.
type invocation struct {
	Pref     string
	File     string
	Path     string
	SpaceSrc string
	SpaceDst string
}

// step is one operation selected by the execution policy.
type step struct {
	name   string
	target string
	run    func(ctx context.Context, d *rewrite.Driver) error
}

// planSteps selects the operations to run, in order. The conditions are
// independent; any combination may fire. Targets that do not exist are
// skipped without error.
func planSteps(inv invocation, exists func(string) bool) []step {
	var steps []step

	present := func(name, target string) bool {
		if target == "" {
			return false
		}
		if !exists(target) {
			logging.CLIDebug("skipping %s: %s does not exist", name, target)
			return false
		}
		return true
	}

	if inv.Pref != "" && present("include rewrite", inv.Path) {
		steps = append(steps, step{
			name:   "include rewrite",
			target: inv.Path,
			run: func(ctx context.Context, d *rewrite.Driver) error {
				return d.RewriteIncludesUnder(ctx, inv.Path)
			},
		})
	}

	if inv.Pref != "" && present("include rewrite", inv.File) {
		steps = append(steps, step{
			name:   "include rewrite",
			target: inv.File,
			run: func(ctx context.Context, d *rewrite.Driver) error {
				return d.RewriteIncludesInFile(ctx, inv.File)
			},
		})
	}

	if inv.SpaceSrc != "" && inv.SpaceDst != "" && present("namespace rename", inv.Path) {
		steps = append(steps, step{
			name:   "namespace rename",
			target: inv.Path,
			run: func(ctx context.Context, d *rewrite.Driver) error {
				return d.RenameNamespaceUnder(ctx, inv.Path, inv.SpaceSrc, inv.SpaceDst)
			},
		})
	}

	return steps
}
