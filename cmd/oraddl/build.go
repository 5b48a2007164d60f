package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/chain"
	"github.com/hlop3z/oraddl/internal/git"
	"github.com/hlop3z/oraddl/internal/idempotent"
	"github.com/hlop3z/oraddl/internal/plan"
	"github.com/hlop3z/oraddl/internal/script"
	"github.com/hlop3z/oraddl/internal/sqlgen"
	"github.com/hlop3z/oraddl/internal/ui"
)

// build is a command list ready to write, verify, browse or apply.
type build struct {
	Name     string // script path or plan source description
	Sources  []string
	Commands []sqlgen.Command
	Skipped  []idempotent.Skipped
	Chain    *chain.Chain

	Revision     string   // git revision of the plan files
	PlanWarnings []string // uncommitted plan files
}

// Texts returns the command texts in order.
func (b *build) Texts() []string {
	out := make([]string, len(b.Commands))
	for i, c := range b.Commands {
		out[i] = c.Text
	}
	return out
}

// buildFromPlans loads the plan files named by args (or the plans
// directory) and generates the script.
func buildFromPlans(ctx context.Context, cfg *Config, args []string) (*build, error) {
	if len(args) == 0 {
		args = []string{cfg.PlansDir}
	}
	paths, err := plan.Discover(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, alerr.New(alerr.ErrPlanInvalid, "no plan files found").
			With("paths", strings.Join(args, ", ")).
			WithHelp("plan files end in .yaml, .yml, .json or .js")
	}

	plans, err := plan.LoadAll(ctx, paths, cfg.planOptions())
	if err != nil {
		return nil, err
	}
	ops, model := plan.Merge(plans)
	slog.Debug("plans loaded", "files", len(paths), "operations", len(ops))

	res, err := idempotent.NewOracle(cfg.generatorOptions()).Generate(ops, model)
	if err != nil {
		return nil, err
	}
	ch, err := chain.Compute(res.Commands)
	if err != nil {
		return nil, err
	}

	b := &build{
		Name:     strings.Join(args, ", "),
		Sources:  paths,
		Commands: res.Commands,
		Skipped:  res.Skipped,
		Chain:    ch,
	}
	b.Revision, b.PlanWarnings = planRevision(args[0])
	return b, nil
}

// planRevision reads the git state of the repository holding path.
func planRevision(path string) (string, []string) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	state, err := git.CheckPlans(dir)
	if err != nil {
		slog.Debug("cannot read plan repository", "path", dir, "error", err)
		return "", nil
	}
	return state.RevisionLabel(), state.Warnings()
}

// buildFromScript reads a generated script. When verify is set the script
// must match its lockfile.
func buildFromScript(path string, verify bool) (*build, error) {
	texts, err := script.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ch, err := chain.ComputeTexts(texts)
	if err != nil {
		return nil, err
	}

	lock, err := chain.ReadLock(chain.LockPath(path))
	if err != nil {
		return nil, err
	}
	if verify {
		if lock == nil {
			return nil, alerr.New(alerr.ErrScriptChecksum, "script has no lockfile").
				WithFile(path, 0).
				WithHelp(fmt.Sprintf("regenerate the script or pass --no-verify to skip the check (%s)", chain.LockPath(path)))
		}
		if err := ch.Verify(lock).Err(); err != nil {
			return nil, err
		}
	}

	cmds := make([]sqlgen.Command, len(texts))
	for i, text := range texts {
		cmds[i] = sqlgen.Command{Text: text, Op: -1}
		if lock != nil && i < len(lock.Commands) {
			cmds[i].Kind = lock.Commands[i].Kind
			ch.Links[i].Kind = lock.Commands[i].Kind
		}
	}

	return &build{Name: path, Sources: []string{path}, Commands: cmds, Chain: ch}, nil
}

// browseItems turns the commands into browser entries.
func (b *build) browseItems() []ui.Item {
	items := make([]ui.Item, len(b.Commands))
	for i, c := range b.Commands {
		kind := c.Kind
		if kind == "" {
			kind = "command"
		}
		items[i] = ui.Item{
			Title:    fmt.Sprintf("%3d  %s", i+1, kind),
			Subtitle: b.Chain.Links[i].Checksum[:12],
			Detail:   c.Text,
		}
	}
	return items
}

// commandLabels names each command for progress output.
func (b *build) commandLabels() []string {
	labels := make([]string, len(b.Commands))
	for i, c := range b.Commands {
		labels[i] = c.Kind
		if labels[i] == "" {
			labels[i] = "command"
		}
	}
	return labels
}

// skippedWarnings describes the operations left out of the script.
func (b *build) skippedWarnings() []string {
	out := make([]string, len(b.Skipped))
	for i, s := range b.Skipped {
		out[i] = fmt.Sprintf("skipped operation #%d %s: %s", s.Index+1, s.Kind, s.Reason)
	}
	return out
}
