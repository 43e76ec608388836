package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jbweber/kickvm/internal/config"
)

// Provisioner runs one VM provisioning run.
type Provisioner interface {
	Run(ctx context.Context, cfg *config.RunConfig) error
}

// parseFunc turns a complete argument vector into a resolved configuration.
type parseFunc func(args []string) (*config.RunConfig, error)

// Orchestrator provisions rows strictly one after another and stops at the
// first failure. VMs created by earlier rows are left in place.
type Orchestrator struct {
	provisioner Provisioner
	parse       parseFunc
	out         io.Writer
}

// NewOrchestrator returns an Orchestrator that parses each row with the same
// rules as a single run-all invocation. Row banners are written to out.
func NewOrchestrator(p Provisioner, out io.Writer) *Orchestrator {
	return &Orchestrator{
		provisioner: p,
		parse: func(args []string) (*config.RunConfig, error) {
			return config.ParseArgs(args, config.ScopeAll)
		},
		out: out,
	}
}

// Run merges global in front of each fragment, parses the result, and
// provisions it before moving to the next fragment.
func (o *Orchestrator) Run(ctx context.Context, global []string, fragments [][]string) error {
	log := logrus.WithField("batch", uuid.New().String())
	log.Infof("Starting batch of %d VMs", len(fragments))

	banner := color.New(color.FgCyan, color.Bold)
	for i, fragment := range fragments {
		row := i + 1
		rowLog := log.WithField("row", row)

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch cancelled before row %d: %w", row, err)
		}

		cfg, err := o.parse(merge(global, fragment))
		if err != nil {
			rowLog.Errorf("Failed to parse row: %v", err)
			return fmt.Errorf("row %d: %w", row, err)
		}

		_, _ = banner.Fprintf(o.out, "#### Creating %s ####\n", cfg.VM.Name)
		rowLog = rowLog.WithField("vm", cfg.VM.Name)
		rowLog.Infof("Provisioning")

		if err := o.provisioner.Run(ctx, cfg); err != nil {
			rowLog.Errorf("Provisioning failed, remaining %d rows skipped", len(fragments)-row)
			return fmt.Errorf("row %d (%s): %w", row, cfg.VM.Name, err)
		}
		rowLog.Infof("Provisioned")
	}

	log.Infof("Batch complete, %d VMs provisioned", len(fragments))
	return nil
}

// Plan parses every row the way Run would, without provisioning anything.
func (o *Orchestrator) Plan(global []string, fragments [][]string) ([]*config.RunConfig, error) {
	cfgs := make([]*config.RunConfig, 0, len(fragments))
	for i, fragment := range fragments {
		cfg, err := o.parse(merge(global, fragment))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

// merge returns global followed by fragment in a new slice.
func merge(global, fragment []string) []string {
	args := make([]string, 0, len(global)+len(fragment))
	args = append(args, global...)
	return append(args, fragment...)
}
