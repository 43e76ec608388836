// Package provision carries out a single VM provisioning run: generate the
// kickstart, stage it in a temporary directory, plan the virt-install
// command, and run it.
package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/jbweber/kickvm/internal/config"
	"github.com/jbweber/kickvm/internal/kickstart"
	"github.com/jbweber/kickvm/internal/libvirt"
	"github.com/jbweber/kickvm/internal/secret"
	"github.com/jbweber/kickvm/internal/virtinstall"
)

const (
	// TempDirPattern names the per-run staging directory.
	TempDirPattern = "kickvm-"

	// InitrdKickstartName is the staged kickstart file for initrd injection.
	InitrdKickstartName = "ks.cfg"

	// OEMDRVImageName is the staged ISO for OEMDRV delivery.
	OEMDRVImageName = "oemdrv.iso"
)

// Provisioner runs provisioning with its collaborators.
type Provisioner struct {
	secrets kickstart.SecretSource
	runner  commandRunner
	connect connectFunc
	out     io.Writer
	tempDir string // parent of staging directories, "" for os.TempDir
}

// New returns a Provisioner wired to the terminal, sudo, and the local
// libvirt daemon.
func New() *Provisioner {
	return newWithDeps(
		secret.NewProvider(secret.NewTerminalPrompter(), secret.NewSHA512Hasher()),
		virtinstall.NewSudoRunner(),
		connectLibvirt,
		os.Stdout,
	)
}

// newWithDeps creates a Provisioner with injected dependencies.
// This allows for testing by accepting interfaces instead of concrete types.
func newWithDeps(secrets kickstart.SecretSource, runner commandRunner, connect connectFunc, out io.Writer) *Provisioner {
	return &Provisioner{
		secrets: secrets,
		runner:  runner,
		connect: connect,
		out:     out,
	}
}

func connectLibvirt(ctx context.Context, socket string) (domainInspector, error) {
	client, err := libvirt.ConnectWithContext(ctx, socket, 0)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Kickstart generates the kickstart document for cfg. Interactive password
// modes prompt through the Provisioner's secret source.
func (p *Provisioner) Kickstart(cfg *config.RunConfig) (string, error) {
	ksCfg, err := cfg.Kickstart.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build kickstart configuration: %w", err)
	}

	doc, err := kickstart.Generate(ksCfg, p.secrets)
	if err != nil {
		return "", fmt.Errorf("failed to generate kickstart: %w", err)
	}
	return doc, nil
}

// Run generates a kickstart from cfg and creates the VM with it.
//
// This orchestrates the entire provisioning run:
//  1. Generate the kickstart (prompting for keyboard passwords)
//  2. Preflight checks against libvirt, if enabled: the name is free and
//     the default pool can hold the disk
//  3. Stage the kickstart in a temporary directory
//  4. Plan and print the virt-install command
//  5. Run it, unless this is a dry run
//  6. With preflight, record the redacted configuration on the new domain
//
// The staging directory is removed when Run returns, whatever the outcome,
// unless KeepTempDir is set. Nothing else is cleaned up on failure.
func (p *Provisioner) Run(ctx context.Context, cfg *config.RunConfig) error {
	logrus.Infof("Generating kickstart for %s...", cfg.VM.Name)
	doc, err := p.Kickstart(cfg)
	if err != nil {
		return err
	}
	return p.create(ctx, cfg, &doc)
}

// CreateVM creates the VM with the kickstart at cfg.Provision.KickstartFile,
// or with no kickstart when that is empty.
func (p *Provisioner) CreateVM(ctx context.Context, cfg *config.RunConfig) error {
	if cfg.Provision.KickstartFile == "" {
		logrus.Infof("No kickstart given, virt-install will run the interactive installer")
		return p.create(ctx, cfg, nil)
	}

	data, err := os.ReadFile(cfg.Provision.KickstartFile)
	if err != nil {
		return fmt.Errorf("failed to read kickstart: %w", err)
	}
	doc := string(data)
	return p.create(ctx, cfg, &doc)
}

func (p *Provisioner) create(ctx context.Context, cfg *config.RunConfig, doc *string) error {
	name := cfg.VM.Name
	params, err := cfg.VMParams()
	if err != nil {
		return err
	}

	var inspector domainInspector
	if cfg.Provision.Preflight && !cfg.Provision.DryRun {
		logrus.Infof("Checking libvirt for an existing domain %s...", name)
		inspector, err = p.connect(ctx, cfg.Provision.LibvirtSocket)
		if err != nil {
			return fmt.Errorf("failed to connect to libvirt: %w", err)
		}
		defer func() {
			if err := inspector.Close(); err != nil {
				logrus.Warnf("failed to close libvirt connection: %v", err)
			}
		}()

		if err := inspector.EnsureDomainAbsent(name); err != nil {
			return fmt.Errorf("preflight check failed: %w", err)
		}
		if err := inspector.EnsurePoolCapacity(libvirt.DefaultPool, cfg.VM.DiskSizeGB); err != nil {
			return fmt.Errorf("preflight check failed: %w", err)
		}
	}

	var attachment *virtinstall.Attachment
	if doc != nil {
		dir, err := os.MkdirTemp(p.tempDir, TempDirPattern)
		if err != nil {
			return fmt.Errorf("failed to create temporary directory: %w", err)
		}
		defer p.cleanup(dir, cfg.Provision.KeepTempDir)

		attachment, err = stage(dir, *doc, cfg.Provision.Delivery)
		if err != nil {
			return err
		}
		logrus.Infof("Kickstart staged at %s (%s delivery)", attachment.Path, attachment.Method)
	}

	argv := virtinstall.Plan(params, attachment)
	command := virtinstall.FormatCommand(argv)

	if cfg.Provision.DryRun {
		logrus.Infof("Dry run, not executing virt-install")
		fmt.Fprintln(p.out, command)
		return nil
	}

	logrus.Infof("Running: sudo %s", command)
	if err := p.runner.Run(ctx, argv); err != nil {
		return fmt.Errorf("failed to create VM %s: %w", name, err)
	}
	_, _ = color.New(color.FgGreen).Fprintf(p.out, "✓ VM %s created\n", name)

	if inspector == nil {
		return nil
	}

	if err := p.record(inspector, cfg); err != nil {
		logrus.Warnf("failed to record configuration on domain %s: %v", name, err)
	}

	summary, err := inspector.Describe(name)
	if err != nil {
		logrus.Warnf("failed to describe domain %s: %v", name, err)
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"uuid":   summary.UUID,
		"vcpus":  summary.VCPUs,
		"memory": fmt.Sprintf("%dMiB", summary.MemoryMiB),
		"disks":  strings.Join(summary.Disks, ","),
		"macs":   strings.Join(summary.MACs, ","),
	}).Infof("Domain %s defined", summary.Name)
	return nil
}

// record stores the redacted run configuration in the domain's metadata so
// show-config --from-domain can print it later.
func (p *Provisioner) record(inspector domainInspector, cfg *config.RunConfig) error {
	data, err := config.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}
	return inspector.StoreMetadata(cfg.VM.Name, string(data))
}

// stage writes the kickstart into dir in the form the delivery method needs.
func stage(dir, doc string, method virtinstall.DeliveryMethod) (*virtinstall.Attachment, error) {
	switch method {
	case virtinstall.DeliveryOEMDRV:
		path := filepath.Join(dir, OEMDRVImageName)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create OEMDRV image: %w", err)
		}
		if err := virtinstall.WriteOEMDRV(f, doc); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to write OEMDRV image: %w", err)
		}
		return &virtinstall.Attachment{Method: method, Path: path}, nil

	case virtinstall.DeliveryInitrd:
		path := filepath.Join(dir, InitrdKickstartName)
		if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
			return nil, fmt.Errorf("failed to write kickstart: %w", err)
		}
		return &virtinstall.Attachment{Method: method, Path: path}, nil

	default:
		return nil, method.Validate()
	}
}

func (p *Provisioner) cleanup(dir string, keep bool) {
	if keep {
		logrus.Infof("Keeping temporary directory %s", dir)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logrus.Warnf("failed to remove temporary directory %s: %v", dir, err)
	}
}
