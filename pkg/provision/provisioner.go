// Package provision orchestrates workstation setup as a fail-fast pipeline
// of named stages: detect, packages, sdk, flutter, env, verify.
package provision

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeenv/mobiledev/internal/config"
	"github.com/forgeenv/mobiledev/pkg/provision/distro"
	"github.com/forgeenv/mobiledev/pkg/provision/envfile"
	"github.com/forgeenv/mobiledev/pkg/provision/flutter"
	"github.com/forgeenv/mobiledev/pkg/provision/pkgmgr"
	"github.com/forgeenv/mobiledev/pkg/provision/runner"
	"github.com/forgeenv/mobiledev/pkg/provision/sdk"
	"github.com/forgeenv/mobiledev/pkg/provision/waydroid"
)

// Stage is one step of the pipeline. The first failing stage aborts the run.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Provisioner runs the full setup sequence.
type Provisioner struct {
	cfg    *config.Config
	logger hclog.Logger
	run    runner.Runner

	distro   distro.Info
	cleanups []func()
}

// New builds a Provisioner against the host.
func New(cfg *config.Config, logger hclog.Logger) *Provisioner {
	return &Provisioner{
		cfg:    cfg,
		logger: logger,
		run:    runner.New(),
	}
}

// OnCleanup registers a hook that runs once the pipeline finishes, on both
// success and failure.
func (p *Provisioner) OnCleanup(fn func()) {
	p.cleanups = append(p.cleanups, fn)
}

// Run executes the pipeline, short-circuiting on the first stage failure.
// Cleanup hooks run in either case.
func (p *Provisioner) Run(ctx context.Context) error {
	defer p.cleanup()
	return p.runStages(ctx, p.stages())
}

func (p *Provisioner) runStages(ctx context.Context, stages []Stage) error {
	for _, stage := range stages {
		p.logger.Info("🚀 Running stage", "stage", stage.Name)
		if err := stage.Run(ctx); err != nil {
			p.logger.Error("Stage failed", "stage", stage.Name, "error", err)
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
	}
	return nil
}

func (p *Provisioner) cleanup() {
	for i := len(p.cleanups) - 1; i >= 0; i-- {
		p.cleanups[i]()
	}
	p.cleanups = nil
}

func (p *Provisioner) stages() []Stage {
	stages := []Stage{
		{Name: "detect", Run: p.detectStage},
		{Name: "packages", Run: p.packagesStage},
		{Name: "sdk", Run: p.sdkStage},
		{Name: "flutter", Run: p.flutterStage},
		{Name: "env", Run: p.envStage},
	}
	if p.cfg.Waydroid {
		stages = append(stages, Stage{Name: "waydroid", Run: p.waydroidStage})
	}
	return append(stages, Stage{Name: "verify", Run: p.verifyStage})
}

func (p *Provisioner) detectStage(ctx context.Context) error {
	info, err := distro.NewDetector(p.run).Detect(ctx)
	if err != nil {
		return err
	}
	p.distro = info
	p.logger.Info("🖥️  Detected distribution", "distro", info.String(), "family", info.Family())
	return nil
}

func (p *Provisioner) packagesStage(ctx context.Context) error {
	mgr, err := pkgmgr.ForDistro(p.distro, p.run)
	if err != nil {
		return err
	}

	specs := pkgmgr.DefaultPackages()
	for _, extra := range p.cfg.ExtraPackages {
		specs = append(specs, pkgmgr.Spec{Name: extra})
	}

	return pkgmgr.InstallMissing(ctx, p.logger, mgr, p.distro.Family(), specs)
}

func (p *Provisioner) sdkStage(ctx context.Context) error {
	fetcher := &sdk.Fetcher{
		Resolver: &sdk.Resolver{
			PinnedURL:     p.cfg.SDK.URL,
			PinnedVersion: p.cfg.SDK.Version,
		},
		Runner:    p.run,
		Logger:    p.logger,
		OnCleanup: p.OnCleanup,
	}

	return fetcher.Fetch(ctx, sdk.Options{
		InstallDir: p.cfg.InstallDir,
		Platform:   p.cfg.SDK.Platform,
		BuildTools: p.cfg.SDK.BuildTools,
	})
}

func (p *Provisioner) flutterStage(ctx context.Context) error {
	installer := &flutter.Installer{Runner: p.run, Logger: p.logger}
	return installer.Install(ctx, p.cfg.FlutterDir)
}

func (p *Provisioner) envStage(ctx context.Context) error {
	javaHome, err := envfile.ResolveJavaHome(envfile.DefaultJavaCandidates())
	if err != nil {
		return err
	}

	profile := p.cfg.Profile
	if profile == "" {
		profile = envfile.DetectProfile()
	}

	wrote, err := envfile.Write(envfile.ToolPaths{
		FlutterHome: p.cfg.FlutterDir,
		AndroidHome: p.cfg.InstallDir,
		JavaHome:    javaHome,
	}, profile)
	if err != nil {
		return err
	}

	if wrote {
		p.logger.Info("🐚 Wrote environment exports", "profile", profile)
	} else {
		p.logger.Info("✅ Environment exports already present, skipping", "profile", profile)
	}
	return nil
}

func (p *Provisioner) waydroidStage(ctx context.Context) error {
	return waydroid.Install(ctx, p.logger, p.distro, p.run)
}

func (p *Provisioner) verifyStage(ctx context.Context) error {
	installer := &flutter.Installer{Runner: p.run, Logger: p.logger}
	return installer.Doctor(ctx, p.cfg.FlutterDir)
}
