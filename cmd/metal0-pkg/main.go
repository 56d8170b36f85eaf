// Command metal0-pkg resolves a set of PEP 508 requirement specifiers
// against PyPI using the PubGrub solver in internal/solve, printing the
// chosen version set or a rendered derivation tree on failure. CLI
// parsing itself is an external collaborator (spec.md Non-goals exclude
// lockfile format and shell ergonomics); this file is wiring, not a spec
// module, grounded on
// _examples/datawire-ocibuild/main.go's single-root-cobra.Command shape.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/teamchong/metal0-sub013/internal/cache"
	"github.com/teamchong/metal0-sub013/internal/config"
	"github.com/teamchong/metal0-sub013/internal/fetch"
	"github.com/teamchong/metal0-sub013/internal/incompat"
	"github.com/teamchong/metal0-sub013/internal/logging"
	"github.com/teamchong/metal0-sub013/internal/provider"
	"github.com/teamchong/metal0-sub013/internal/pypi"
	"github.com/teamchong/metal0-sub013/internal/solve"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

var (
	configPath string
	logLevel   string
	logJSON    bool
	diskDir    string
	maxRetries int
)

var rootCmd = &cobra.Command{
	Use:   "metal0-pkg REQUIREMENT [REQUIREMENT...]",
	Short: "Resolve a PubGrub-consistent set of PyPI package versions",
	Args:  cobra.MinimumNArgs(1),

	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: runResolve,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "metal0-pkg.yaml", "path to an optional YAML configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&logJSON, "log-json", false, "emit structured JSON logs instead of console output")
	rootCmd.Flags().StringVar(&diskDir, "disk-dir", "", "on-disk cache directory override (empty keeps the config/default value)")
	rootCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "fetch retry attempts override (0 keeps the config/default value)")
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "metal0-pkg: error: %+v\n", err)
		os.Exit(1)
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = cfg.ApplyOverrides(config.Config{DiskDir: diskDir, MaxRetries: maxRetries})

	logger := logging.New(logging.Options{Level: logLevel, JSON: logJSON})
	ctx = logging.WithContext(ctx, logger)

	c := cache.New(cache.Options{
		MaxMemoryBytes: int(cfg.MemorySize),
		MemoryTTL:      cfg.MemoryTTL,
		DiskDir:        cfg.DiskDir,
		DiskTTL:        cfg.DiskTTL,
	})

	fetcher, err := fetch.New(fetch.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return errors.Wrap(err, "building fetcher")
	}

	client := pypi.New(fetcher, c, pypi.Options{
		SimpleAPIURL: cfg.SimpleAPIURL,
		JSONAPIURL:   cfg.JSONAPIURL,
		MaxRetries:   cfg.MaxRetries,
		Logger:       logger,
	})

	prov := provider.New(client, pypi.DefaultEnvironment(), logger)

	root, rootVersion, rootDeps, err := buildSyntheticRoot(args)
	if err != nil {
		return err
	}

	rootedProvider := &syntheticRootProvider{DependencyProvider: prov, root: root, rootVersion: rootVersion, rootDeps: rootDeps}

	solver := solve.NewSolver(rootedProvider, solve.Options{Logger: logger})
	solution, err := solver.Solve(ctx, root, rootVersion)
	if err != nil {
		var noSol *solve.NoSolutionError
		if errors.As(err, &noSol) {
			fmt.Fprintln(cmd.OutOrStdout(), "no solution:")
			fmt.Fprintln(cmd.OutOrStdout(), solve.Report(noSol.Incompatibility))
			return errors.New("resolution failed")
		}
		return err
	}

	for pkg, v := range solution {
		if pkg == root {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s==%s\n", pkg.Name, v.String())
	}
	return nil
}

// buildSyntheticRoot turns the CLI's requirement-specifier arguments into
// a single synthetic root package's dependency list, the way a lockfile
// generator seeds PubGrub from a top-level requirements file.
func buildSyntheticRoot(specifiers []string) (incompat.PackageID, version.Version, []solve.Dependency, error) {
	root := incompat.PackageID{Name: "@root"}
	rootVersion := version.MustParse("0.0.0")

	deps := make([]solve.Dependency, 0, len(specifiers))
	for _, spec := range specifiers {
		req, err := pypi.ParseDependency(spec)
		if err != nil {
			return incompat.PackageID{}, version.Version{}, nil, errors.Wrapf(err, "parsing requirement %q", spec)
		}
		deps = append(deps, solve.Dependency{
			Package: incompat.PackageID{Name: req.Name},
			Term:    term.Pos(req.Range),
		})
	}
	return root, rootVersion, deps, nil
}

// syntheticRootProvider answers the solver's GetDependencies call for the
// synthetic @root package with the CLI's requirement list, delegating
// every other package to the wrapped PyPIProvider.
type syntheticRootProvider struct {
	solve.DependencyProvider
	root        incompat.PackageID
	rootVersion version.Version
	rootDeps    []solve.Dependency
}

func (p *syntheticRootProvider) GetDependencies(ctx context.Context, pkg incompat.PackageID, v version.Version) (solve.DependencyResult, error) {
	if pkg == p.root {
		return solve.DependencyResult{Available: true, Dependencies: p.rootDeps}, nil
	}
	return p.DependencyProvider.GetDependencies(ctx, pkg, v)
}

func (p *syntheticRootProvider) GetVersions(ctx context.Context, pkg incompat.PackageID) ([]version.Version, error) {
	if pkg == p.root {
		return []version.Version{p.rootVersion}, nil
	}
	return p.DependencyProvider.GetVersions(ctx, pkg)
}
