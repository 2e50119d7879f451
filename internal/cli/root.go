// Package cli implements the waypoint command-line interface. Every
// editing command is a thin shell over the tool dispatcher, so the CLI
// and programmatic callers share one code path and one result envelope.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waypoint/internal/config"
	"github.com/mesh-intelligence/waypoint/internal/dispatch"
	"github.com/mesh-intelligence/waypoint/internal/logging"
	"github.com/mesh-intelligence/waypoint/internal/paths"
	"github.com/mesh-intelligence/waypoint/internal/project"
	"github.com/mesh-intelligence/waypoint/internal/schema"
	"github.com/mesh-intelligence/waypoint/pkg/waypoint"
)

// Exit codes. Any error or incomplete phase exits with exitFailure.
const (
	exitSuccess = 0
	exitFailure = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	workspace  string
	configFile string
	jsonMode   bool
	logLevel   string
}

// app carries state resolved once per invocation.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	schema *schema.Schema
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	print  *printer
}

// exitError reports an outcome that was already printed and only needs
// an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errReported = &exitError{code: exitFailure}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		logger: logging.Discard(),
		print:  newPrinter(out, errOut),
	}
}

// NewRootCmd creates the top-level "waypoint" command with global flags
// and all subcommands registered.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "waypoint",
		Short: "Manage design-thinking project state",
		Long: "Waypoint edits the state document of design-thinking projects\n" +
			"(stakeholders, assumptions, ideas, insights, playbacks and phase)\n" +
			"and checks whether a phase's completion criteria are met.",
		Version:           waypoint.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.workspace, "workspace", "", "workspace root (default: $WAYPOINT_WORKSPACE or current directory)")
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default: <workspace>/waypoint.yaml)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		a.newStakeholderCmd(),
		a.newAssumptionCmd(),
		a.newIdeaCmd(),
		a.newInsightCmd(),
		a.newPlaybackCmd(),
		a.newPhaseCmd(),
		a.newCheckCmd(),
		a.newValidateCmd(),
		a.newToolCmd(),
		a.newProjectsCmd(),
		a.newInitCmd(),
		a.newVersionCmd(),
	)
	return root
}

// setup resolves the workspace, configuration and logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	ws, err := paths.ResolveWorkspace(a.flags.workspace)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	cfg, err := config.Load(a.flags.configFile, ws)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	logger, err := logging.New(a.errOut, level, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", "workspace", ws, "file", cfg.File)
	return nil
}

// loadSchema returns the configured schema, reading it once.
func (a *app) loadSchema() (*schema.Schema, error) {
	if a.schema != nil {
		return a.schema, nil
	}
	s, err := schema.Load(a.cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	a.schema = s
	return s, nil
}

// openProject resolves a project argument to its service.
func (a *app) openProject(name string) (*project.Service, error) {
	dir, err := a.cfg.ProjectDir(name)
	if err != nil {
		return nil, err
	}
	s, err := a.loadSchema()
	if err != nil {
		return nil, err
	}
	return project.New(dir, project.Options{
		StateFile:   a.cfg.StateFile,
		Schema:      s,
		Concurrency: a.cfg.Concurrency,
		Logger:      a.logger,
	})
}

func (a *app) dispatcher() *dispatch.Dispatcher {
	return dispatch.New(a.openProject, a.logger)
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := newApp(out, errOut)
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	a.fail(err)
	return exitFailure
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
