package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/runstate"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trclient"
	"github.com/trellisforge/trellis-build/trengine"
	"github.com/trellisforge/trellis-build/trevent"
	"github.com/trellisforge/trellis-build/trmetrics"
)

// RunFlags are the flags shared by commands that talk to the provisioning
// service.
type RunFlags struct {
	ConfigFile  string            `kong:"required,name='config-file',help='Path to a configuration file describing the provisioning service.'"`
	Project     trbuild.ProjectID `kong:"required,name='project',short='p',help='The ID of the project to provision.'"`
	Token       string            `kong:"optional,name='token',env='TRELLIS_TOKEN',help='Access token for the provisioning service.'"`
	MetricsFile string            `kong:"optional,name='metrics-file',help='Write Prometheus metrics for the run to this file.'"`
	LogFile     string            `kong:"optional,name='log-file',help='Append events to this file as JSON lines.'"`
	Verbose     bool              `kong:"optional,name='verbose',short='v',help='Show debug messages on the command line.'"`
}

// session holds everything needed to run a command against the
// provisioning service.
type session struct {
	flags   RunFlags
	config  trbuild.Config
	client  *trclient.Client
	metrics *trmetrics.Handler
	log     *os.File
	events  trevent.Recorder
}

// openSession loads the configuration and prepares a client and event
// recorder for the flags.
func openSession(flags RunFlags) (*session, error) {
	if err := flags.Project.Validate(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(flags.Token, cfg.Server.TokenFile)
	if err != nil {
		return nil, err
	}

	client, err := trclient.New(cfg.Server, token)
	if err != nil {
		return nil, err
	}

	var metrics *trmetrics.Handler
	if flags.MetricsFile != "" {
		metrics = trmetrics.NewHandler()
	}

	s := &session{
		flags:   flags,
		config:  cfg,
		client:  client,
		metrics: metrics,
	}

	var log io.Writer
	if flags.LogFile != "" {
		f, err := os.OpenFile(flags.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("the log file \"%s\" could not be opened: %w", flags.LogFile, err)
		}
		s.log = f
		log = f
	}

	s.events = newRecorder(flags.Verbose, log, metrics)

	return s, nil
}

// Close releases the session's log file, if any.
func (s *session) Close() error {
	if s.log == nil {
		return nil
	}
	return s.log.Close()
}

// engine returns a build engine for the session.
func (s *session) engine() *trengine.Engine {
	return trengine.NewEngine(s.client, trengine.Options{
		Events: s.events,
		Timing: s.config.Timing,
	})
}

// finish saves the outcome of a run, prints a summary and writes the
// metrics file. It returns runErr joined with any error encountered along
// the way.
func (s *session) finish(report trengine.Report, runErr error) error {
	// A run that was rejected or never started has nothing to save.
	if report.Run == uuid.Nil {
		return errors.Join(runErr, s.writeMetrics())
	}

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}

	if err := saveReport(report); err != nil {
		errs = append(errs, fmt.Errorf("the outcome of the run could not be saved: %w", err))
	}

	printReport(os.Stdout, report)

	if err := s.writeMetrics(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *session) writeMetrics() error {
	if s.metrics == nil {
		return nil
	}
	if err := s.metrics.WriteTextfile(s.flags.MetricsFile); err != nil {
		return fmt.Errorf("the metrics file \"%s\" could not be written: %w", s.flags.MetricsFile, err)
	}
	return nil
}

// saveReport records the outcome of a run in the project's state directory.
func saveReport(report trengine.Report) error {
	dir, err := runstate.OpenProject(report.Project)
	if err != nil {
		return err
	}
	defer dir.Close()

	state, err := dir.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return dir.Save(state.Apply(report))
}

// BuildCmd resets a project and builds its infrastructure from scratch.
type BuildCmd struct {
	RunFlags `kong:"embed"`
}

// Run executes the Trellis build command.
func (cmd BuildCmd) Run(ctx context.Context) error {
	s, err := openSession(cmd.RunFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.engine().Build(ctx, cmd.Project)
	return s.finish(report, err)
}

// ReconcileCmd brings the infrastructure of a provisioned project up to
// date.
type ReconcileCmd struct {
	RunFlags `kong:"embed"`
}

// Run executes the Trellis reconcile command.
func (cmd ReconcileCmd) Run(ctx context.Context) error {
	s, err := openSession(cmd.RunFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.engine().Reconcile(ctx, cmd.Project)
	return s.finish(report, err)
}

// CheckFilesCmd checks the repository files of a project against its
// definition.
type CheckFilesCmd struct {
	RunFlags `kong:"embed"`
}

// Run executes the Trellis check-files command.
func (cmd CheckFilesCmd) Run(ctx context.Context) error {
	s, err := openSession(cmd.RunFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := trengine.CheckFileConsistency(ctx, s.client, cmd.Project, s.events)
	if err == nil && !result.Success {
		err = fmt.Errorf("the repository files of project %d are not consistent with its definition", cmd.Project)
	}

	return errors.Join(err, s.writeMetrics())
}
