package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/okian/skipcheck/internal/adapters/codeforces"
	app "github.com/okian/skipcheck/internal/app"
	"github.com/okian/skipcheck/internal/config"
	"github.com/okian/skipcheck/internal/domain/model"
	"github.com/okian/skipcheck/internal/domain/types"
	"github.com/okian/skipcheck/pkg/logger"
	"github.com/spf13/cobra"
)

// ErrHandlesFailed is returned when at least one handle could not be analyzed.
var ErrHandlesFailed = errors.New("one or more handles failed")

const dateLayout = "2006-01-02 15:04"

type analyzeFlags struct {
	baseURL  string
	timeout  time.Duration
	asJSON   bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "skipcheck",
		Short:         "Check Codeforces accounts for SKIPPED verdicts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze <handle>...",
		Short: "Analyze one or more handles",
		Long: `Fetches each handle's profile and full submission history and reports
how many submissions received the SKIPPED verdict. Handles are analyzed one
after another; the exit status is non-zero if any of them failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, flags, args)
		},
	}

	defaults := config.New()
	cmd.Flags().StringVar(&flags.baseURL, "base-url", defaults.APIBaseURL, "platform API root")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", defaults.ClientTimeout(), "per-request timeout (0 keeps the transport default)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print one JSON report per line")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	return cmd
}

// runAnalyze layers explicit flags over the loaded configuration and
// analyzes every handle in argument order.
func runAnalyze(cmd *cobra.Command, flags analyzeFlags, handles []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.APIBaseURL = flags.baseURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.ClientTimeoutMS = int(flags.timeout.Milliseconds())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	if err := logger.SetLevelString(flags.logLevel); err != nil {
		return err
	}

	log := logger.Get()
	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithFetcher(codeforces.New(
			codeforces.WithBaseURL(cfg.APIBaseURL),
			codeforces.WithTimeout(cfg.ClientTimeout()),
			codeforces.WithUserAgent(cfg.UserAgent),
			codeforces.WithLogger(log.Named("codeforces")),
		)),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	out := cmd.OutOrStdout()
	failed := 0
	for _, handle := range handles {
		report, err := svc.Analyze(ctx, handle)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", handle, describeFailure(err))
			continue
		}
		if flags.asJSON {
			if err := json.NewEncoder(out).Encode(report); err != nil {
				return err
			}
			continue
		}
		printReport(out, report)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrHandlesFailed, failed, len(handles))
	}
	return nil
}

func describeFailure(err error) string {
	var f *model.Failure
	if errors.As(err, &f) {
		return f.Kind.Code() + ": " + f.Message
	}
	return err.Error()
}

func printReport(w io.Writer, report types.Report) {
	p, r := report.Profile, report.Result

	rating := "unrated"
	if p.IsRated() {
		rating = fmt.Sprintf("%d", *p.Rating)
		if p.MaxRating != nil {
			rating += fmt.Sprintf(" (max %d)", *p.MaxRating)
		}
	}

	fmt.Fprintf(w, "%s  rating %s\n", p.Handle, rating)
	fmt.Fprintf(w, "  submissions %d, skipped %d (%.1f%%)\n",
		r.TotalSubmissionCount, r.SuspiciousSubmissionCount, r.SuspiciousPercentage)
	if !r.IsSuspicious {
		fmt.Fprintln(w, "  no skipped submissions found")
		return
	}
	fmt.Fprintln(w, "  skipped submissions found")
	for _, s := range r.SuspiciousSubmissions {
		fmt.Fprintf(w, "    #%d  %s  %s  %s\n",
			s.ID, s.CreatedAt().UTC().Format(dateLayout), problemLabel(s), s.ProgrammingLanguage)
	}
	if hidden := r.SuspiciousSubmissionCount - len(r.SuspiciousSubmissions); hidden > 0 {
		fmt.Fprintf(w, "    ... and %d more\n", hidden)
	}
}

// problemLabel renders "1900C Name", or "C Name" for problems outside a contest.
func problemLabel(s model.Submission) string {
	label := s.Problem.Index
	if s.Problem.ContestID != nil {
		label = fmt.Sprintf("%d%s", *s.Problem.ContestID, s.Problem.Index)
	}
	if s.Problem.Name != "" {
		label += " " + s.Problem.Name
	}
	return label
}
