// Command profilectl edits the caller's profile against the profile API from
// the terminal. It drives the same form controller a UI would.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/profile-editor/internal/config"
	"github.com/janisto/profile-editor/internal/form"
	"github.com/janisto/profile-editor/internal/gateway"
	applog "github.com/janisto/profile-editor/internal/platform/logging"
)

var version = "dev"

// noColor disables ANSI colors in status output.
var noColor bool

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	apiURL  string
	token   string
	cbor    bool
	timeout time.Duration
	envFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "profilectl",
		Short: "Show and edit your profile",
		Long: `Show and edit your profile through the profile API.

Settings come from the environment (PROFILE_API_URL, PROFILE_API_TOKEN,
PROFILE_API_FORMAT, PROFILE_API_TIMEOUT, PROFILE_SUGGESTED_SKILLS) or a .env
file. Flags override them.

Examples:
  profilectl show
  profilectl edit --first-name Ann --age 31 --select-skill Angular
  profilectl edit --new-skill Rust --remove-skill 0 --dry-run`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.apiURL, "api-url", "", "profile API base URL including /v1")
	pf.StringVar(&g.token, "token", "", "Bearer token for the profile API")
	pf.BoolVar(&g.cbor, "cbor", false, "exchange CBOR instead of JSON")
	pf.DurationVar(&g.timeout, "timeout", 0, "request timeout")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file to load")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log requests and outcomes to stderr")

	root.AddCommand(
		newShowCmd(g),
		newEditCmd(g),
		newValidateCmd(g),
		newSuggestionsCmd(g),
	)
	return root
}

// session is what every subcommand needs: a loaded configuration, a form and
// a context carrying the CLI logger.
type session struct {
	ctx  context.Context
	cfg  config.Client
	form *form.Controller
}

func newSession(cmd *cobra.Command, g *globalFlags) (*session, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	applyOverrides(cmd, g, &cfg)

	opts := []gateway.Option{
		gateway.WithBaseURL(cfg.APIURL),
		gateway.WithToken(cfg.Token),
	}
	if cfg.Format == config.FormatCBOR {
		opts = append(opts, gateway.WithCBOR())
	}
	gw := gateway.NewClient(&http.Client{Timeout: cfg.Timeout}, opts...)

	stderr := cmd.ErrOrStderr()
	ctrl := form.New(gw,
		form.WithSuggestions(suggestionsOrDefault(cfg.SuggestedSkills)),
		form.WithNotifier(form.NotifierFunc(func(_ context.Context, n form.Notification) {
			if n.Kind == form.NotificationSuccess {
				printSuccess(stderr, "%s", n.Message)
				return
			}
			printError(stderr, "%s", n.Message)
		})),
	)

	logger := newCLILogger(stderr, g.verbose).With(zap.String("command", cmd.Name()))
	ctx := applog.WithLogger(cmd.Context(), logger)

	return &session{ctx: ctx, cfg: cfg, form: ctrl}, nil
}

func applyOverrides(cmd *cobra.Command, g *globalFlags, cfg *config.Client) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = g.apiURL
	}
	if flags.Changed("token") {
		cfg.Token = g.token
	}
	if flags.Changed("cbor") {
		cfg.Format = config.FormatJSON
		if g.cbor {
			cfg.Format = config.FormatCBOR
		}
	}
	if flags.Changed("timeout") && g.timeout > 0 {
		cfg.Timeout = g.timeout
	}
}

func suggestionsOrDefault(s []string) []string {
	if len(s) == 0 {
		return form.DefaultSuggestions
	}
	return s
}

// newCLILogger writes human-readable entries to w. Only warnings and errors
// are shown unless verbose is set.
func newCLILogger(w io.Writer, verbose bool) *zap.Logger {
	lvl := zapcore.WarnLevel
	if verbose {
		lvl = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	if noColor {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core)
}
