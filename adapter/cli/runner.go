// Package cli is the adapterctl command line tool. It drives the adapters
// offline against a directory file and the local fee store and prints every
// result as a JSON envelope.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/app"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/config"
	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

const cliName = "adapterctl"

// Envelope wraps every command result.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error"`
	Meta    Meta       `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Meta struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

type globalFlags struct {
	directory       string
	directorySource string
	feeDB           string
	feeLock         string
	lcdURLs         []string
	timeout         time.Duration
	verbose         bool
}

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr, now: time.Now}
}

type runtimeState struct {
	runner      *Runner
	flags       globalFlags
	app         *app.App
	lastCommand string
	started     bool
}

// Run executes args and returns the process exit code.
func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	if state.app != nil {
		_ = state.app.Close()
	}
	if err == nil {
		return 0
	}
	if _, ok := adaptererr.As(err); !ok && !state.started {
		// cobra usage errors: unknown command, missing required flag
		err = adaptererr.Wrap(adaptererr.CodeInvalidRequest, "usage", err)
	}
	state.renderError(err)
	return adaptererr.ExitCode(err)
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   cliName,
		Short: "Drive the spectra venue adapters from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.lastCommand = trimRootPath(cmd.CommandPath())
			if cmd.Name() == "help" {
				return nil
			}
			return s.open(cmd.Context())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return adaptererr.Wrap(adaptererr.CodeInvalidRequest, "parse flags", err)
	})

	cmd.PersistentFlags().StringVar(&s.flags.directory, "directory", "directory.toml", "Directory file (toml, json or yaml)")
	cmd.PersistentFlags().StringVar(&s.flags.directorySource, "directory-source", "", "go-getter source to fetch the directory file from first")
	cmd.PersistentFlags().StringVar(&s.flags.feeDB, "fee-db", "data/fee.db", "Fee store sqlite file")
	cmd.PersistentFlags().StringVar(&s.flags.feeLock, "fee-lock", "", "Fee store lock file (default <fee-db>.lock)")
	cmd.PersistentFlags().StringSliceVar(&s.flags.lcdURLs, "lcd", nil, "LCD endpoints, primary first")
	cmd.PersistentFlags().DurationVar(&s.flags.timeout, "timeout", 30*time.Second, "Timeout of one command")
	cmd.PersistentFlags().BoolVar(&s.flags.verbose, "verbose", false, "Log adapter internals to stderr")

	cmd.AddCommand(s.newVenuesCommand())
	cmd.AddCommand(s.newExecuteCommand())
	cmd.AddCommand(s.newStakeCommand())
	cmd.AddCommand(s.newQueryCommand())
	cmd.AddCommand(s.newTendermintCommand())
	cmd.AddCommand(s.newFeeCommand())
	return cmd
}

func (s *runtimeState) open(ctx context.Context) error {
	if s.app != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.flags.directorySource != "" {
		if err := config.FetchDirectory(ctx, s.flags.directorySource, s.flags.directory); err != nil {
			return adaptererr.Host("fetch directory", err)
		}
	}

	level := zerolog.WarnLevel
	if s.flags.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: s.runner.stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	a, err := app.New(app.Options{
		DirectoryPath: s.flags.directory,
		FeeDBPath:     s.flags.feeDB,
		FeeLockPath:   s.flags.feeLock,
		LcdURLs:       s.flags.lcdURLs,
		Logger:        &logger,
	})
	if err != nil {
		return adaptererr.Wrap(adaptererr.CodeInvalidRequest, "load adapter", err)
	}
	s.app = a
	return nil
}

func (s *runtimeState) newVenuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List registered venues and their capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.emitSuccess(s.app.Dex.Registry().ListVenues())
		},
	}
}

func (s *runtimeState) newExecuteCommand() *cobra.Command {
	var sender, msg string
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run a dex execute message (action or update_fee) as sender",
		RunE: func(cmd *cobra.Command, args []string) error {
			var execute models.DexExecuteMsg
			if err := decodeMsg(msg, &execute); err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Dex.Execute(ctx, models.MessageInfo{Sender: sender}, execute)
			})
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "Caller address (account manager or proxy)")
	cmd.Flags().StringVar(&msg, "msg", "", "Execute message JSON, or @file to read it from a file")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("msg")
	return cmd
}

func (s *runtimeState) newStakeCommand() *cobra.Command {
	var sender, msg string
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Run a staking execute message as sender",
		RunE: func(cmd *cobra.Command, args []string) error {
			var execute models.StakingExecuteMsg
			if err := decodeMsg(msg, &execute); err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Staking.Execute(ctx, models.MessageInfo{Sender: sender}, execute)
			})
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "Caller address (account manager or proxy)")
	cmd.Flags().StringVar(&msg, "msg", "", "Staking execute message JSON, or @file")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("msg")
	return cmd
}

func (s *runtimeState) newQueryCommand() *cobra.Command {
	var msg string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a staking query message",
		RunE: func(cmd *cobra.Command, args []string) error {
			var query models.StakingQueryMsg
			if err := decodeMsg(msg, &query); err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Staking.Query(ctx, query)
			})
		},
	}
	cmd.Flags().StringVar(&msg, "msg", "", "Staking query message JSON, or @file")
	_ = cmd.MarkFlagRequired("msg")
	return cmd
}

func (s *runtimeState) newTendermintCommand() *cobra.Command {
	var sender, msg string
	cmd := &cobra.Command{
		Use:   "tendermint",
		Short: "Run a native staking message as sender",
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.app.Tendermint == nil {
				return adaptererr.New(adaptererr.CodeActionNotSupported, "directory has no bond_denom, native staking is disabled")
			}
			var execute models.TendermintStakingMsg
			if err := decodeMsg(msg, &execute); err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Tendermint.Execute(ctx, models.MessageInfo{Sender: sender}, execute)
			})
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "Caller address (account manager or proxy)")
	cmd.Flags().StringVar(&msg, "msg", "", "Native staking message JSON, or @file")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("msg")
	return cmd
}

func (s *runtimeState) newFeeCommand() *cobra.Command {
	root := &cobra.Command{Use: "fee", Short: "Usage fee commands"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the stored usage fee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Dex.Fee(ctx)
			})
		},
	}

	var sender, share string
	var recipient int64
	update := &cobra.Command{
		Use:   "update",
		Short: "Change the fee share and/or recipient account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var msg models.UpdateFeeMsg
			if cmd.Flags().Changed("share") {
				parsed, err := decimal.NewFromString(share)
				if err != nil {
					return adaptererr.Wrap(adaptererr.CodeInvalidRequest, "parse share", err)
				}
				msg.SwapFee = &parsed
			}
			if cmd.Flags().Changed("recipient-account") {
				if recipient < 0 || recipient > int64(^uint32(0)) {
					return adaptererr.Newf(adaptererr.CodeInvalidRequest, "recipient account %d out of range", recipient)
				}
				id := uint32(recipient)
				msg.RecipientAccount = &id
			}
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Dex.UpdateFee(ctx, sender, msg)
			})
		},
	}
	update.Flags().StringVar(&sender, "sender", "", "Caller address, must be an account proxy")
	update.Flags().StringVar(&share, "share", "", "New fee share in [0, 1)")
	update.Flags().Int64Var(&recipient, "recipient-account", 0, "Account id whose proxy receives the fee")
	_ = update.MarkFlagRequired("sender")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent fee changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context) (any, error) {
				return s.app.Fees.History(ctx, limit)
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "Number of entries")

	root.AddCommand(show, update, history)
	return root
}

func (s *runtimeState) run(cmd *cobra.Command, fn func(ctx context.Context) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.flags.timeout)
	defer cancel()
	s.started = true

	data, err := fn(ctx)
	if err != nil {
		return err
	}
	return s.emitSuccess(data)
}

func (s *runtimeState) emitSuccess(data any) error {
	return s.render(Envelope{
		Success: true,
		Data:    data,
		Meta:    Meta{Command: s.lastCommand, Timestamp: s.runner.now().UTC()},
	}, s.runner.stdout)
}

func (s *runtimeState) renderError(err error) {
	command := s.lastCommand
	if command == "" {
		command = cliName
	}
	_ = s.render(Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    adaptererr.ExitCode(err),
			Type:    adaptererr.CodeOf(err).String(),
			Message: err.Error(),
		},
		Meta: Meta{Command: command, Timestamp: s.runner.now().UTC()},
	}, s.runner.stderr)
}

func (s *runtimeState) render(env Envelope, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "render output", err)
	}
	return nil
}

// decodeMsg parses raw as JSON. A leading @ reads the JSON from a file.
func decodeMsg(raw string, out any) error {
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return adaptererr.Wrap(adaptererr.CodeInvalidRequest, "read message file", err)
		}
		data = content
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return adaptererr.Wrap(adaptererr.CodeInvalidRequest, fmt.Sprintf("decode %T", out), err)
	}
	return nil
}

func trimRootPath(path string) string {
	return strings.TrimSpace(strings.TrimPrefix(path, cliName))
}
