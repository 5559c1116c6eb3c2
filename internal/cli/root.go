// Package cli is the vocabdrill command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/config"
	"github.com/example/vocabdrill/internal/database"
	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/importer"
	"github.com/example/vocabdrill/internal/logger"
	"github.com/example/vocabdrill/internal/speech"
)

// DefaultUserName is used when no user exists and --user is not given
const DefaultUserName = "learner"

type options struct {
	configPath string
	userID     int64
	jsonOutput bool
}

// app holds everything a command needs once configuration is loaded
type app struct {
	opts     *options
	cfg      *config.Config
	store    *database.Store
	words    *drill.WordTrainer
	grammar  *drill.GrammarTrainer
	users    *drill.Users
	importer *importer.Importer
	speaker  speech.Speaker
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	a := newApp()
	return a.execute(ctx, newRootCommand(a))
}

func newApp() *app {
	return &app{opts: &options{}}
}

// execute runs root and closes the store whether or not the command failed
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// newRootCommand builds the full command tree around a
func newRootCommand(a *app) *cobra.Command {
	opts := a.opts

	root := &cobra.Command{
		Use:           "vocabdrill",
		Short:         "Adaptive vocabulary and grammar drills",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (yaml, json or toml)")
	root.PersistentFlags().Int64Var(&opts.userID, "user", 0, "user ID to drill as (defaults to the first user)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newUsersCommand(a),
		newImportCommand(a),
		newWordsCommand(a),
		newGrammarCommand(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log)
	slog.DebugContext(ctx, "configuration loaded",
		"driver", cfg.Database.Driver,
		"policy", cfg.Drill.PromotionPolicy,
		"window", cfg.Drill.CandidateWindow)

	policy, err := drill.ParsePromotionPolicy(cfg.Drill.PromotionPolicy)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	store := database.NewStore(db)

	a.cfg = cfg
	a.store = store
	a.words = drill.NewWordTrainer(store, drill.WordTrainerConfig{
		Policy:          policy,
		CandidateWindow: cfg.Drill.CandidateWindow,
	})
	a.grammar = drill.NewGrammarTrainer(store, drill.GrammarTrainerConfig{})
	a.users = drill.NewUsers(store)
	a.importer = importer.New(store, store)
	a.speaker = speech.FromConfig(cfg.Speech)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// currentUser resolves --user, falling back to the default learner
func (a *app) currentUser(ctx context.Context) (int64, error) {
	if a.opts.userID == 0 {
		u, err := a.users.EnsureDefaultUser(ctx, DefaultUserName)
		if err != nil {
			return 0, err
		}
		return u.ID, nil
	}

	u, err := a.users.GetUser(ctx, a.opts.userID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("%w: id %d", drill.ErrUserNotFound, a.opts.userID)
	}
	return u.ID, nil
}

// print writes v as indented JSON with --json, otherwise calls human
func (a *app) print(w io.Writer, v interface{}, human func()) error {
	if !a.opts.jsonOutput {
		human()
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
