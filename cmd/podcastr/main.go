package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/five82/podcastr/internal/app"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "podcastr: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "podcastr",
		Short:         "Browse and listen to podcast episodes from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), optionsFromFlags(cmd))
		},
	}

	flags := root.Flags()
	flags.String("config", "", "override config path (optional)")
	flags.String("prefs", "", "override prefs path (optional)")
	flags.Int("refresh", 0, "episode refresh interval in seconds (optional, defaults to 8h)")
	flags.String("api", "", "episode API base URL (optional)")
	flags.Bool("no-audio", false, "browse without starting mpv")

	root.AddCommand(newVersionCmd())
	return root
}

func optionsFromFlags(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()
	opts := app.Options{
		ConfigPath: lo.Must(flags.GetString("config")),
		PrefsPath:  lo.Must(flags.GetString("prefs")),
		APIURL:     lo.Must(flags.GetString("api")),
		NoAudio:    lo.Must(flags.GetBool("no-audio")),
	}
	if refresh := lo.Must(flags.GetInt("refresh")); refresh > 0 {
		opts.RefreshEvery = refresh
	}
	return opts
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the podcastr version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("podcastr %s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
