package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
	w "github.com/Ololoshechkin/plugin-verifier/internal/watch"
	"github.com/Ololoshechkin/plugin-verifier/utils"
)

var debounceMillis int

var watchCmd = &cobra.Command{
	Use:   "watch PLUGIN_PATH",
	Short: "Re-verify a plugin every time its files change on disk",
	Long: `watch loads the same descriptors as verify, then watches the
plugin path and re-runs a fresh, independent verification job each time
the plugin's files settle after a change, printing a summary after
every run until interrupted.

Examples:
  binverify watch ./my-plugin --ide-dir ./ide-classes`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return utils.CompleteFilesByExtension(pluginArchiveExtensions)(cmd, args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		pluginPath := args[0]

		params, err := resolveParams()
		if err != nil {
			return err
		}
		finder, err := resolveFinder()
		if err != nil {
			return err
		}

		ide := engine.NewFilesystemIdeDescriptor(ideVersion, ideDir, bundledJdkDir)
		defer ide.Close()

		var jdk engine.JdkDescriptor
		if jdkDir != "" {
			jdk = engine.NewFilesystemJdkDescriptor(jdkVersion, jdkDir)
		}

		sched := engine.NewScheduler(1)
		defer sched.Stop()

		newJob := func() *engine.Job {
			plugin, err := engine.LoadFilesystemPluginDetails(pluginPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload plugin: %v\n", err)
				return nil
			}
			return engine.NewJob(engine.Request{
				Plugin: plugin,
				Ide:    ide,
				Jdk:    jdk,
				Finder: finder,
				Params: params,
			})
		}

		watcher, err := w.New(sched, []string{pluginPath}, time.Duration(debounceMillis)*time.Millisecond, newJob, printWatchOutcome)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("watching %s (ctrl-c to stop)\n", pluginPath)
		watcher.Run(ctx)
		return nil
	},
}

func printWatchOutcome(outcome engine.JobOutcome) {
	if outcome.Err != nil {
		fmt.Fprintf(os.Stderr, "verification job failed: %v\n", outcome.Err)
		return
	}
	printSummary(outcome.Result)
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&ideDir, "ide-dir", "", "directory of the host IDE's classes (required)")
	watchCmd.Flags().StringVar(&ideVersion, "ide-version", "", "host IDE version string")
	watchCmd.Flags().StringVar(&bundledJdkDir, "bundled-jdk-dir", "", "directory of the IDE's bundled JDK classes, if any")
	watchCmd.Flags().StringVar(&jdkDir, "jdk-dir", "", "directory of a standalone JDK's classes, used if the IDE has no bundled JDK")
	watchCmd.Flags().StringVar(&jdkVersion, "jdk-version", "", "standalone JDK version string")
	watchCmd.Flags().StringVar(&depsDir, "deps-dir", "", "directory of plugin.toml-described dependency plugins")
	watchCmd.Flags().IntVar(&debounceMillis, "debounce-ms", 300, "debounce window in milliseconds before re-verifying")

	watchCmd.MarkFlagRequired("ide-dir")
}
