package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ololoshechkin/plugin-verifier/internal/config"
	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
	"github.com/Ololoshechkin/plugin-verifier/internal/report"
	"github.com/Ololoshechkin/plugin-verifier/utils"
)

var pluginArchiveExtensions = []string{".jar", ".zip"}

var (
	ideDir               string
	ideVersion           string
	bundledJdkDir        string
	jdkDir               string
	jdkVersion           string
	depsDir              string
	externalClasspath    []string
	externalClassPrefix  []string
	findDeprecatedUsages bool
	interactive          bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify PLUGIN_PATH",
	Short: "Verify a plugin's bytecode references against an IDE, JDK, and its declared dependencies",
	Long: `verify loads a plugin (a directory containing a plugin.toml, or an
archive with a same-named .toml sidecar), resolves its declared dependency graph, assembles its
classpath (plugin, JDK, host IDE, transitive dependencies, external
classpath), and reports every bytecode reference that would fail at
load/link/invocation time.

Examples:
  binverify verify ./my-plugin --ide-dir ./ide-classes --ide-version 2024.1
  binverify verify ./my-plugin --ide-dir ./ide --jdk-dir ./jdk17 --interactive`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return utils.CompleteFilesByExtension(pluginArchiveExtensions)(cmd, args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := resolveParams()
		if err != nil {
			return err
		}

		plugin, err := engine.LoadFilesystemPluginDetails(args[0])
		if err != nil {
			return fmt.Errorf("load plugin: %w", err)
		}
		defer plugin.Close()

		ide := engine.NewFilesystemIdeDescriptor(ideVersion, ideDir, bundledJdkDir)
		defer ide.Close()

		var jdk engine.JdkDescriptor
		if jdkDir != "" {
			jdk = engine.NewFilesystemJdkDescriptor(jdkVersion, jdkDir)
		}

		finder, err := resolveFinder()
		if err != nil {
			return err
		}

		sched := engine.NewScheduler(1)
		defer sched.Stop()

		job := engine.NewJob(engine.Request{
			Plugin: plugin,
			Ide:    ide,
			Jdk:    jdk,
			Finder: finder,
			Params: params,
		})

		outcome := <-sched.Submit(job)
		if outcome.Err != nil {
			return fmt.Errorf("verification job failed: %w", outcome.Err)
		}

		if interactive {
			return report.Run(outcome.Result)
		}
		printSummary(outcome.Result)
		return nil
	},
}

func resolveParams() (engine.VerifierParameters, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	params := config.Default()
	params.ExternalClasspath = externalClasspath
	params.ExternalClassPrefixes = externalClassPrefix
	params.FindDeprecatedAPIUsages = findDeprecatedUsages
	return params, nil
}

func resolveFinder() (*engine.MapDependencyFinder, error) {
	if depsDir == "" {
		return engine.NewMapDependencyFinder(nil), nil
	}
	return engine.LoadDependencyDirectory(depsDir)
}

func printSummary(result engine.VerificationResult) {
	fmt.Printf("%s: %s (%s)\n", result.PluginID, result.Kind.String(), utils.FormatDuration(result.Duration))
	if result.FailureReason != "" {
		fmt.Printf("  reason: %s\n", result.FailureReason)
	}
	for _, w := range result.StructureWarnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, p := range result.Problems {
		fmt.Printf("  problem: %s — %s\n", p.Kind.String(), p.ShortDescription())
	}
	if len(result.Problems) > 0 {
		fmt.Printf("%s\n", strings.Repeat("-", 40))
		fmt.Printf("%d problem(s) found\n", len(result.Problems))
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&ideDir, "ide-dir", "", "directory of the host IDE's classes (required)")
	verifyCmd.Flags().StringVar(&ideVersion, "ide-version", "", "host IDE version string")
	verifyCmd.Flags().StringVar(&bundledJdkDir, "bundled-jdk-dir", "", "directory of the IDE's bundled JDK classes, if any")
	verifyCmd.Flags().StringVar(&jdkDir, "jdk-dir", "", "directory of a standalone JDK's classes, used if the IDE has no bundled JDK")
	verifyCmd.Flags().StringVar(&jdkVersion, "jdk-version", "", "standalone JDK version string")
	verifyCmd.Flags().StringVar(&depsDir, "deps-dir", "", "directory of plugin.toml-described dependency plugins")
	verifyCmd.Flags().StringSliceVar(&externalClasspath, "external-classpath", nil, "additional classpath directories/archives, appended last")
	verifyCmd.Flags().StringSliceVar(&externalClassPrefix, "external-class-prefix", nil, "package prefixes treated as externally supplied and never reported missing")
	verifyCmd.Flags().BoolVar(&findDeprecatedUsages, "find-deprecated", false, "record deprecated/experimental/internal API usages")
	verifyCmd.Flags().BoolVar(&interactive, "interactive", false, "open the interactive dashboard instead of printing a summary")

	verifyCmd.MarkFlagRequired("ide-dir")
}
