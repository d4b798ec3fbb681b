package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cssinline <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Inline stylesheets and write the output document")
	fmt.Fprintln(w, "  watch      Build, then rebuild when the input or its stylesheets change")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cssinline help <command>' for details on a specific command.")
}

// printSettingsFlags prints the flags shared by build and watch.
func printSettingsFlags(w io.Writer) {
	fmt.Fprintln(w, "Settings:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: cssinline)")
	fmt.Fprintln(w, "  -i, --input <file>        Source HTML file")
	fmt.Fprintln(w, "  -d, --output-dir <dir>    Output directory")
	fmt.Fprintln(w, "  -o, --output <file>       Output file, relative to the output directory")
	fmt.Fprintln(w, "  -j, --jobs <n>            Parallel page builds (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-link details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CSSINLINE_CONFIG, CSSINLINE_INPUT, CSSINLINE_OUTPUT_DIR,")
	fmt.Fprintln(w, "  CSSINLINE_OUTPUT_FILE, CSSINLINE_JOBS")
	fmt.Fprintln(w, "  Flags take precedence over environment, environment over the config file.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cssinline build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replace <link rel=\"stylesheet\"> elements with <style> blocks holding the")
	fmt.Fprintln(w, "referenced file, then write the document to <output-dir>/<output>.")
	fmt.Fprintln(w, "Links whose href contains ?external are kept as they are.")
	fmt.Fprintln(w)
	printSettingsFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cssinline watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build once, then rebuild whenever an input document or one of its")
	fmt.Fprintln(w, "stylesheets changes. Stop with Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <dur>      Delay before rebuilding (default 200ms)")
	fmt.Fprintln(w)
	printSettingsFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cssinline version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cssinline help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
