// Package cmd implements the CLI command structure for taskmate.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nibzard/taskmate-go/internal/app"
	"github.com/nibzard/taskmate-go/internal/classifier"
	"github.com/nibzard/taskmate-go/internal/config"
	"github.com/nibzard/taskmate-go/internal/logging"
	"github.com/nibzard/taskmate-go/internal/shell"
	"github.com/nibzard/taskmate-go/internal/todo"
	"github.com/nibzard/taskmate-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams carries the standard streams so commands can be tested.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the taskmate CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, st streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskmate", flag.ContinueOnError)
	fs.SetOutput(st.err)
	fs.Usage = func() {
		printUsage(fs, st.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, st.out)
		return nil
	}
	if *showVersion {
		return versionCommand(st.out)
	}
	cfg := cws.Config

	// No subcommand runs the interactive menu
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu":
		return menuCommand(ctx, cfg, st)
	case "add":
		return addCommand(ctx, cfg, remainingArgs, st)
	case "rm", "remove":
		return rmCommand(ctx, cfg, remainingArgs, st)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs, st)
	case "recommend":
		return recommendCommand(cfg, st)
	case "predict":
		return predictCommand(cfg, remainingArgs, st)
	case "import":
		return importCommand(ctx, cfg, remainingArgs, st)
	case "export":
		return exportCommand(cfg, remainingArgs, st)
	case "tui":
		return tuiCommand(ctx, cfg, st)
	case "config":
		return configCommand(cws, remainingArgs, st)
	case "version":
		return versionCommand(st.out)
	case "help":
		printUsage(fs, st.out)
		return nil
	default:
		fmt.Fprintf(st.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, st.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openApp loads the task file and trains the classifier.
func openApp(cfg *config.Config, st streams) (*app.App, error) {
	logger := logging.FromConfig(cfg, st.err)
	return app.New(cfg, app.WithLogger(logger), app.WithHookOutput(st.out))
}

// menuCommand runs the interactive numbered menu.
func menuCommand(ctx context.Context, cfg *config.Config, st streams) error {
	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	return shell.New(a, st.in, st.out).Run(ctx)
}

// addCommand adds one task. Without -p the classifier picks the priority.
func addCommand(ctx context.Context, cfg *config.Config, args []string, st streams) error {
	fs := flag.NewFlagSet("taskmate add", flag.ContinueOnError)
	fs.SetOutput(st.err)
	priority := fs.String("p", "", "Task priority (Low|Medium|High)")
	fs.StringVar(priority, "priority", "", "Task priority (Low|Medium|High)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	desc := strings.Join(positional, " ")
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("usage: taskmate add <description> -p <Low|Medium|High>")
	}

	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}

	prio := *priority
	if prio == "" {
		pred, err := a.Predict(desc)
		if err != nil {
			if errors.Is(err, classifier.ErrNotTrained) {
				return fmt.Errorf("no priority given and the classifier is not trained; use -p")
			}
			return err
		}
		prio = string(pred.Priority)
		fmt.Fprintf(st.out, "Predicted priority: %s\n", prio)
	}

	task, err := a.Add(ctx, desc, prio)
	if err != nil {
		return err
	}
	fmt.Fprintf(st.out, "Task added successfully: %s - Priority: %s\n", task.Description, task.Priority)
	return nil
}

// rmCommand removes every task with the given description.
func rmCommand(ctx context.Context, cfg *config.Config, args []string, st streams) error {
	desc := strings.Join(args, " ")
	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	removed, err := a.Remove(ctx, desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(st.out, "Task removed successfully (%d matched).\n", removed)
	return nil
}

// lsCommand lists tasks, optionally filtered by priority.
func lsCommand(cfg *config.Config, args []string, st streams) error {
	fs := flag.NewFlagSet("taskmate ls", flag.ContinueOnError)
	fs.SetOutput(st.err)
	filter := fs.String("p", "", "Only show tasks with this priority")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	tasks := a.List()
	if *filter != "" {
		want, err := todo.ParsePriority(*filter)
		if err != nil {
			return err
		}
		var filtered []todo.Task
		for _, t := range tasks {
			if strings.EqualFold(string(t.Priority), string(want)) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	shell.WriteList(st.out, tasks)
	return nil
}

// recommendCommand prints a random High priority task.
func recommendCommand(cfg *config.Config, st streams) error {
	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	shell.WriteRecommendation(st.out, a.Recommend())
	return nil
}

// predictCommand prints the classifier's guess for a description.
func predictCommand(cfg *config.Config, args []string, st streams) error {
	fs := flag.NewFlagSet("taskmate predict", flag.ContinueOnError)
	fs.SetOutput(st.err)
	verbose := fs.Bool("v", false, "Show class probabilities")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	desc := strings.Join(positional, " ")
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("usage: taskmate predict <description>")
	}

	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	pred, err := a.Predict(desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(st.out, "Predicted priority: %s\n", pred.Priority)
	if *verbose {
		classes := make([]string, 0, len(pred.Probabilities))
		for p := range pred.Probabilities {
			classes = append(classes, string(p))
		}
		sort.Strings(classes)
		for _, c := range classes {
			fmt.Fprintf(st.out, "  %-6s %.3f\n", c, pred.Probabilities[todo.Priority(c)])
		}
	}
	return nil
}

// importCommand appends tasks from a JSON file.
func importCommand(ctx context.Context, cfg *config.Config, args []string, st streams) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskmate import <file.json>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	n, err := a.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(st.out, "Imported %d tasks.\n", n)
	return nil
}

// createExportFile opens the export destination.
var createExportFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// exportCommand writes the task list in another format.
func exportCommand(cfg *config.Config, args []string, st streams) error {
	fs := flag.NewFlagSet("taskmate export", flag.ContinueOnError)
	fs.SetOutput(st.err)
	formatName := fs.String("format", "", "Output format (csv|json|yaml|pdf)")
	outPath := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	name := *formatName
	if name == "" {
		name = "csv"
		if *outPath != "" {
			if ext := strings.TrimPrefix(filepath.Ext(*outPath), "."); ext != "" {
				name = ext
			}
		}
	}
	format, err := todo.ParseFormat(name)
	if err != nil {
		return err
	}
	if format == todo.FormatPDF && *outPath == "" && ui.IsTTY(st.out) {
		return fmt.Errorf("refusing to write pdf to a terminal; use -o")
	}

	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}

	if *outPath == "" {
		return a.Export(st.out, format)
	}
	return exportToFile(a, *outPath, format)
}

// exportToFile writes the export to path. A failed close is reported, since
// buffered data may not have reached the disk.
func exportToFile(a *app.App, path string, format todo.Format) error {
	f, err := createExportFile(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := a.Export(f, format); err != nil {
		f.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, st streams) error {
	a, err := openApp(cfg, st)
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, a)
}

// configCommand prints the effective configuration with sources, or an
// example file with -example.
func configCommand(cws *config.ConfigWithSources, args []string, st streams) error {
	fs := flag.NewFlagSet("taskmate config", flag.ContinueOnError)
	fs.SetOutput(st.err)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(st.out, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	values := []struct {
		key   string
		value any
	}{
		{"task_file", cfg.TaskFile},
		{"retrain_on_change", cfg.RetrainOnChange},
		{"hook_command", cfg.HookCommand},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, v := range values {
		fmt.Fprintf(st.out, "%-18s = %-40v # %s\n", v.key, fmt.Sprintf("%q", fmt.Sprint(v.value)), cws.Sources[v.key])
	}
	if len(cws.Files) > 0 {
		fmt.Fprintln(st.out)
		fmt.Fprintln(st.out, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(st.out, "  %s\n", f)
		}
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskmate version %s\n", Version)
	return nil
}

// parseInterspersed parses flags that may appear before, between or after
// positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskmate - A personal task manager with priority recommendations")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskmate [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu                       Interactive menu (default command)")
	fmt.Fprintln(w, "  add <description> [-p P]   Add a task (priority predicted when -p is omitted)")
	fmt.Fprintln(w, "  rm <description>           Remove every task with this description")
	fmt.Fprintln(w, "  ls [-p P]                  List tasks")
	fmt.Fprintln(w, "  recommend                  Recommend a random High priority task")
	fmt.Fprintln(w, "  predict [-v] <description> Predict the priority of a description")
	fmt.Fprintln(w, "  import <file.json>         Append tasks from a JSON file")
	fmt.Fprintln(w, "  export [-format F] [-o f]  Export tasks (csv|json|yaml|pdf)")
	fmt.Fprintln(w, "  tui                        Launch terminal UI")
	fmt.Fprintln(w, "  config [-example]          Show effective config or an example file")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
