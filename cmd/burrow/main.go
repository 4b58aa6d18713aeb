package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/distro"
	"github.com/burrowtool/burrow/internal/engine"
	"github.com/burrowtool/burrow/internal/oplog"
	"github.com/burrowtool/burrow/internal/snapshot"
	"github.com/burrowtool/burrow/internal/ui"
)

var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath      string
	ruleIDs         []string
	listRules       bool
	dryRun          bool
	assumeYes       bool
	useSudo         bool
	userHome        string
	downloadsRemove string
	takeSnapshot    bool
	useTUI          bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Rule-driven filesystem cleanup for Linux",
	Long: `Burrow scans your system against a declarative set of cleanup rules,
shows exactly what would be removed, and deletes only what it reported.
Without a subcommand it starts the interactive interface.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Scan and clean from the command line",
	Long:  `Runs the scriptable cleanup flow: select rules, scan, then delete after confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		isRoot := os.Geteuid() == 0

		if useSudo && !isRoot {
			home, err := resolveHome(isRoot)
			if err != nil {
				return err
			}
			return reexecWithSudo(buildSudoArgs(home))
		}

		if useTUI {
			return runTUI()
		}

		return runClean(isRoot)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	cleanCmd.Flags().StringArrayVar(&ruleIDs, "rule", nil, "rule id to run (repeatable; default: rules enabled by default)")
	cleanCmd.Flags().BoolVar(&listRules, "list-rules", false, "list available rules and exit")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted without deleting")
	cleanCmd.Flags().BoolVar(&assumeYes, "yes", false, "skip confirmation prompts")
	cleanCmd.Flags().BoolVar(&useSudo, "sudo", false, "include rules that require root (re-execs under sudo)")
	cleanCmd.Flags().StringVar(&userHome, "user-home", "", "home directory to clean (set automatically on sudo re-exec)")
	cleanCmd.Flags().StringVar(&downloadsRemove, "downloads-remove", "", "downloads pairing choice: archives or folders")
	cleanCmd.Flags().BoolVar(&takeSnapshot, "snapshot", false, "create a filesystem snapshot before deleting")
	cleanCmd.Flags().BoolVar(&useTUI, "tui", false, "start the interactive interface")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(isRoot bool) error {
	home, err := resolveHome(isRoot)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	available := cfg.AvailableRules(distro.Detect().Identifiers())

	if listRules {
		printRules(available)
		return nil
	}

	rules := selectRules(available)
	if !useSudo {
		rules = dropSudoRules(rules)
	}

	if takeSnapshot && !isRoot && !dryRun {
		return fmt.Errorf("--snapshot requires root (try: sudo burrow clean --sudo --snapshot)")
	}

	if len(rules) == 0 {
		fmt.Println("No rules selected.")
		return nil
	}

	choice, err := resolveDownloadsChoice(rules)
	if err != nil {
		return err
	}

	log := oplog.New(home)
	defer log.Close()

	scans := engine.ScanRules(rules, home, engine.ScanOptions{DownloadsChoice: choice})
	printPlan(scans)
	for _, scan := range scans {
		_ = log.Record(oplog.Entry{
			Action: "scan",
			RuleID: scan.Rule.ID,
			Files:  len(scan.Files),
			Dirs:   len(scan.Dirs),
			Bytes:  scan.Bytes,
			Errors: scan.Errors,
		})
	}

	if dryRun {
		return emitDryRun(scans, home, log)
	}

	if takeSnapshot {
		support := snapshot.Detect(home)
		if support == nil {
			return fmt.Errorf("snapshot requested but no supported provider detected")
		}
		outcome, err := snapshot.Create(support)
		if err != nil {
			return err
		}
		fmt.Println(outcome)
	}

	if !assumeYes && !confirm(useSudo) {
		fmt.Println("Canceled.")
		return nil
	}

	report := engine.Apply(scans)
	for _, scan := range scans {
		_ = log.Record(oplog.Entry{
			Action:   "apply",
			RuleID:   scan.Rule.ID,
			Files:    len(scan.Files),
			Dirs:     len(scan.Dirs),
			Bytes:    scan.Bytes,
			Errors:   scan.Errors,
			Elevated: isRoot,
		})
	}

	fmt.Printf("Removed %d files and %d directories\n", report.FilesRemoved, report.DirsRemoved)
	fmt.Printf("Freed %s\n", humanize.IBytes(uint64(report.BytesFreed)))
	if report.Errors > 0 {
		fmt.Printf("Errors encountered: %d\n", report.Errors)
		for _, p := range report.Problems {
			fmt.Printf("  %s\n", p)
		}
	}

	return nil
}

func runTUI() error {
	isRoot := os.Geteuid() == 0
	home, err := resolveHome(isRoot)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var support *snapshot.Support
	if isRoot {
		support = snapshot.Detect(home)
	}

	log := oplog.New(home)
	defer log.Close()

	result, err := ui.Run(cfg.AvailableRules(distro.Detect().Identifiers()), ui.Options{
		Home:            home,
		IsRoot:          isRoot,
		SnapshotSupport: support,
		SudoReexec:      buildTUISudoArgs(home),
		Log:             log,
	})
	if err != nil {
		return err
	}

	if result.ReexecSudo != nil {
		return reexecWithSudo(result.ReexecSudo)
	}
	return nil
}

func printRules(rules []config.Rule) {
	fmt.Println("Available rules:")
	for _, rule := range rules {
		sudo := ""
		if rule.RequiresSudo {
			sudo = " (sudo)"
		}
		enabled := ""
		if rule.EnabledByDefault {
			enabled = " [default]"
		}
		fmt.Printf("- %s%s%s\n", rule.ID, sudo, enabled)
		if rule.Description != "" {
			fmt.Printf("  %s\n", rule.Description)
		}
	}
}

func printPlan(scans []engine.RuleScan) {
	fmt.Println("Cleanup plan:")
	var totalBytes int64
	totalEntries := 0
	for _, scan := range scans {
		totalBytes += scan.Bytes
		totalEntries += scan.Entries
		fmt.Printf("- %s: %s (%d items)\n", scan.Rule.Label,
			humanize.IBytes(uint64(scan.Bytes)), scan.Entries)
	}
	fmt.Printf("Total: %s across %d items\n", humanize.IBytes(uint64(totalBytes)), totalEntries)
}

func selectRules(available []config.Rule) []config.Rule {
	if len(ruleIDs) == 0 {
		var rules []config.Rule
		for _, rule := range available {
			if rule.EnabledByDefault {
				rules = append(rules, rule)
			}
		}
		return rules
	}

	byID := make(map[string]config.Rule, len(available))
	for _, rule := range available {
		byID[strings.ToLower(rule.ID)] = rule
	}

	var rules []config.Rule
	var unknown []string
	for _, id := range ruleIDs {
		rule, ok := byID[strings.ToLower(id)]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		rules = append(rules, rule)
	}
	if len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "Unknown rule ids: %s\n", strings.Join(unknown, ", "))
	}
	return rules
}

func dropSudoRules(rules []config.Rule) []config.Rule {
	var kept []config.Rule
	for _, rule := range rules {
		if !rule.RequiresSudo {
			kept = append(kept, rule)
		}
	}
	return kept
}

func resolveDownloadsChoice(rules []config.Rule) (engine.DownloadsChoice, error) {
	hasDownloads := false
	for _, rule := range rules {
		if rule.Kind == config.KindDownloads {
			hasDownloads = true
			break
		}
	}
	if !hasDownloads {
		return engine.ChoiceNone, nil
	}

	if downloadsRemove != "" {
		return engine.ParseDownloadsChoice(downloadsRemove)
	}
	if assumeYes {
		return engine.ChoiceNone, fmt.Errorf("downloads cleanup requires --downloads-remove when using --yes")
	}
	return promptDownloadsChoice()
}

func promptDownloadsChoice() (engine.DownloadsChoice, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Downloads cleanup: remove archives or folders? [a/f]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return engine.ChoiceNone, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "archive", "archives":
			return engine.ChoiceArchives, nil
		case "f", "folder", "folders":
			return engine.ChoiceFolders, nil
		case "":
			continue
		default:
			fmt.Println("Please enter 'a' for archives or 'f' for folders.")
		}
	}
}

func emitDryRun(scans []engine.RuleScan, home string, log *oplog.Logger) error {
	output := engine.DryRun(scans)
	fmt.Print(output.Details)

	if path, err := engine.WriteReport(home, output.Details); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dry-run report: %v\n", err)
	} else {
		fmt.Printf("Dry-run report saved to %s\n", path)
	}

	report := output.Report
	_ = log.Record(oplog.Entry{
		Action: "dry-run",
		Files:  report.FilesListed,
		Dirs:   report.DirsListed,
		Bytes:  report.BytesListed,
		Errors: report.Errors,
	})

	fmt.Printf("Dry-run listed %d files and %d directories\n", report.FilesListed, report.DirsListed)
	fmt.Printf("Would free %s\n", humanize.IBytes(uint64(report.BytesListed)))
	if takeSnapshot {
		fmt.Println("Snapshot skipped in dry-run.")
	}
	if report.Errors > 0 {
		fmt.Printf("Errors encountered: %d\n", report.Errors)
	}
	return nil
}

func confirm(requiresSudo bool) bool {
	reader := bufio.NewReader(os.Stdin)
	if requiresSudo {
		fmt.Print("Sudo mode: type DELETE to confirm: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(line), "delete")
	}

	fmt.Print("Proceed with deletion? [y/N]: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// buildSudoArgs reconstructs the clean invocation for a sudo re-exec,
// pinning the invoking user's home so root cleans the right tree.
func buildSudoArgs(home string) []string {
	exe, err := os.Executable()
	if err != nil {
		exe = "burrow"
	}

	args := []string{exe}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	args = append(args, "clean")
	if useTUI {
		args = append(args, "--tui")
	}
	args = append(args, "--sudo", "--user-home", home)
	if dryRun {
		args = append(args, "--dry-run")
	}
	if downloadsRemove != "" {
		args = append(args, "--downloads-remove", downloadsRemove)
	}
	if takeSnapshot {
		args = append(args, "--snapshot")
	}
	if assumeYes {
		args = append(args, "--yes")
	}
	for _, id := range ruleIDs {
		args = append(args, "--rule", id)
	}
	if listRules {
		args = append(args, "--list-rules")
	}
	return args
}

func buildTUISudoArgs(home string) []string {
	exe, err := os.Executable()
	if err != nil {
		exe = "burrow"
	}

	args := []string{exe}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	args = append(args, "clean", "--tui", "--sudo", "--user-home", home)
	return args
}

func reexecWithSudo(args []string) error {
	cmd := exec.Command("sudo", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("failed to invoke sudo: %w", err)
	}
	os.Exit(0)
	return nil
}

// resolveHome picks the home directory to clean: the explicit override,
// the invoking user's home when running under sudo, else $HOME.
func resolveHome(isRoot bool) (string, error) {
	if userHome != "" {
		return userHome, nil
	}
	if isRoot {
		if home := homeFromSudoUser(); home != "" {
			return home, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return home, nil
}

func homeFromSudoUser() string {
	user := os.Getenv("SUDO_USER")
	if user == "" {
		return ""
	}
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, user+":") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) >= 6 && filepath.IsAbs(fields[5]) {
			return fields[5]
		}
	}
	return ""
}
