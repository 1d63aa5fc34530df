package cli

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/config"
	"github.com/forge-lang/forgec/internal/semantic"
	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/variantgen"
)

var (
	configPath string
	watch      bool
	showVariants bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>.json",
	Short: "Run the semantic pipeline over a JSON AST fixture",
	Long: `Load a JSON-serialized AST fixture and run it through the symbol table,
memory analyzer, and semantic analyzer, printing any accumulated
diagnostics. With --show-variants, also prints the try_/check_/find_
wrapper functions the variant generator would synthesize for each
failable function.

Examples:
  forgec check program.json
  forgec check program.json --language sweet
  forgec check program.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (language/mode/minVersion)")
	checkCmd.Flags().String("language", "", "override the configured language (forge|sweet)")
	checkCmd.Flags().BoolVar(&watch, "watch", false, "re-run on file change")
	checkCmd.Flags().BoolVar(&showVariants, "show-variants", false, "print synthesized try_/check_/find_ wrappers")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	if watch {
		return watchAndCheck(cmd, path)
	}

	return checkOnce(cmd, path)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{Language: config.LanguageForge, Mode: config.ModeNormal}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		cfg.Language = config.Language(lang)
	}
	return cfg, nil
}

func checkOnce(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	prog, err := DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	diagnostics, variants := runPipeline(prog, cfg)

	for _, d := range diagnostics {
		fmt.Println(source.Format(d, ""))
	}

	if showVariants {
		printVariants(variants)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%s: %d diagnostic(s), %d generated variant(s)\n", path, len(diagnostics), len(variants))
	}

	if len(diagnostics) > 0 {
		return fmt.Errorf("semantic analysis failed with %d diagnostic(s)", len(diagnostics))
	}
	return nil
}

// runPipeline drives Symbol Table -> Memory Analyzer -> Semantic Analyzer ->
// Variant Generator over prog and returns the accumulated diagnostics
// alongside every synthesized variant function.
func runPipeline(prog *ast.Program, cfg *config.Config) ([]source.Diagnostic, []*ast.FunctionDecl) {
	analyzer := semantic.NewAnalyzer(cfg.AnalyzerLanguage(), nil)
	errs := analyzer.Analyze(prog)

	diagnostics := make([]source.Diagnostic, 0, len(errs))
	for _, e := range errs {
		diagnostics = append(diagnostics, source.Diagnostic{Pos: e.Pos, Kind: string(e.Kind), Message: e.Message})
	}

	var variants []*ast.FunctionDecl
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FunctionDecl); ok {
			variants = append(variants, variantgen.Generate(fn)...)
		}
	}

	return diagnostics, variants
}

func printVariants(variants []*ast.FunctionDecl) {
	for _, v := range variants {
		fmt.Printf("generated: %s\n", v.String())
	}
}

// watchAndCheck re-invokes checkOnce on every write to path, using a fresh
// analyzer per run (spec.md §5: no state is ever reused across runs).
func watchAndCheck(cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "watching %s for changes (ctrl-c to stop)\n", path)
	if err := checkOnce(cmd, path); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "\n%s changed, re-checking...\n", path)
			if err := checkOnce(cmd, path); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
