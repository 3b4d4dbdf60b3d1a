// Command synth enumerates derivation trees of a YAML-defined grammar,
// best first, with optional forbidden-pattern constraints.
//
// Usage:
//
//	synth enumerate --grammar arith.yaml --max-depth 3 --limit 10
//
// The grammar file names the start symbol, the production rules (numbered
// from one in file order) and any forbidden subtree patterns; see
// internal/grammarcfg for the exact layout.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gosynth/internal/grammarcfg"
	"github.com/gitrdm/gosynth/pkg/synth"
)

var (
	grammarPath string
	startSym    string
	maxDepth    int
	limit       int
	order       string
	scan        string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "synth",
	Short:         "Best-first enumeration of derivation trees",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Enumerate the trees of a grammar, best first",
	RunE:  runEnumerate,
}

func init() {
	enumerateCmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar YAML file (required)")
	enumerateCmd.Flags().StringVarP(&startSym, "start", "s", "", "start symbol (default: the file's)")
	enumerateCmd.Flags().IntVarP(&maxDepth, "max-depth", "d", 5, "maximum tree depth")
	enumerateCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many trees (0 = all)")
	enumerateCmd.Flags().StringVar(&order, "order", "bfs", "traversal order: bfs or dfs")
	enumerateCmd.Flags().StringVar(&scan, "scan", "leftmost", "hole selection: leftmost or rightmost")
	enumerateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = enumerateCmd.MarkFlagRequired("grammar")
	rootCmd.AddCommand(enumerateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "synth:", err)
		os.Exit(1)
	}
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := grammarcfg.Load(grammarPath)
	if err != nil {
		return err
	}
	start := cfg.Start
	if startSym != "" {
		start = synth.Symbol(startSym)
	}

	var priority synth.PriorityFunc
	switch order {
	case "bfs":
		priority = synth.BFSPriority
	case "dfs":
		priority = synth.DFSPriority
	default:
		return fmt.Errorf("unknown order %q (want bfs or dfs)", order)
	}

	var heuristic synth.HoleHeuristic
	switch scan {
	case "leftmost":
		heuristic = synth.LeftmostHeuristic
	case "rightmost":
		heuristic = synth.RightmostHeuristic
	default:
		return fmt.Errorf("unknown scan %q (want leftmost or rightmost)", scan)
	}

	logger.Info("grammar loaded",
		"file", grammarPath,
		"rules", cfg.Grammar.RuleCount(),
		"start", string(start),
		"constraints", len(cfg.Constraints))

	it, err := synth.NewTopDownIterator(cfg.Grammar, start, synth.IteratorConfig{
		MaxDepth:    maxDepth,
		Heuristic:   heuristic,
		Priority:    priority,
		Constraints: cfg.Constraints,
	})
	if err != nil {
		return err
	}

	count := 0
	for tree := range it.Trees() {
		count++
		fmt.Printf("%4d  %s\n", count, renderLabeled(cfg.Grammar, tree))
		logger.Debug("tree", "n", count, "size", tree.Size(), "depth", tree.Depth())
		if limit > 0 && count >= limit {
			logger.Info("limit reached", "count", count)
			return nil
		}
	}
	logger.Info("space exhausted", "count", count)
	return nil
}

// renderLabeled prints a complete tree using rule labels where the
// grammar defines them; Label falls back to the rule index otherwise.
func renderLabeled(g *synth.TableGrammar, n *synth.Node) string {
	head := g.Label(n.Rule())
	kids := n.Children()
	if len(kids) == 0 {
		return head
	}
	parts := make([]string, len(kids))
	for i, c := range kids {
		parts[i] = renderLabeled(g, c)
	}
	return head + "(" + strings.Join(parts, ",") + ")"
}
