package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/logger"
	"github.com/minebound/digsim/internal/montecarlo"
	"github.com/minebound/digsim/internal/optimizer"
	"github.com/minebound/digsim/internal/sim"
	"github.com/minebound/digsim/internal/stats"
	"github.com/minebound/digsim/internal/storage"
	"github.com/minebound/digsim/internal/tables"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("digsimctl requires a subcommand: simulate|compare|optimize|plan-gems|reports")
	}
	switch args[0] {
	case "simulate":
		return runSimulate(ctx, args[1:])
	case "compare":
		return runCompare(ctx, args[1:])
	case "optimize":
		return runOptimize(ctx, args[1:])
	case "plan-gems":
		return runPlanGems(args[1:])
	case "reports":
		return runReports(ctx, args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

type commonFlags struct {
	profile    string
	tablesPath string
	runs       int
	seed       uint64
	metric     string
	store      string
	dbPath     string
}

func registerCommon(fs *flag.FlagSet, c *commonFlags) {
	fs.StringVar(&c.profile, "profile", "", "profile yaml path")
	fs.StringVar(&c.tablesPath, "tables", "", "progression tables yaml path (default: built-in)")
	fs.IntVar(&c.runs, "runs", 2000, "simulated runs per batch")
	fs.Uint64Var(&c.seed, "seed", 1, "random seed")
	fs.StringVar(&c.metric, "metric", "depth", "objective metric: depth, xp, fragments:<archetype>")
	fs.StringVar(&c.store, "store", "", "report store backend: memory or sqlite")
	fs.StringVar(&c.dbPath, "db", "digsim.db", "sqlite database path")
}

func setup(c commonFlags) (Profile, *sim.Simulator, error) {
	if c.profile == "" {
		return Profile{}, nil, errors.New("--profile is required")
	}
	p, err := loadProfile(c.profile)
	if err != nil {
		return Profile{}, nil, err
	}
	cfg := logger.DefaultConfig()
	if p.Logging != nil {
		cfg = *p.Logging
	}
	logger.Initialize(cfg)

	tbl, err := tables.NewLoader(c.tablesPath).Load()
	if err != nil {
		return Profile{}, nil, err
	}
	return p, sim.New(tbl), nil
}

func openStore(ctx context.Context, c commonFlags) (storage.Store, error) {
	if c.store == "" {
		return nil, nil
	}
	st, err := storage.NewStore(c.store, c.dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func progressPrinter() func(done, total int) {
	return func(done, total int) {
		if done%100 == 0 || done == total {
			fmt.Fprintf(os.Stderr, "\r%d/%d runs", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
}

func runSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	var c commonFlags
	registerCommon(fs, &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, simulator, err := setup(c)
	if err != nil {
		return err
	}
	metric, err := parseMetric(c.metric)
	if err != nil {
		return err
	}

	driver := montecarlo.New(simulator)
	driver.OnProgress = progressPrinter()
	bundle := loadout.Aggregate(p.Allocation)
	batch, err := driver.Sample(ctx, bundle, p.StartDepth, p.Abilities.flags(), c.runs, c.seed)
	if err != nil {
		return err
	}
	if batch.Partial {
		fmt.Printf("batch cancelled after %d/%d runs; statistics withheld\n", len(batch.Outcomes), c.runs)
		return nil
	}

	summary := stats.Describe(metric.Series(batch.Outcomes))
	capped := 0
	for _, o := range batch.Outcomes {
		if o.SafetyCapHit {
			capped++
		}
	}
	fmt.Printf("%s (%s, %d runs, seed %d)\n", p.Label, metric, summary.N, c.seed)
	fmt.Printf("  mean %.2f  median %.2f  stddev %.2f\n", summary.Mean, summary.Median, summary.StdDev)
	fmt.Printf("  p10 %.2f  p90 %.2f  min %.2f  max %.2f\n", summary.P10, summary.P90, summary.Min, summary.Max)
	if capped > 0 {
		fmt.Printf("  warning: %d runs hit the safety cap; the build may be degenerate\n", capped)
	}

	st, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	if st != nil {
		defer storage.CloseIfSupported(st)
		return st.SaveBatchSummary(ctx, storage.BatchSummary{
			ID:           batch.ID,
			Label:        p.Label,
			Seed:         batch.Seed,
			Runs:         summary.N,
			Partial:      batch.Partial,
			Metric:       metric.String(),
			Summary:      summary,
			CreatedAtUTC: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return nil
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	var c commonFlags
	registerCommon(fs, &c)
	profileB := fs.String("profile-b", "", "second profile yaml path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *profileB == "" {
		return errors.New("compare requires --profile-b")
	}
	p, simulator, err := setup(c)
	if err != nil {
		return err
	}
	pb, err := loadProfile(*profileB)
	if err != nil {
		return err
	}
	metric, err := parseMetric(c.metric)
	if err != nil {
		return err
	}

	driver := montecarlo.New(simulator)
	driver.OnProgress = progressPrinter()
	batchA, batchB, err := driver.SamplePaired(ctx,
		loadout.Aggregate(p.Allocation), loadout.Aggregate(pb.Allocation),
		p.StartDepth, p.Abilities.flags(), c.runs, c.seed)
	if err != nil {
		return err
	}
	report, err := stats.Compare(metric.Series(batchA.Outcomes), metric.Series(batchB.Outcomes))
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s (%s, %d runs each)\n", p.Label, pb.Label, metric, c.runs)
	fmt.Printf("  %-12s mean %.2f  median %.2f  stddev %.2f\n", p.Label, report.A.Mean, report.A.Median, report.A.StdDev)
	fmt.Printf("  %-12s mean %.2f  median %.2f  stddev %.2f\n", pb.Label, report.B.Mean, report.B.Median, report.B.StdDev)
	fmt.Printf("  mean difference %+.3f, U=%.0f, p=%.4g: %s\n", report.MeanDiff, report.U, report.P, report.Significance)

	st, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	if st != nil {
		defer storage.CloseIfSupported(st)
		return st.SaveComparison(ctx, storage.ComparisonRecord{
			ID:           batchA.ID,
			LabelA:       p.Label,
			LabelB:       pb.Label,
			Metric:       metric.String(),
			Report:       report,
			CreatedAtUTC: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return nil
}

func runOptimize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	var c commonFlags
	registerCommon(fs, &c)
	sampled := fs.Bool("sampled", false, "evaluate candidates by Monte Carlo sampling instead of expected value")
	explore := fs.Float64("explore", 0, "probability of taking a random affordable candidate per step")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, simulator, err := setup(c)
	if err != nil {
		return err
	}
	metric, err := parseMetric(c.metric)
	if err != nil {
		return err
	}

	opt := optimizer.New(simulator, montecarlo.New(simulator))
	if *explore > 0 {
		opt.ExplorationRate = *explore
		opt.Rng = sim.NewSeededRNG(c.seed)
	}
	obj := optimizer.Objective{
		Metric:     metric,
		StartDepth: p.StartDepth,
		Flags:      p.Abilities.flags(),
		Sampled:    *sampled,
		Runs:       c.runs,
		Seed:       c.seed,
	}

	final, steps, err := opt.Optimize(ctx, p.Allocation, p.Budget, obj)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		fmt.Println("no affordable improvement found; allocation unchanged")
		return nil
	}
	fmt.Printf("%s: %d purchases toward %s\n", p.Label, len(steps), metric)
	for i, step := range steps {
		tag := ""
		if step.Candidate.Kind == optimizer.CandidateExploratory {
			tag = " [exploratory]"
		}
		fmt.Printf("  %2d. %s  (%+.2f%%)%s\n", i+1, step.Candidate.Label, step.Candidate.Improvement*100, tag)
	}
	remaining := steps[len(steps)-1].Remaining
	fmt.Printf("  remaining: %d skill points, %d scrap, %d gems\n", remaining.SkillPoints, remaining.Scrap, remaining.Gems)

	out, err := yaml.Marshal(final)
	if err != nil {
		return err
	}
	fmt.Println("resulting allocation:")
	fmt.Print(string(out))
	return nil
}

func runPlanGems(args []string) error {
	fs := flag.NewFlagSet("plan-gems", flag.ContinueOnError)
	var c commonFlags
	registerCommon(fs, &c)
	gems := fs.Int("gems", 0, "gem budget to plan (default: profile budget)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, simulator, err := setup(c)
	if err != nil {
		return err
	}
	metric, err := parseMetric(c.metric)
	if err != nil {
		return err
	}
	budget := *gems
	if budget <= 0 {
		budget = p.Budget.Gems
	}

	opt := optimizer.New(simulator, montecarlo.New(simulator))
	plan, err := opt.PlanGems(p.Allocation, budget, optimizer.Objective{
		Metric:     metric,
		StartDepth: p.StartDepth,
		Flags:      p.Abilities.flags(),
	})
	if err != nil {
		return err
	}
	if len(plan.Purchases) == 0 {
		fmt.Println("no worthwhile gem purchase within budget")
		return nil
	}
	fmt.Printf("%s: best %d-gem plan toward %s (estimated %+.2f)\n", p.Label, budget, metric, plan.TotalValue)
	for _, purchase := range plan.Purchases {
		fmt.Printf("  %-24s +%d levels  %d gems  (%+.2f)\n", purchase.Field, purchase.Levels, purchase.Cost, purchase.Value)
	}
	fmt.Printf("  total: %d gems\n", plan.TotalCost)
	return nil
}

func runReports(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reports", flag.ContinueOnError)
	var c commonFlags
	registerCommon(fs, &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.store == "" {
		c.store = "sqlite"
	}
	st, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(st)

	records, err := st.ListComparisons(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no stored comparisons")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s vs %s  %s  diff %+.3f  p=%.4g  %s\n",
			r.CreatedAtUTC, r.LabelA, r.LabelB, r.Metric, r.Report.MeanDiff, r.Report.P, r.Report.Significance)
	}
	return nil
}
