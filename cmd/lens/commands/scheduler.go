package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/backend/internal/analytics"
	"github.com/tradelens/backend/internal/report"
	"github.com/tradelens/backend/internal/scheduler"
	"github.com/tradelens/backend/internal/scheduler/jobs"
	"github.com/tradelens/backend/internal/trades"
	"github.com/tradelens/backend/pkg/config"
	"github.com/tradelens/backend/pkg/database"
	"github.com/tradelens/backend/pkg/logger"
	"github.com/tradelens/backend/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background job daemon",
	Long: `Runs the scheduler daemon without the API server.

Registered jobs:
- analytics_precompute: 02:30 daily (warm summaries for active users)
- compute_run_retention: 03:15 daily (prune old audit rows)

Subcommands:
  start - start the daemon
  run   - run one job immediately, then exit

Example:
  go run ./cmd/lens scheduler start
  go run ./cmd/lens scheduler run analytics_precompute`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runSchedulerDaemon,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler wires the daemon's jobs against live dependencies
func buildScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, precompute will not warm the cache")
		redisClient = nil
	}

	var cache *redis.Cache
	if redisClient != nil && redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "analytics")
	}

	profile, profileHash, err := loadProfile(cfg, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	facade := analytics.NewFacade(profile, log)
	tradeRepo := trades.NewRepository(db.Pool)
	runRepo := report.NewRepository(db.Pool)
	service := report.NewService(tradeRepo, facade, cache, runRepo, profileHash, profile.Compute.CacheTTL(), log)

	sched := scheduler.New(log)
	if cfg.Analytics.PrecomputeEnabled {
		if err := sched.AddJob(jobs.NewPrecomputeJob(tradeRepo, service, nil, log)); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	if err := sched.AddJob(jobs.NewRetentionJob(runRepo, auditRetainDays, log)); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if redisClient != nil {
			redisClient.Close()
		}
		db.Close()
	}
	return sched, cleanup, nil
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TradeLens Scheduler ===")

	sched, cleanup, err := buildScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()
	fmt.Println("\n✅ Scheduler running")
	for _, name := range sched.Jobs() {
		fmt.Printf("   - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := buildScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	jobName := args[0]
	fmt.Printf("Running job %s...\n", jobName)
	if err := sched.RunNow(jobName); err != nil {
		return err
	}

	// RunNow is asynchronous; poll history until the run lands
	for {
		time.Sleep(200 * time.Millisecond)
		history, err := sched.History(jobName)
		if err != nil {
			return err
		}
		if last := history.Last(); last != nil {
			if !last.Success {
				return fmt.Errorf("job %s failed: %s", jobName, last.Error)
			}
			fmt.Printf("✅ Job %s completed in %v\n", jobName, last.Duration)
			return nil
		}
	}
}
