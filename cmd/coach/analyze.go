package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/jobs"
	"github.com/jonathan/career-coach/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a long-running backend analysis and wait for it",
}

var analyzeGithubCmd = &cobra.Command{
	Use:   "github <username>",
	Short: "Analyze a GitHub profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, types.JobKindGitHub, map[string]string{"username": args[0]})
	},
}

var analyzeLinkedinCmd = &cobra.Command{
	Use:   "linkedin <profile-url>",
	Short: "Analyze a LinkedIn profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, types.JobKindLinkedIn, map[string]string{"profile_url": args[0]})
	},
}

var analyzeResumeCmd = &cobra.Command{
	Use:   "resume <file>",
	Short: "Upload a resume and wait for parsing",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeAnalysis,
}

func init() {
	analyzeCmd.AddCommand(analyzeGithubCmd)
	analyzeCmd.AddCommand(analyzeLinkedinCmd)
	analyzeCmd.AddCommand(analyzeResumeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalysis(cmd *cobra.Command, kind types.JobKind, params map[string]string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.identity(); err != nil {
		return err
	}

	params["request_id"] = uuid.NewString()
	handle, err := a.poller().Submit(ctx, kind, params, a.completionHandler(kind))
	if err != nil {
		return err
	}

	fmt.Printf("Submitted %s analysis %s, polling...\n", kind, handle.Job().JobID)
	return waitForJob(a, handle)
}

func runResumeAnalysis(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.identity(); err != nil {
		return err
	}

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open resume file: %w", err)
	}
	defer func() { _ = file.Close() }()

	submit, err := a.client.UploadResume(ctx, filepath.Base(path), file)
	if err != nil {
		return err
	}

	job := types.AnalysisJob{
		JobID:  submit.JobID,
		Kind:   types.JobKindResume,
		Status: types.JobStatusPending,
	}
	handle := a.poller().Track(ctx, job, a.completionHandler(types.JobKindResume))

	fmt.Printf("Uploaded resume, job %s, polling...\n", submit.JobID)
	return waitForJob(a, handle)
}

// completionHandler fetches the finished job's results and refreshes the
// progress snapshot, claiming any milestones the new state crosses.
func (a *app) completionHandler(kind types.JobKind) jobs.CompletionHandler {
	return func(ctx context.Context, job types.AnalysisJob) {
		var results *types.AnalysisResults
		var err error
		if kind == types.JobKindResume {
			results, err = a.client.ResumeResults(ctx, job.JobID)
		} else {
			results, err = a.client.AnalysisResults(ctx, job.JobID)
		}
		if err != nil {
			a.log.Warn("failed to fetch results for completed job",
				zap.String("job_id", job.JobID),
				zap.Error(err))
			return
		}

		data, err := json.MarshalIndent(json.RawMessage(results.Results), "", "  ")
		if err == nil {
			fmt.Printf("Results:\n%s\n", data)
		}

		identity, err := a.identity()
		if err != nil {
			return
		}
		snapshot := a.aggregator().Snapshot(ctx)
		a.printer.PrintProgress(snapshot)
		if result, err := a.evaluator(identity).Evaluate(ctx, identity, snapshot); err == nil {
			a.printer.PrintRewards(result.Granted, result.TotalXP)
		}
	}
}

func waitForJob(a *app, handle *jobs.Handle) error {
	<-handle.Done()

	err := handle.Err()
	switch {
	case err == nil:
		fmt.Println("Analysis complete")
		return nil
	case errors.Is(err, jobs.ErrCanceled):
		fmt.Println("Polling canceled")
		return nil
	default:
		a.printer.PrintJob(handle.Job())
		return err
	}
}
