// Command simulate plays scripted candidates through interviews in
// parallel, against the configured model or fully offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/interviewpartner/backend/internal/catalog"
	"github.com/interviewpartner/backend/internal/infrastructure/config"
	"github.com/interviewpartner/backend/internal/infrastructure/setup"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/llm/llmtest"
	"github.com/interviewpartner/backend/internal/service"
	"github.com/interviewpartner/backend/internal/simulation"
	"github.com/interviewpartner/backend/internal/store"
)

const offlineFeedback = `{"scores": {"communication": 4, "technical_knowledge": 3, "structure": 4},
"strengths": ["Concrete examples", "Calm delivery", "Good structure"],
"improvements": ["Quantify impact", "Tighter answers", "Close with a summary"],
"overall_feedback": "A solid simulated run with clear answers and room to add measurable outcomes."}`

func main() {
	sessions := flag.Int("sessions", 4, "number of interviews to run")
	workers := flag.Int("workers", 2, "interviews run at the same time")
	roleName := flag.String("role", "backend_engineer", "role to interview for")
	offline := flag.Bool("offline", false, "use canned model replies instead of the configured LLM")
	flag.Parse()

	cfg := config.Load()
	logger := setup.Logger(cfg)

	roles, err := catalog.Load(cfg.RolesPath)
	if err != nil {
		logger.Error("failed to load roles", "error", err)
		os.Exit(1)
	}

	var gateway llm.Gateway = setup.Gateway(cfg, logger)
	if *offline {
		g := llmtest.New()
		g.Respond = llmtest.ByPrompt(
			llmtest.Rule{Contains: "Decide whether the candidate's answer", Text: `{"complete": true, "reason": "simulated"}`},
			llmtest.Rule{Contains: "expert interview coach", Text: offlineFeedback},
		)
		gateway = g
	}

	interviews := service.NewInterviewService(roles, gateway, store.NewMemory(), service.Config{
		FeedbackDeadline: cfg.FeedbackDeadline,
	}, logger)
	defer interviews.Close()

	results := simulation.Run(context.Background(), interviews, simulation.Options{
		Sessions: *sessions,
		Workers:  *workers,
		Role:     *roleName,
		Mode:     "chat",
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", r.SessionID, r.Err)
			continue
		}
		fmt.Printf("OK   %s answers=%d followups=%d average=%.2f\n",
			r.SessionID, r.Answers, r.FollowUps, r.Report.Scores.Average())
	}
	if failed > 0 {
		os.Exit(1)
	}
}
