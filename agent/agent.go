package agent

import (
	"context"
	"fmt"

	"github.com/chronicle-ai/article-agent/graph"
	"github.com/chronicle-ai/article-agent/llm"
	"github.com/chronicle-ai/article-agent/log"
	"github.com/chronicle-ai/article-agent/scraper"
	"github.com/chronicle-ai/article-agent/store"
)

// Node names in the workflow graph.
const (
	nodeAnalyze          = "analyze"
	nodeGenerateSearches = "generate_searches"
	nodeResearch         = "research"
	nodeRephrase         = "rephrase"
	nodeWriteArticle     = "write_article"
	nodeSelectImage      = "select_image"
)

// Agent runs the article-generation workflow. It holds no per-job state, so
// one Agent may serve concurrent jobs; all mutable state is job-local.
type Agent struct {
	llm      llm.Client
	source   scraper.Source
	articles store.ArticleStore
	jobs     store.JobStore
	config   Config
	logger   log.Logger

	compiled *graph.Runnable[GenerationState]
}

// Option configures an Agent.
type Option func(*Agent)

// WithConfig overrides the default workflow knobs.
func WithConfig(config Config) Option {
	return func(a *Agent) {
		a.config = config
	}
}

// WithLogger sets the logger the agent reports through.
func WithLogger(logger log.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New creates an Agent over the given model, research source and stores.
func New(llmClient llm.Client, source scraper.Source, articles store.ArticleStore, jobs store.JobStore, opts ...Option) (*Agent, error) {
	a := &Agent{
		llm:      llmClient,
		source:   source,
		articles: articles,
		jobs:     jobs,
		config:   DefaultConfig(),
		logger:   log.NewDefaultLogger(log.LevelInfo),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.config = a.config.withDefaults()

	compiled, err := a.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow graph: %w", err)
	}
	a.compiled = compiled

	return a, nil
}

// buildGraph wires the six stages and the post-research router.
func (a *Agent) buildGraph() (*graph.Runnable[GenerationState], error) {
	workflow := graph.NewStateGraph[GenerationState]()

	workflow.AddNode(nodeAnalyze, "Extract structured intent from the user prompt", a.analyzeNode)
	workflow.AddNode(nodeGenerateSearches, "Generate diverse search queries", a.generateSearchesNode)
	workflow.AddNode(nodeResearch, "Gather and de-duplicate source documents", a.researchNode)
	workflow.AddNode(nodeRephrase, "Reset the retry flag and loop back", a.rephraseNode)
	workflow.AddNode(nodeWriteArticle, "Write and persist the article", a.writeArticleNode)
	workflow.AddNode(nodeSelectImage, "Select cover and gallery images", a.selectImageNode)

	workflow.SetEntryPoint(nodeAnalyze)
	workflow.AddConditionalEdge(nodeAnalyze, a.continueOr(nodeGenerateSearches))
	workflow.AddConditionalEdge(nodeGenerateSearches, a.continueOr(nodeResearch))
	workflow.AddConditionalEdge(nodeResearch, a.routeAfterResearch)
	workflow.AddEdge(nodeRephrase, nodeGenerateSearches)
	workflow.AddConditionalEdge(nodeWriteArticle, a.continueOr(nodeSelectImage))
	workflow.AddEdge(nodeSelectImage, graph.END)

	return workflow.Compile()
}

// Input identifies one generation request.
type Input struct {
	Prompt string
	UserID string
	JobID  string
}

// Result is the caller-visible outcome of one run.
type Result struct {
	Success   bool
	ArticleID string
	Error     string
}

// Run executes the workflow for one job. Every stage converts its own
// failures into the state/job-status contract, so Run returns a non-nil
// error only for infrastructure faults (a broken graph or a cancelled
// context), never for stage-level failures.
//
// Callers must not invoke Run twice concurrently for the same JobID.
func (a *Agent) Run(ctx context.Context, input Input) (Result, error) {
	a.logger.Info("job %s: starting article generation for user %s", input.JobID, input.UserID)

	initial := GenerationState{
		Prompt: input.Prompt,
		UserID: input.UserID,
		JobID:  input.JobID,
	}

	final, err := a.compiled.Invoke(ctx, initial)
	if err != nil {
		a.logger.Error("job %s: workflow aborted: %v", input.JobID, err)
		return Result{Success: false, Error: err.Error()}, err
	}

	if final.Error != "" {
		a.logger.Info("job %s: finished with failure: %s", input.JobID, final.Error)
		return Result{Success: false, Error: final.Error}, nil
	}

	if !final.Completed {
		// The router fell through without a terminal decision. Should not
		// happen; fail the job rather than report an inconclusive success.
		msg := "workflow ended without completing"
		a.logger.Error("job %s: %s", input.JobID, msg)
		a.updateJob(ctx, store.JobUpdate{
			JobID:        input.JobID,
			Status:       statusPtr(store.StatusFailed),
			ErrorMessage: &msg,
		})
		return Result{Success: false, Error: msg}, nil
	}

	a.logger.Info("job %s: completed, article %s", input.JobID, final.ArticleID)
	return Result{Success: true, ArticleID: final.ArticleID}, nil
}

// continueOr routes to next unless the state is already terminal.
func (a *Agent) continueOr(next string) func(ctx context.Context, state GenerationState) string {
	return func(ctx context.Context, state GenerationState) string {
		if state.Error != "" || state.Completed {
			return graph.END
		}
		return next
	}
}

// routeAfterResearch decides the post-research branch. Pure decision over
// the state, no side effects.
func (a *Agent) routeAfterResearch(ctx context.Context, state GenerationState) string {
	if state.Error != "" {
		return graph.END
	}
	if state.ResearchSucceeded {
		return nodeWriteArticle
	}
	if state.ShouldRetryResearch {
		return nodeRephrase
	}
	return graph.END
}

// rephraseNode clears the retry flag before looping back to query
// generation. The actual rephrasing happens in generate_searches based on
// the attempt count.
func (a *Agent) rephraseNode(ctx context.Context, state GenerationState) (GenerationState, error) {
	a.logger.Debug("job %s: rephrasing, attempt %d used", state.JobID, state.SearchAttempts)
	state.ShouldRetryResearch = false
	return state, nil
}

// fail records a terminal failure in the state and the job record.
func (a *Agent) fail(ctx context.Context, state GenerationState, msg string) GenerationState {
	a.logger.Error("job %s: %s", state.JobID, msg)

	a.updateJob(ctx, store.JobUpdate{
		JobID:        state.JobID,
		Status:       statusPtr(store.StatusFailed),
		ErrorMessage: &msg,
	})

	state.Error = msg
	state.Completed = true
	return state
}

// updateJob writes a job-status update. A failed status write is logged but
// never aborts the workflow.
func (a *Agent) updateJob(ctx context.Context, update store.JobUpdate) {
	if err := a.jobs.UpdateJob(ctx, update); err != nil {
		a.logger.Warn("job %s: status update failed: %v", update.JobID, err)
	}
}

func statusPtr(s store.JobStatus) *store.JobStatus { return &s }
func strPtr(s string) *string                      { return &s }
func intPtr(i int) *int                            { return &i }
