/*
Package articleagent generates researched, illustrated news articles from a
single user prompt.

The work is organized as a directed graph of stages executed per job:

	analyze -> generate_searches -> research -+-> write_article -> select_image
	                  ^                       |
	                  +------- rephrase <-----+ (not enough sources)

Each stage records its progress on a job record so callers can poll status
while the workflow runs. Research that comes up short is retried with
regenerated queries up to a bounded number of attempts; any terminal failure
marks the job FAILED with the reason, and a finished job always carries
either an article ID or an error, never both.

Packages:

  - graph: the typed state graph engine the workflow runs on
  - agent: the stages, prompts, routing and configuration
  - llm: model clients (OpenRouter and any langchaingo model)
  - scraper: the research service client and page content fetcher
  - store: job and article persistence (memory, PostgreSQL, Redis)
  - log: the logging interface and implementations
  - cmd/agentctl: CLI for running and inspecting jobs

Minimal usage:

	mem := memory.New()
	job, _ := mem.CreateJob(ctx, userID, prompt)

	a, _ := agent.New(llmClient, scraperClient, mem, mem)
	result, err := a.Run(ctx, agent.Input{Prompt: prompt, UserID: userID, JobID: job.ID})
*/
package articleagent
