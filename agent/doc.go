// Package agent implements the article-generation workflow: a directed
// graph of six stages that turns a free-text prompt into a researched,
// written and illustrated article.
//
// The stages run strictly one after another per job:
//
//	analyze -> generate_searches -> research -+-> write_article -> select_image -> END
//	                 ^                        |
//	                 +------- rephrase <------+ (below threshold, retries left)
//
// A GenerationState value is threaded through the stages and discarded when
// the run ends; the durable outcomes are the job-status updates and the
// persisted article. Each stage converts its own failures into that
// contract, so the caller of Run sees either a success with an article ID
// or a failure whose message matches the job record.
package agent
