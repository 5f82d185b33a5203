package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `trinity is a coding assistant that works on Projects made of Files, through a Conversation.

Core concepts:
- Project: a named workspace holding files keyed by name. Omit project_id to use the default project.
- Conversation: ordered messages plus state (pending proposal, validation report, research sources).
- Proposal: a complete new file the assistant wants to write. It is only written when approved.
- Activity log: what each role (Conductor, ResearchLead, Coder, Validator) did, newest first.

Default workflow:
1) Orient: list_projects or get_project.
2) Ask: send_message with text. Requests mentioning research, search, find, documentation, info,
   "what is" or "who is" trigger a grounded web search first. Use mode=precision for harder work.
3) Review: if the result carries state.pending, read state.validation_report.
4) Decide: approve_proposal writes the file; discard_proposal drops it. A newer proposal replaces an older one.
5) Inspect: get_conversation, get_activity.

Only one request per project runs at a time; a concurrent call fails with BUSY.

Docs:
- trinity://docs/index
- trinity://docs/concepts
- trinity://docs/workflows/proposals
- trinity://docs/settings
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "trinity://docs/index",
		Name:        "docs_index",
		Title:       "trinity docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# trinity: Agent Docs Index

Keep your baseline context small and load deeper docs only when needed.

## Quick start

1. ` + "`get_project`" + ` to see the default project and its files.
2. ` + "`send_message`" + ` with your request.
3. If a proposal comes back, ` + "`approve_proposal`" + ` or ` + "`discard_proposal`" + `.

## Docs (read on demand)

- ` + "`trinity://docs/concepts`" + `: roles, conversation state, research.
- ` + "`trinity://docs/workflows/proposals`" + `: the proposal lifecycle.
- ` + "`trinity://docs/settings`" + `: model selection and modes.

## Limitations

- Projects and files cannot be deleted or renamed.
- An in-flight request cannot be cancelled.
`,
	},
	{
		URI:         "trinity://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts",
		Description: "Roles, conversation state and research behaviour.",
		Content: `# Concepts

## Roles

- **Conductor**: plans and answers; routes each request to a model.
- **ResearchLead**: runs a grounded web search when the request asks for it.
- **Coder**: writes complete file contents (precision mode uses the coder model).
- **Validator**: reviews every proposal before you decide on it.

## Conversation state

- ` + "`pending`" + `: the proposal awaiting a decision, if any.
- ` + "`validation_report`" + `: the Validator's review of the pending proposal.
- ` + "`sources`" + `: web references, newest first, accumulated across research steps.

## Failure behaviour

- Research failure degrades to a fixed notice and the request proceeds without findings.
- Review failure degrades to a fixed notice recommending manual review.
- A conversation model failure ends the request with GATEWAY_ERROR. Your message is kept.
`,
	},
	{
		URI:         "trinity://docs/workflows/proposals",
		Name:        "docs_workflow_proposals",
		Title:       "Workflow: proposals",
		Description: "How file proposals are produced, reviewed, approved and discarded.",
		Content: `# Workflow: proposals

1) ` + "`send_message`" + ` asks for a change. The assistant may embed one fenced json block:

    {"action":"propose_code","fileName":"utils.ts","content":"...","description":"..."}

2) A valid block becomes ` + "`state.pending`" + ` and is reviewed; the report is in ` + "`state.validation_report`" + `.
   Invalid blocks are ignored and the reply is shown as plain text.
3) ` + "`approve_proposal`" + ` writes the file (replacing one with the same name), records a system
   message and clears the pending state. Without a pending proposal it fails with NO_PENDING_PROPOSAL.
4) ` + "`discard_proposal`" + ` clears the pending state and changes nothing else.
`,
	},
	{
		URI:         "trinity://docs/settings",
		Name:        "docs_settings",
		Title:       "Settings and modes",
		Description: "Model identifiers per role and the fast/precision modes.",
		Content: `# Settings and modes

` + "`get_settings`" + ` returns one model identifier per role. ` + "`update_settings`" + ` changes only the fields
you pass; identifiers must be non-empty.

## Modes

- **fast** (default): the conductor model answers directly.
- **precision**: the coder model answers with an extended reasoning budget when the model supports one.

` + "`search_engine_id`" + ` is stored and returned but does not change search behaviour.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
