package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/gateway"
	"github.com/rpggio/trinity/internal/gateway/mocks"
	"github.com/rpggio/trinity/internal/proposal"
)

type entrySink struct {
	entries []activity.Entry
}

func (s *entrySink) Log(_ context.Context, e *activity.Entry) error {
	s.entries = append(s.entries, *e)
	return nil
}

func (s *entrySink) find(agent activity.Agent, severity activity.Severity) []activity.Entry {
	var out []activity.Entry
	for _, e := range s.entries {
		if e.Agent == agent && e.Severity == severity {
			out = append(out, e)
		}
	}
	return out
}

const utilsReply = "Here is the helper.\n```json\n" +
	`{"action":"propose_code","fileName":"utils.ts","content":"export const add = (a: number, b: number) => a + b;\n","description":"Add numeric helper"}` +
	"\n```\nLet me know."

func testTurn(text string, sink activity.Sink) Turn {
	return Turn{
		Text:    text,
		Mode:    settings.ModeFast,
		Project: project.Project{ID: "p1", Name: "Demo", Files: []project.File{project.NewFile("main.go", "package main")}},
		Config:  settings.Defaults(),
		Log:     sink,
	}
}

func TestHandleUserMessage_EmptyIsNoop(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)
	sink := &entrySink{}

	out, err := o.HandleUserMessage(context.Background(), testTurn("   \n", sink))
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Empty(t, out.Messages)
	require.Empty(t, sink.entries)
	gw.AssertNotCalled(t, "Converse", mock.Anything, mock.Anything)
}

func TestHandleUserMessage_Research(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)

	query := "What is the capital of France?"
	newSources := []chat.Source{{Title: "Paris", URI: "https://en.wikipedia.org/wiki/Paris"}}

	gw.On("GroundedSearch", mock.Anything, mock.MatchedBy(func(r gateway.SearchRequest) bool {
		return r.Query == query
	})).Return(gateway.SearchResult{Text: "Paris.", Sources: newSources}).Once()
	gw.On("Converse", mock.Anything, mock.MatchedBy(func(r gateway.ConverseRequest) bool {
		return strings.HasPrefix(r.Prompt, "Research Findings:\nParis.") &&
			strings.HasSuffix(r.Prompt, "Original Request: "+query) &&
			r.ContextSummary == "main.go"
	})).Return("The capital of France is Paris.", nil).Once()

	turn := testTurn(query, nil)
	turn.State = chat.State{Sources: []chat.Source{{Title: "Old", URI: "https://old.example"}}}

	out, err := o.HandleUserMessage(context.Background(), turn)
	require.NoError(t, err)
	require.True(t, out.Researched)
	require.Equal(t, proposal.KindNone, out.Proposal.Kind)

	require.Len(t, out.Messages, 2)
	require.Equal(t, chat.RoleUser, out.Messages[0].Role)
	require.Equal(t, query, out.Messages[0].Content)
	require.Equal(t, chat.RoleAssistant, out.Messages[1].Role)
	require.Nil(t, out.Messages[1].PendingChange)
	require.NotEqual(t, out.Messages[0].ID, out.Messages[1].ID)

	require.Equal(t, []chat.Source{newSources[0], {Title: "Old", URI: "https://old.example"}}, out.State.Sources)
	require.Len(t, turn.State.Sources, 1, "input snapshot must not be mutated")

	gw.AssertExpectations(t)
	gw.AssertNotCalled(t, "ReviewArtifact", mock.Anything, mock.Anything)
}

func TestHandleUserMessage_NoResearch(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)

	gw.On("Converse", mock.Anything, mock.MatchedBy(func(r gateway.ConverseRequest) bool {
		return r.Prompt == "Write a greeting" && r.Mode == settings.ModePrecision
	})).Return("Hello!", nil).Once()

	turn := testTurn("Write a greeting", nil)
	turn.Mode = settings.ModePrecision

	out, err := o.HandleUserMessage(context.Background(), turn)
	require.NoError(t, err)
	require.False(t, out.Researched)
	require.Len(t, out.Messages, 2)
	gw.AssertNotCalled(t, "GroundedSearch", mock.Anything, mock.Anything)
	gw.AssertExpectations(t)
}

func TestHandleUserMessage_ConverseError(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)

	prior := &proposal.Proposal{FileName: "old.ts", Content: "x"}
	gwErr := &gateway.GatewayError{Op: gateway.OpConverse, Model: "m", StatusCode: 500, Err: errors.New("boom")}
	gw.On("Converse", mock.Anything, mock.Anything).Return("", gwErr).Once()

	turn := testTurn("Refactor utils.ts", nil)
	turn.State = chat.State{Pending: prior, ValidationReport: "ok"}

	out, err := o.HandleUserMessage(context.Background(), turn)
	require.Error(t, err)
	require.ErrorIs(t, err, gateway.ErrGateway)

	require.Len(t, out.Messages, 1)
	require.Equal(t, chat.RoleUser, out.Messages[0].Role)
	require.Equal(t, prior, out.State.Pending)
	require.Equal(t, "ok", out.State.ValidationReport)
}

func TestHandleUserMessage_ValidProposal(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)
	sink := &entrySink{}

	gw.On("Converse", mock.Anything, mock.Anything).Return(utilsReply, nil).Once()
	gw.On("ReviewArtifact", mock.Anything, mock.MatchedBy(func(r gateway.ReviewRequest) bool {
		return strings.Contains(r.Content, "export const add") && r.Requirements == "Add numeric helper"
	})).Return("Looks correct.").Once()

	turn := testTurn("Create utils.ts", sink)
	turn.State = chat.State{Pending: &proposal.Proposal{FileName: "stale.ts"}}

	out, err := o.HandleUserMessage(context.Background(), turn)
	require.NoError(t, err)
	require.Equal(t, proposal.KindValid, out.Proposal.Kind)

	require.NotNil(t, out.State.Pending)
	require.Equal(t, "utils.ts", out.State.Pending.FileName)
	require.Equal(t, "Looks correct.", out.State.ValidationReport)

	assistant := out.Messages[1]
	require.Equal(t, utilsReply, assistant.Content)
	require.NotNil(t, assistant.PendingChange)
	require.Equal(t, "utils.ts", assistant.PendingChange.FileName)

	validations := sink.find(activity.AgentValidator, activity.SeveritySuccess)
	require.Len(t, validations, 1)
	require.Equal(t, "Validation complete for utils.ts.", validations[0].Message)
	gw.AssertExpectations(t)
}

func TestHandleUserMessage_MalformedProposal(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)
	sink := &entrySink{}

	reply := "```json\n{\"action\":\"propose_code\",\"fileName\":\"a.ts\",\n```"
	gw.On("Converse", mock.Anything, mock.Anything).Return(reply, nil).Once()

	out, err := o.HandleUserMessage(context.Background(), testTurn("Create a.ts", sink))
	require.NoError(t, err)
	require.Equal(t, proposal.KindMalformed, out.Proposal.Kind)
	require.Nil(t, out.State.Pending)
	require.Nil(t, out.Messages[1].PendingChange)
	require.Empty(t, sink.entries)
	gw.AssertNotCalled(t, "ReviewArtifact", mock.Anything, mock.Anything)
}

func TestHandleUserMessage_EmptyReplyPlaceholder(t *testing.T) {
	gw := &mocks.Gateway{}
	o := New(gw, nil, nil)

	gw.On("Converse", mock.Anything, mock.Anything).Return("", nil).Once()

	out, err := o.HandleUserMessage(context.Background(), testTurn("hello", nil))
	require.NoError(t, err)
	require.Equal(t, EmptyResponse, out.Messages[1].Content)
}

func TestApproveProposal(t *testing.T) {
	o := New(&mocks.Gateway{}, nil, nil)
	sink := &entrySink{}

	p := &proposal.Proposal{FileName: "main.go", Content: "package main\n\nfunc main() {}\n", Description: "entry"}
	in := Approval{
		Project: project.Project{ID: "p1", Files: []project.File{project.NewFile("main.go", "package main")}},
		State:   chat.State{Pending: p, ValidationReport: "fine", Sources: []chat.Source{{Title: "a", URI: "b"}}},
		Log:     sink,
	}

	out, err := o.ApproveProposal(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "go", out.File.Language)
	require.Len(t, out.Project.Files, 1)
	require.Equal(t, p.Content, out.Project.Files[0].Content)
	require.Equal(t, "package main", in.Project.Files[0].Content, "input snapshot must not be mutated")

	require.Equal(t, chat.RoleSystem, out.Message.Role)
	require.Equal(t, "Integrated changes into main.go.", out.Message.Content)
	require.Nil(t, out.State.Pending)
	require.Empty(t, out.State.ValidationReport)
	require.Len(t, out.State.Sources, 1)

	require.Len(t, sink.find(activity.AgentCoder, activity.SeveritySuccess), 1)
}

func TestApproveProposal_NoPending(t *testing.T) {
	o := New(&mocks.Gateway{}, nil, nil)
	_, err := o.ApproveProposal(context.Background(), Approval{})
	require.ErrorIs(t, err, ErrNoPendingProposal)
}

func TestDiscardProposal(t *testing.T) {
	in := chat.State{Pending: &proposal.Proposal{FileName: "x"}, ValidationReport: "r"}
	out := DiscardProposal(in)
	require.Nil(t, out.Pending)
	require.Empty(t, out.ValidationReport)
	require.NotNil(t, in.Pending)
}
