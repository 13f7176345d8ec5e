package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/ticketchat/internal/runtime"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTickets records every call and returns canned answers.
type stubTickets struct {
	statuses    []string
	statusErr   error
	listErr     error
	summaryErr  error
	listCalls   []string
	summaryKeys []string
}

func (s *stubTickets) ListStatuses(ctx context.Context) ([]string, error) {
	return s.statuses, s.statusErr
}

func (s *stubTickets) ListTickets(ctx context.Context, status string) (string, error) {
	s.listCalls = append(s.listCalls, status)
	if s.listErr != nil {
		return "", s.listErr
	}
	if status == "" {
		return "1. [PROJ-1] All the things (Status: Open)", nil
	}
	return "1. [PROJ-2] Filtered (Status: " + status + ")", nil
}

func (s *stubTickets) SummarizeTicket(ctx context.Context, key string) (string, error) {
	s.summaryKeys = append(s.summaryKeys, key)
	if s.summaryErr != nil {
		return "", s.summaryErr
	}
	return "Summary of " + key, nil
}

// stubModel echoes the number of messages it received.
type stubModel struct {
	calls [][]domain.Message
	err   error
}

func (m *stubModel) Generate(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
	m.calls = append(m.calls, msgs)
	if m.err != nil {
		return domain.Message{}, m.err
	}
	return domain.AssistantMessage("model says hi"), nil
}

func newController() (*runtime.Controller, *stubTickets, *stubModel) {
	tickets := &stubTickets{statuses: []string{"Open", "Closed", "In Progress"}}
	model := &stubModel{}
	return runtime.NewController(tickets, model), tickets, model
}

func TestTurn_ListAll(t *testing.T) {
	ctrl, tickets, model := newController()

	state, err := ctrl.Turn(context.Background(), nil, "Show me my tickets")
	require.NoError(t, err)

	require.Len(t, state.History, 3)
	assert.Equal(t, domain.HumanMessage("Show me my tickets"), state.History[0])
	assert.Equal(t, domain.AssistantMessage("Fetching your tickets..."), state.History[1])
	assert.Equal(t, domain.AssistantMessage("1. [PROJ-1] All the things (Status: Open)"), state.History[2])

	assert.Equal(t, []string{""}, tickets.listCalls)
	assert.Empty(t, model.calls)
	assert.False(t, state.HasScratch())
	assert.Equal(t, []domain.Step{domain.StepAgent, domain.StepTools, domain.StepDone}, state.Path)
}

func TestTurn_ListByStatus(t *testing.T) {
	ctrl, tickets, _ := newController()

	state, err := ctrl.Turn(context.Background(), nil, "show me closed")
	require.NoError(t, err)

	assert.Equal(t, []string{"closed"}, tickets.listCalls)
	require.Len(t, state.History, 3)
	assert.Equal(t, "Fetching your 'closed' tickets...", state.History[1].Content)
	assert.Equal(t, domain.RoleAssistant, state.History[2].Role)
	assert.Empty(t, state.StatusFilter)
}

func TestTurn_Summarize(t *testing.T) {
	ctrl, tickets, _ := newController()

	state, err := ctrl.Turn(context.Background(), nil, "summarize ticket PROJ-42")
	require.NoError(t, err)

	assert.Equal(t, []string{"PROJ-42"}, tickets.summaryKeys)
	require.Len(t, state.History, 3)
	assert.Equal(t, domain.AssistantMessage("Summarizing ticket PROJ-42..."), state.History[1])
	assert.Equal(t, domain.AssistantMessage("Summary of PROJ-42"), state.History[2])
	assert.Empty(t, state.TicketToSummarize)
	assert.Equal(t, []domain.Step{domain.StepAgent, domain.StepSummarizer, domain.StepDone}, state.Path)
}

func TestTurn_Chat(t *testing.T) {
	ctrl, tickets, model := newController()

	state, err := ctrl.Turn(context.Background(), nil, "hello there")
	require.NoError(t, err)

	require.Len(t, model.calls, 1)
	assert.Equal(t, []domain.Message{domain.HumanMessage("hello there")}, model.calls[0])
	require.Len(t, state.History, 2)
	assert.Equal(t, domain.AssistantMessage("model says hi"), state.History[1])
	assert.Empty(t, tickets.listCalls)
	assert.Empty(t, tickets.summaryKeys)
}

func TestTurn_ChatSendsOnlyHumanMessages(t *testing.T) {
	ctrl, _, model := newController()

	prior := &domain.DialogueState{History: []domain.Message{
		domain.HumanMessage("first"),
		domain.AssistantMessage("answer"),
		domain.HumanMessage("  "),
	}}

	_, err := ctrl.Turn(context.Background(), prior, "second")
	require.NoError(t, err)

	require.Len(t, model.calls, 1)
	assert.Equal(t, []domain.Message{domain.HumanMessage("first"), domain.HumanMessage("second")}, model.calls[0])
}

func TestTurn_Noop(t *testing.T) {
	ctrl, tickets, model := newController()

	state, err := ctrl.Turn(context.Background(), nil, "   ")
	require.NoError(t, err)

	assert.Len(t, state.History, 1)
	assert.Empty(t, model.calls)
	assert.Empty(t, tickets.listCalls)
	assert.Equal(t, []domain.Step{domain.StepAgent, domain.StepDone}, state.Path)
}

func TestTurn_DoesNotMutatePrior(t *testing.T) {
	ctrl, _, _ := newController()

	history := make([]domain.Message, 1, 16)
	history[0] = domain.HumanMessage("earlier")
	prior := &domain.DialogueState{History: history}

	state, err := ctrl.Turn(context.Background(), prior, "show me my tickets")
	require.NoError(t, err)

	assert.Len(t, prior.History, 1)
	assert.Len(t, state.History, 4)
	assert.Equal(t, "earlier", state.History[0].Content)
}

func TestTurn_ClearsStaleScratchFromCaller(t *testing.T) {
	ctrl, tickets, _ := newController()

	prior := &domain.DialogueState{TicketToSummarize: "OLD-1"}
	state, err := ctrl.Turn(context.Background(), prior, "hello")
	require.NoError(t, err)

	assert.False(t, state.HasScratch())
	assert.Empty(t, tickets.summaryKeys)
}

func TestTurn_Idempotent(t *testing.T) {
	prior := &domain.DialogueState{History: []domain.Message{domain.HumanMessage("hi")}}

	for _, msg := range []string{"show me my tickets", "show me open", "summarize ticket A-1", "hey", ""} {
		ctrl, _, _ := newController()
		first, err := ctrl.Turn(context.Background(), prior, msg)
		require.NoError(t, err)
		second, err := ctrl.Turn(context.Background(), prior, msg)
		require.NoError(t, err)
		assert.Equal(t, first, second, msg)
	}
}

func TestTurn_CarriesHistoryAcrossTurns(t *testing.T) {
	ctrl, _, _ := newController()
	ctx := context.Background()

	state, err := ctrl.Turn(ctx, nil, "show me my tickets")
	require.NoError(t, err)
	state, err = ctrl.Turn(ctx, state, "summarize ticket PROJ-1")
	require.NoError(t, err)

	require.Len(t, state.History, 6)
	assert.Equal(t, "show me my tickets", state.History[0].Content)
	assert.Equal(t, "Summary of PROJ-1", state.History[5].Content)
}

func TestTurn_CollaboratorErrorsPropagate(t *testing.T) {
	upstream := errors.New("upstream down")

	tests := []struct {
		name  string
		msg   string
		setup func(*stubTickets, *stubModel)
		step  domain.Step
	}{
		{"statuses", "hello", func(s *stubTickets, m *stubModel) { s.statusErr = upstream }, domain.StepAgent},
		{"list", "show me my tickets", func(s *stubTickets, m *stubModel) { s.listErr = upstream }, domain.StepTools},
		{"summarize", "summarize ticket X-1", func(s *stubTickets, m *stubModel) { s.summaryErr = upstream }, domain.StepSummarizer},
		{"model", "hello", func(s *stubTickets, m *stubModel) { m.err = upstream }, domain.StepAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, tickets, model := newController()
			tt.setup(tickets, model)

			prior := domain.NewDialogueState()
			state, err := ctrl.Turn(context.Background(), prior, tt.msg)

			require.Error(t, err)
			assert.Nil(t, state)
			assert.ErrorIs(t, err, upstream)

			var stepErr *runtime.StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.step, stepErr.Step)
			assert.Empty(t, prior.History, "prior state must be untouched")
		})
	}
}

func TestTurn_MissingCollaborators(t *testing.T) {
	_, err := runtime.NewController(nil, nil).Turn(context.Background(), nil, "hi")
	assert.ErrorIs(t, err, domain.ErrNoCollaborator)

	tickets := &stubTickets{}
	_, err = runtime.NewController(tickets, nil).Turn(context.Background(), nil, "hi")
	assert.ErrorIs(t, err, domain.ErrNoCollaborator)

	// A noop never needs the model.
	_, err = runtime.NewController(tickets, nil).Turn(context.Background(), nil, "")
	assert.NoError(t, err)
}

func TestClassify(t *testing.T) {
	ctrl, _, _ := newController()

	in, err := ctrl.Classify(context.Background(), "anything In Progress?")
	require.NoError(t, err)
	assert.Equal(t, domain.ListByStatus("in progress"), in)
}

func TestTurn_LifecycleHooks(t *testing.T) {
	var entered, left []domain.Step
	var calls []string
	var intents []domain.IntentKind

	hooks := domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) { entered = append(entered, e.Step) },
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			left = append(left, e.Step)
			if e.Step == domain.StepAgent {
				intents = append(intents, e.Intent.Kind)
			}
		},
		OnCollaboratorReturn: func(ctx context.Context, e *domain.CollaboratorEvent) {
			calls = append(calls, e.Collaborator+"."+e.Operation)
		},
	}

	tickets := &stubTickets{statuses: []string{"Open"}}
	ctrl := runtime.NewController(tickets, &stubModel{}, runtime.WithLifecycleHooks(hooks))

	_, err := ctrl.Turn(context.Background(), nil, "show me open")
	require.NoError(t, err)

	assert.Equal(t, []domain.Step{domain.StepAgent, domain.StepTools}, entered)
	assert.Equal(t, []domain.Step{domain.StepAgent, domain.StepTools}, left)
	assert.Equal(t, []string{"tickets.list_statuses", "tickets.list_tickets"}, calls)
	assert.Equal(t, []domain.IntentKind{domain.IntentListByStatus}, intents)
}

func TestGraph(t *testing.T) {
	edges := runtime.Graph()
	assert.Len(t, edges, 5)
	for _, e := range edges {
		assert.NotEqual(t, domain.StepDone, e.From, "done is terminal")
	}
}
