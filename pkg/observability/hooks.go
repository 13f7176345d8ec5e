package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// LogHooks returns hooks that log every event at debug level, and failed collaborator calls at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "step", e.Step)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			if e.Step == domain.StepAgent {
				logger.DebugContext(ctx, "step_leave", "step", e.Step, "intent", e.Intent.String())
				return
			}
			logger.DebugContext(ctx, "step_leave", "step", e.Step)
		},
		OnCollaboratorCall: func(ctx context.Context, e *domain.CollaboratorEvent) {
			logger.DebugContext(ctx, "collaborator_call", "collaborator", e.Collaborator, "op", e.Operation)
		},
		OnCollaboratorReturn: func(ctx context.Context, e *domain.CollaboratorEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "collaborator_failed",
					"collaborator", e.Collaborator,
					"op", e.Operation,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "collaborator_return",
				"collaborator", e.Collaborator,
				"op", e.Operation,
				"duration", e.Duration,
			)
		},
	}
}

// Chain fans every event out to each of hooks, in order. Nil callbacks are skipped.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepEnter != nil {
					h.OnStepEnter(ctx, e)
				}
			}
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepLeave != nil {
					h.OnStepLeave(ctx, e)
				}
			}
		},
		OnCollaboratorCall: func(ctx context.Context, e *domain.CollaboratorEvent) {
			for _, h := range hooks {
				if h.OnCollaboratorCall != nil {
					h.OnCollaboratorCall(ctx, e)
				}
			}
		},
		OnCollaboratorReturn: func(ctx context.Context, e *domain.CollaboratorEvent) {
			for _, h := range hooks {
				if h.OnCollaboratorReturn != nil {
					h.OnCollaboratorReturn(ctx, e)
				}
			}
		},
	}
}
