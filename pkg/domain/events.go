package domain

import (
	"context"
	"time"
)

// ReferenceEvent is emitted once per reference encountered during a pass.
type ReferenceEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Reference Reference     `json:"reference"`
	Outcome   Outcome       `json:"outcome"`
	Transform string        `json:"transform,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Hooks defines callbacks for inliner observability.
type Hooks struct {
	OnReferenceInlined func(context.Context, *ReferenceEvent)
	OnReferenceSkipped func(context.Context, *ReferenceEvent)
	OnDepthExceeded    func(context.Context, int)
}

// Emit dispatches the event to the matching hook.
func (h Hooks) Emit(ctx context.Context, e *ReferenceEvent) {
	if e.Outcome == OutcomeInlined {
		if h.OnReferenceInlined != nil {
			h.OnReferenceInlined(ctx, e)
		}
		return
	}
	if h.OnReferenceSkipped != nil {
		h.OnReferenceSkipped(ctx, e)
	}
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnReferenceInlined: chain(h.OnReferenceInlined, other.OnReferenceInlined),
		OnReferenceSkipped: chain(h.OnReferenceSkipped, other.OnReferenceSkipped),
		OnDepthExceeded: func(ctx context.Context, depth int) {
			if h.OnDepthExceeded != nil {
				h.OnDepthExceeded(ctx, depth)
			}
			if other.OnDepthExceeded != nil {
				other.OnDepthExceeded(ctx, depth)
			}
		},
	}
}

func chain(a, b func(context.Context, *ReferenceEvent)) func(context.Context, *ReferenceEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ReferenceEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
