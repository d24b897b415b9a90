package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/checkout"
)

var _ ports.PaymentSessions = (*TemporalSessions)(nil)

// TemporalSessions creates payment sessions through a Temporal workflow so
// every request is recorded by the cluster. The workflow ID is derived from
// the attempt ID, so a repeated start joins the existing run instead of
// requesting a second session.
type TemporalSessions struct {
	client    client.Client
	taskQueue string
}

func NewTemporalSessions(c client.Client) *TemporalSessions {
	return &TemporalSessions{client: c, taskQueue: checkoutworkflows.CheckoutSessionTaskQueue}
}

func (s *TemporalSessions) CreateSession(ctx context.Context, req domain.SessionRequest) (domain.SessionResult, error) {
	if s == nil || s.client == nil {
		return domain.SessionResult{}, errors.New("temporal checkout sessions not configured")
	}
	workflowID := sessionWorkflowID(req.AttemptID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.CheckoutSessionWorkflowName,
		checkoutworkflows.CheckoutSessionWorkflowInput{Request: req, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return domain.SessionResult{}, err
		}
		run = s.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result domain.SessionResult
	if err := run.Get(ctx, &result); err != nil {
		return domain.SessionResult{}, err
	}
	return result, nil
}

func sessionWorkflowID(attemptID string) string {
	return fmt.Sprintf("checkout-session-%s", attemptID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
