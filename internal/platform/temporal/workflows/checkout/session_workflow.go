package checkout

import (
	"go.temporal.io/sdk/workflow"

	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/platform/temporal/sequences"
)

const (
	// CheckoutSessionWorkflowName is the public identifier for registering the workflow.
	CheckoutSessionWorkflowName = "checkout.workflows.CreateSession"
	// CheckoutSessionTaskQueue is the queue consumed by the worker creating payment sessions.
	CheckoutSessionTaskQueue = "CHECKOUT_SESSIONS"
)

type CheckoutSessionWorkflowInput struct {
	Request checkoutdomain.SessionRequest
	TraceID string
}

// CheckoutSessionWorkflow records the session request durably and runs it once.
func CheckoutSessionWorkflow(ctx workflow.Context, input CheckoutSessionWorkflowInput) (checkoutdomain.SessionResult, error) {
	logger := workflow.GetLogger(ctx)
	attemptID := input.Request.AttemptID
	logger.Info("CheckoutSessionWorkflow started", withTraceID(input.TraceID, "attemptId", attemptID)...)
	result, err := sequences.RunCheckoutSessionSequence(ctx, input.Request)
	if err != nil {
		logger.Error("CheckoutSessionWorkflow failed", withTraceID(input.TraceID, "attemptId", attemptID, "error", err)...)
		return checkoutdomain.SessionResult{}, err
	}
	logger.Info("CheckoutSessionWorkflow completed", withTraceID(input.TraceID, "attemptId", attemptID)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
