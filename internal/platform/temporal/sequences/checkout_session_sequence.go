package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/checkout"
)

// SessionActivityTimeout bounds a single CreateSession attempt. Temporal
// requires a close timeout; the activity itself is never retried.
const SessionActivityTimeout = time.Minute

// RunCheckoutSessionSequence requests exactly one payment session for the attempt.
func RunCheckoutSessionSequence(ctx workflow.Context, req checkoutdomain.SessionRequest) (checkoutdomain.SessionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout session sequence started", "attemptId", req.AttemptID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: SessionActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var result checkoutdomain.SessionResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), checkoutactivities.CreateSessionActivityName, req).Get(ctx, &result)
	if err != nil {
		logger.Error("checkout session sequence failed", "attemptId", req.AttemptID, "error", err)
		return checkoutdomain.SessionResult{}, err
	}
	logger.Info("checkout session sequence completed", "attemptId", req.AttemptID, "paymentSessionId", result.SessionID)
	return result, nil
}
