package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// CreateSessionActivityName requests a hosted checkout session from the payment collaborator.
const CreateSessionActivityName = "checkout.activities.CreateSession"

// Activities groups activities that talk to the payment collaborator.
type Activities struct {
	sessions checkoutports.PaymentSessions
}

func NewActivities(sessions checkoutports.PaymentSessions) *Activities {
	return &Activities{sessions: sessions}
}

// CreateSession forwards the request once. A rejected session is a successful
// activity result; only transport failures fail the activity.
func (a *Activities) CreateSession(ctx context.Context, req checkoutdomain.SessionRequest) (checkoutdomain.SessionResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.sessions == nil {
		logger.Error("checkout session activity not initialized", "attemptId", req.AttemptID)
		return checkoutdomain.SessionResult{}, errors.New("checkout session activity not initialized")
	}
	logger.Info("CreateSession activity started", "attemptId", req.AttemptID, "items", len(req.Items))
	result, err := a.sessions.CreateSession(ctx, req)
	if err != nil {
		logger.Error("CreateSession activity failed", "attemptId", req.AttemptID, "error", err)
		return checkoutdomain.SessionResult{}, err
	}
	if reason, failed := result.Failure(); failed {
		logger.Warn("CreateSession activity got a rejected session", "attemptId", req.AttemptID, "status", reason.StatusCode, "reason", reason.Message)
		return result, nil
	}
	logger.Info("CreateSession activity completed", "attemptId", req.AttemptID, "paymentSessionId", result.SessionID)
	return result, nil
}
