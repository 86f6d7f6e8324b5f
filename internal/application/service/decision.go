package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"agentreg/internal/application/models"
	"agentreg/internal/notification"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

// DecisionResult reports the outcome of Decide. Repeated is true when the
// application already carried the same outcome and only an audit row was
// added.
type DecisionResult struct {
	Application *models.Application
	Decision    models.RegistryDecision
	Repeated    bool
}

// Decide records a registry judgment on an application in ready_for_registry.
//
// Accepting mints a member number inside the same unit of work as the status
// write, and only when none is stamped yet, so a retried accept never mints
// twice. Repeating the outcome an application already carries appends a
// decision row and changes nothing else; the opposite outcome is rejected.
func (s *Service) Decide(ctx context.Context, appID id.ApplicationID, outcome models.DecisionOutcome, reasons []string) (*DecisionResult, error) {
	if outcome != models.DecisionAccepted && outcome != models.DecisionRejected {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "decision must be accepted or rejected")
	}
	reasons = cleanReasons(reasons)
	if outcome == models.DecisionRejected && len(reasons) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "a rejection requires at least one reason")
	}

	ctx, span := s.tracer.Start(ctx, "application.decide")
	span.SetAttributes(
		attribute.String("application.id", appID.String()),
		attribute.String("decision.outcome", string(outcome)),
	)
	defer span.End()

	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)
	target := outcome.TargetStatus()

	var (
		decision models.RegistryDecision
		repeated bool
		minted   bool
		from     models.Status
	)
	app, err := s.apps.Execute(ctx, appID, func(ctx context.Context, app *models.Application) (models.Changes, error) {
		decision = models.RegistryDecision{
			ID:            uuid.New(),
			ApplicationID: app.ID,
			Outcome:       outcome,
			Reasons:       reasons,
			Actor:         actor,
			CreatedAt:     now,
		}
		repeated, minted = false, false

		if app.Status == target {
			repeated = true
			decision.MemberID = app.MemberID
			return models.Changes{Decision: &decision}, nil
		}
		if err := app.CanTransitionTo(target); err != nil {
			return models.Changes{}, err
		}

		if target == models.StatusAccepted && app.NeedsMemberNumber() {
			member, err := s.names.NextMemberNumber(ctx, app.Kind)
			if err != nil {
				return models.Changes{}, err
			}
			minted = app.ApplyMemberNumber(member)
		}
		from = app.ApplyTransition(target, now)
		decision.MemberID = app.MemberID

		comment := "registry decision: " + string(outcome)
		if len(reasons) > 0 {
			comment += " (" + strings.Join(reasons, "; ") + ")"
		}
		return models.Changes{
			History:  []models.StatusHistory{models.NewHistory(app, &from, target, actor, comment, now)},
			Decision: &decision,
		}, nil
	})
	if err != nil {
		err = wrapStoreErr(err, "record decision")
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}

	s.logAudit(ctx, "registry_decision",
		"application_id", app.ID.String(),
		"outcome", string(outcome),
		"member_id", app.MemberID.String(),
		"repeated", repeated,
		"actor", actor,
	)
	if repeated {
		return &DecisionResult{Application: app, Decision: decision, Repeated: true}, nil
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(from.String(), app.Status.String())
		if minted {
			s.metrics.IncrementMemberMinted(string(app.Kind))
		}
	}
	s.notify(ctx, decisionMessage(app, outcome, reasons))
	return &DecisionResult{Application: app, Decision: decision}, nil
}

func decisionMessage(app *models.Application, outcome models.DecisionOutcome, reasons []string) notification.Message {
	msg := notification.Message{
		Kind:          notification.KindDecision,
		To:            app.ApplicantEmail,
		ApplicationID: app.ID.String(),
		Data:          map[string]string{"outcome": string(outcome)},
	}
	if outcome == models.DecisionAccepted {
		msg.Subject = "Application " + app.ID.String() + " accepted"
		msg.Body = "Congratulations. Your membership number is " + app.MemberID.String() + "."
		msg.Data["member_id"] = app.MemberID.String()
		return msg
	}
	msg.Subject = "Application " + app.ID.String() + " rejected"
	msg.Body = "The registry rejected your application: " + strings.Join(reasons, "; ")
	return msg
}

func cleanReasons(reasons []string) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
