package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"agentreg/internal/application/models"
	"agentreg/internal/notification"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

// Submit moves an applicant-editable application into review: draft goes to
// eligibility_review, needs_applicant_action back to document_review.
func (s *Service) Submit(ctx context.Context, appID id.ApplicationID, comment string) (*models.Application, error) {
	if comment == "" {
		comment = "submitted by applicant"
	}
	app, err := s.transition(ctx, appID, "submit", func(ctx context.Context, app *models.Application) (models.Status, error) {
		target, ok := app.Status.SubmissionTarget()
		if !ok {
			return "", dErrors.New(dErrors.CodeInvalidState,
				"application cannot be submitted from status "+app.Status.String())
		}
		if err := s.checkSubmission(ctx, app); err != nil {
			return "", err
		}
		return target, nil
	}, comment)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notification.Message{
		Kind:          notification.KindSubmitted,
		To:            app.ApplicantEmail,
		Subject:       "Application " + app.ID.String() + " submitted",
		Body:          "Your application has been received and is now under review.",
		ApplicationID: app.ID.String(),
	})
	return app, nil
}

// Transition performs a staff-initiated status change. Moves that count as a
// submission run the submission guard. Terminal registry outcomes must go
// through Decide.
func (s *Service) Transition(ctx context.Context, appID id.ApplicationID, target models.Status, comment string) (*models.Application, error) {
	if !target.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown target status")
	}
	if target == models.StatusAccepted || target == models.StatusRejected {
		return nil, dErrors.New(dErrors.CodeBadRequest, "registry outcomes are recorded through the decision endpoint")
	}
	app, err := s.transition(ctx, appID, "transition", func(ctx context.Context, app *models.Application) (models.Status, error) {
		if err := app.CanTransitionTo(target); err != nil {
			return "", err
		}
		if app.Status.IsSubmission(target) {
			if err := s.checkSubmission(ctx, app); err != nil {
				return "", err
			}
		}
		return target, nil
	}, comment)
	if err != nil {
		return nil, err
	}

	if target == models.StatusNeedsApplicantAction {
		s.notify(ctx, notification.Message{
			Kind:          notification.KindStatusChanged,
			To:            app.ApplicantEmail,
			Subject:       "Action required on application " + app.ID.String(),
			Body:          comment,
			ApplicationID: app.ID.String(),
		})
	}
	return app, nil
}

// Withdraw ends an application at the applicant's request.
func (s *Service) Withdraw(ctx context.Context, appID id.ApplicationID, reason string) (*models.Application, error) {
	if reason == "" {
		reason = "withdrawn by applicant"
	}
	return s.simpleTransition(ctx, appID, "withdraw", models.StatusWithdrawn, reason)
}

// Expire ends an inactive application. Triggered by staff or a scheduler.
func (s *Service) Expire(ctx context.Context, appID id.ApplicationID, reason string) (*models.Application, error) {
	if reason == "" {
		reason = "expired after inactivity"
	}
	return s.simpleTransition(ctx, appID, "expire", models.StatusExpired, reason)
}

func (s *Service) simpleTransition(ctx context.Context, appID id.ApplicationID, op string, target models.Status, comment string) (*models.Application, error) {
	return s.transition(ctx, appID, op, func(_ context.Context, app *models.Application) (models.Status, error) {
		if err := app.CanTransitionTo(target); err != nil {
			return "", err
		}
		return target, nil
	}, comment)
}

// transition runs decide under the application's lock and, if it returns a
// target, writes the new status with exactly one history row. A failed
// decide leaves status and history untouched.
func (s *Service) transition(
	ctx context.Context,
	appID id.ApplicationID,
	op string,
	decide func(ctx context.Context, app *models.Application) (models.Status, error),
	comment string,
) (*models.Application, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "application."+op)
	span.SetAttributes(attribute.String("application.id", appID.String()))
	defer span.End()

	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)
	var from models.Status
	app, err := s.apps.Execute(ctx, appID, func(ctx context.Context, app *models.Application) (models.Changes, error) {
		target, err := decide(ctx, app)
		if err != nil {
			return models.Changes{}, err
		}
		from = app.ApplyTransition(target, now)
		return models.Changes{History: []models.StatusHistory{
			models.NewHistory(app, &from, target, actor, comment, now),
		}}, nil
	})
	if err != nil {
		err = wrapStoreErr(err, op+" application")
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		s.recordGuardRejection(err)
		s.logAudit(ctx, "transition_rejected",
			"application_id", appID.String(),
			"operation", op,
			"actor", actor,
			"code", string(dErrors.CodeOf(err)),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("application.from", from.String()),
		attribute.String("application.to", app.Status.String()),
	)
	s.logAudit(ctx, "status_changed",
		"application_id", app.ID.String(),
		"from_status", from.String(),
		"to_status", app.Status.String(),
		"actor", actor,
	)
	if s.metrics != nil {
		s.metrics.IncrementTransition(from.String(), app.Status.String())
		s.metrics.ObserveTransition(start)
	}
	return app, nil
}

func (s *Service) recordGuardRejection(err error) {
	if s.metrics == nil {
		return
	}
	switch code := dErrors.CodeOf(err); code {
	case dErrors.CodeInvalidState, dErrors.CodePaymentRequired, dErrors.CodeMissingDocuments:
		s.metrics.IncrementGuardRejection(string(code))
	}
}
