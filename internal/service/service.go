package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/notify"
)

// dispatchTimeout ограничивает отправку push-уведомлений после коммита
const dispatchTimeout = 10 * time.Second

var tracer = otel.Tracer("github.com/Freeeeeet/tutoring_scheduler/internal/service")

// storeError оборачивает ошибку хранилища, если это ещё не apperr
func storeError(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Store(op, err)
}

// endSpan записывает ошибку в span и закрывает его
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.KindOf(err).String())
	}
	span.End()
}

// dispatch отправляет уже сохранённые уведомления. Запрос мог быть отменён
// сразу после коммита, поэтому контекст отвязан от отмены.
func dispatch(ctx context.Context, d notify.Dispatcher, details *model.AppointmentDetails, notes []*model.Notification) {
	if d == nil || details == nil {
		return
	}
	deliveries := notify.Deliveries(details, notes)
	if len(deliveries) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()
	d.Dispatch(ctx, deliveries)
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return apperr.Validation("%s is required", name)
	}
	return nil
}
