package views

import (
	"context"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/calendar"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/session"
	"lifemate/cmd/internal/utils/apierror"
	"strings"
	"time"
)

type AppointmentFeed interface {
	Subscribe(ctx context.Context, uid string, fn func([]*entity.Appointment)) (*docstore.Subscription, error)
}

type AppointmentActions interface {
	CreateAppointment(ctx context.Context, req *service.AppointmentRequest, uid string) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(ctx context.Context, id, uid string) apierror.ErrorResponse
}

type CalendarState struct {
	SignedIn bool           `json:"signed_in"`
	Week     *calendar.Week `json:"week"`
}

// CalendarView shows one week of the user's appointments. Today is fixed
// when the view is built; navigating only moves the week offset.
type CalendarView struct {
	base
	feed    AppointmentFeed
	actions AppointmentActions
	loc     *time.Location
	today   time.Time

	offset int
	appts  []*entity.Appointment
}

func NewCalendarView(sess *session.Session, feed AppointmentFeed, actions AppointmentActions, loc *time.Location, today time.Time, listener Listener) *CalendarView {
	v := &CalendarView{feed: feed, actions: actions, loc: loc, today: today.In(loc)}
	v.start(sess, listener, v.snapshotState, v.open)
	return v
}

func (v *CalendarView) open(gen uint64, uid string) []func() {
	v.update(gen, func() { v.appts = nil })
	if uid == "" {
		return nil
	}

	sub, err := v.feed.Subscribe(v.ctx, uid, func(appts []*entity.Appointment) {
		v.update(gen, func() { v.appts = appts })
	})
	if err != nil {
		log.Errorf("failed to subscribe to appointments of %s: %v", uid, err)
		return nil
	}
	return []func(){sub.Close}
}

func (v *CalendarView) snapshotState() any {
	return &CalendarState{
		SignedIn: v.signedIn(),
		Week:     calendar.Build(v.today, v.offset, v.appts, v.loc),
	}
}

func (v *CalendarView) Prev() {
	v.change(func() { v.offset-- })
}

func (v *CalendarView) Next() {
	v.change(func() { v.offset++ })
}

// Today goes back to the week that was current when the view was built.
func (v *CalendarView) Today() {
	v.change(func() { v.offset = 0 })
}

func (v *CalendarView) Week() *calendar.Week {
	return v.State().(*CalendarState).Week
}

// Add stores an appointment; the live subscription picks it up.
func (v *CalendarView) Add(ctx context.Context, date, text string) error {
	uid, _, err := v.current()
	if err != nil {
		return err
	}
	if strings.TrimSpace(date) == "" || strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	_, apierr := v.actions.CreateAppointment(ctx, &service.AppointmentRequest{Date: date, Text: text}, uid)
	if apierr != nil {
		return apierr
	}
	return nil
}

func (v *CalendarView) Delete(ctx context.Context, id string) error {
	uid, _, err := v.current()
	if err != nil {
		return err
	}
	if apierr := v.actions.DeleteAppointment(ctx, id, uid); apierr != nil {
		return apierr
	}
	return nil
}
