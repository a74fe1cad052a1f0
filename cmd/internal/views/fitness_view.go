package views

import (
	"context"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/session"
	"lifemate/cmd/internal/utils/apierror"
	"strings"
)

type FitnessActions interface {
	GeneratePlan(ctx context.Context, req *service.FitnessGenerateRequest, uid string) (*service.FitnessReplyResponse, apierror.ErrorResponse)
	SavePlan(ctx context.Context, req *service.SavePlanRequest, uid string) (*service.FitnessPlanResponse, apierror.ErrorResponse)
	GetPlans(ctx context.Context, uid string) ([]*service.FitnessPlanResponse, apierror.ErrorResponse)
	DeletePlan(ctx context.Context, id, uid string) apierror.ErrorResponse
}

type FitnessState struct {
	SignedIn bool                           `json:"signed_in"`
	Goal     string                         `json:"goal"`
	Duration string                         `json:"duration"`
	Date     string                         `json:"date"`
	Plan     string                         `json:"plan"`
	Loading  bool                           `json:"loading"`
	Saved    bool                           `json:"saved"`
	Plans    []*service.FitnessPlanResponse `json:"plans"`
}

// FitnessView drafts training plans. A plan can be saved once it came from
// the generator or was loaded from the saved ones.
type FitnessView struct {
	base
	actions FitnessActions

	goal     string
	duration string
	date     string
	plan     string
	hasPlan  bool
	loading  bool
	saved    bool
	plans    []*service.FitnessPlanResponse
}

func NewFitnessView(sess *session.Session, actions FitnessActions, listener Listener) *FitnessView {
	v := &FitnessView{actions: actions}
	v.start(sess, listener, v.snapshotState, v.open)
	return v
}

func (v *FitnessView) open(gen uint64, uid string) []func() {
	v.update(gen, func() {
		v.goal, v.duration, v.date = "", "", ""
		v.plan, v.hasPlan = "", false
		v.loading, v.saved = false, false
		v.plans = nil
	})
	if uid == "" {
		return nil
	}
	v.reloadPlans(gen, uid)
	return nil
}

func (v *FitnessView) reloadPlans(gen uint64, uid string) {
	plans, apierr := v.actions.GetPlans(v.ctx, uid)
	if apierr != nil {
		log.Warnf("failed to load fitness plans of %s: %v", uid, apierr)
		return
	}
	v.update(gen, func() { v.plans = plans })
}

func (v *FitnessView) snapshotState() any {
	return &FitnessState{
		SignedIn: v.signedIn(),
		Goal:     v.goal,
		Duration: v.duration,
		Date:     v.date,
		Plan:     v.plan,
		Loading:  v.loading,
		Saved:    v.saved,
		Plans:    append([]*service.FitnessPlanResponse(nil), v.plans...),
	}
}

func (v *FitnessView) SetInput(goal, duration, date string) {
	v.change(func() {
		v.goal = goal
		v.duration = duration
		v.date = date
	})
}

func (v *FitnessView) Generate(ctx context.Context) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}

	var goal, duration string
	v.update(gen, func() {
		goal, duration = v.goal, v.duration
		v.loading = true
		v.plan, v.hasPlan = "", false
		v.saved = false
	})
	if strings.TrimSpace(goal) == "" {
		v.update(gen, func() { v.loading = false })
		return ErrEmptyInput
	}

	resp, apierr := v.actions.GeneratePlan(ctx, &service.FitnessGenerateRequest{Goal: goal, Duration: duration}, uid)
	v.update(gen, func() {
		v.loading = false
		if apierr != nil {
			v.plan = apierr.Error()
			return
		}
		v.plan, v.hasPlan = resp.Reply, true
	})
	if apierr != nil {
		return apierr
	}
	return nil
}

// Save stores the plan and books its training. The form is cleared
// afterwards.
func (v *FitnessView) Save(ctx context.Context) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}

	var req service.SavePlanRequest
	var ready bool
	v.read(func() {
		req = service.SavePlanRequest{Goal: v.goal, Plan: v.plan, Date: v.date}
		ready = v.hasPlan
	})
	if !ready || strings.TrimSpace(req.Goal) == "" || strings.TrimSpace(req.Date) == "" {
		return ErrEmptyInput
	}

	if _, apierr := v.actions.SavePlan(ctx, &req, uid); apierr != nil {
		return apierr
	}

	v.update(gen, func() {
		v.goal, v.duration, v.date = "", "", ""
		v.plan, v.hasPlan = "", false
		v.saved = true
	})
	v.reloadPlans(gen, uid)
	return nil
}

func (v *FitnessView) Delete(ctx context.Context, id string) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}
	if apierr := v.actions.DeletePlan(ctx, id, uid); apierr != nil {
		return apierr
	}

	v.update(gen, func() {
		kept := make([]*service.FitnessPlanResponse, 0, len(v.plans))
		for _, p := range v.plans {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		v.plans = kept
	})
	return nil
}

// Load puts a saved plan back into the form.
func (v *FitnessView) Load(id string) error {
	if _, _, err := v.current(); err != nil {
		return err
	}

	found := false
	v.change(func() {
		for _, p := range v.plans {
			if p.ID == id {
				v.goal, v.plan, v.date = p.Title, p.Content, p.Date
				v.hasPlan = true
				v.saved = false
				found = true
				return
			}
		}
	})
	if !found {
		return ErrNotFound
	}
	return nil
}
