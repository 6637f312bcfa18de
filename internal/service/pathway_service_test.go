package service

import (
	"errors"
	"testing"

	"drouple_backend/internal/model"
	"drouple_backend/internal/util"

	"gorm.io/gorm"
)

type fakePathwayStore struct {
	pathways    []*model.Pathway
	steps       []*model.PathwayStep
	enrollments []*model.PathwayEnrollment
	progress    []*model.PathwayProgress
	nextID      uint

	// When set, the next CreateProgress behaves as if a concurrent writer
	// committed the same row first: it stores the row and reports a
	// duplicate-key violation.
	raceNextCreateProgress bool
}

func newFakePathwayStore() *fakePathwayStore {
	return &fakePathwayStore{nextID: 1}
}

func (f *fakePathwayStore) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakePathwayStore) FindByID(id uint) (*model.Pathway, error) {
	for _, p := range f.pathways {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindActiveByIDInChurch(id, churchID uint) (*model.Pathway, error) {
	for _, p := range f.pathways {
		if p.ID == id && p.ChurchID == churchID && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindDefaultByType(churchID uint, ptype model.PathwayType) (*model.Pathway, error) {
	for _, p := range f.pathways {
		if p.ChurchID == churchID && p.Type == ptype && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) Create(pathway *model.Pathway) error {
	pathway.ID = f.id()
	f.pathways = append(f.pathways, pathway)
	return nil
}

func (f *fakePathwayStore) FindStepByID(id uint) (*model.PathwayStep, error) {
	for _, s := range f.steps {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindSteps(pathwayID uint) ([]model.PathwayStep, error) {
	var out []model.PathwayStep
	for _, s := range f.steps {
		if s.PathwayID == pathwayID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakePathwayStore) CountSteps(pathwayID uint) (int64, error) {
	var n int64
	for _, s := range f.steps {
		if s.PathwayID == pathwayID {
			n++
		}
	}
	return n, nil
}

func (f *fakePathwayStore) FindEnrollment(pathwayID, userID uint) (*model.PathwayEnrollment, error) {
	for _, e := range f.enrollments {
		if e.PathwayID == pathwayID && e.UserID == userID && e.Status != model.EnrollmentDropped {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindEnrolled(pathwayID, userID uint) (*model.PathwayEnrollment, error) {
	for _, e := range f.enrollments {
		if e.PathwayID == pathwayID && e.UserID == userID && e.Status == model.EnrollmentEnrolled {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindEnrollmentsByUser(userID uint) ([]model.PathwayEnrollment, error) {
	var out []model.PathwayEnrollment
	for _, e := range f.enrollments {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakePathwayStore) CreateEnrollment(e *model.PathwayEnrollment) error {
	e.ID = f.id()
	f.enrollments = append(f.enrollments, e)
	return nil
}

func (f *fakePathwayStore) UpdateEnrollment(e *model.PathwayEnrollment) error {
	for i, existing := range f.enrollments {
		if existing.ID == e.ID {
			f.enrollments[i] = e
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindProgress(stepID, userID uint) (*model.PathwayProgress, error) {
	for _, p := range f.progress {
		if p.StepID == stepID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathwayStore) FindProgressForPathway(pathwayID, userID uint) ([]model.PathwayProgress, error) {
	stepsIn := make(map[uint]bool)
	for _, s := range f.steps {
		if s.PathwayID == pathwayID {
			stepsIn[s.ID] = true
		}
	}
	var out []model.PathwayProgress
	for _, p := range f.progress {
		if p.UserID == userID && stepsIn[p.StepID] {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePathwayStore) CountCompletedSteps(pathwayID, userID uint) (int64, error) {
	records, _ := f.FindProgressForPathway(pathwayID, userID)
	seen := make(map[uint]bool)
	for _, p := range records {
		seen[p.StepID] = true
	}
	return int64(len(seen)), nil
}

func (f *fakePathwayStore) CreateProgress(p *model.PathwayProgress) error {
	for _, existing := range f.progress {
		if existing.StepID == p.StepID && existing.UserID == p.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := *p
	stored.ID = f.id()
	f.progress = append(f.progress, &stored)
	if f.raceNextCreateProgress {
		f.raceNextCreateProgress = false
		return gorm.ErrDuplicatedKey
	}
	p.ID = stored.ID
	return nil
}

func (f *fakePathwayStore) addPathway(churchID uint, ptype model.PathwayType, active bool) *model.Pathway {
	p := &model.Pathway{ChurchID: churchID, Type: ptype, Name: "Pathway", Active: active}
	p.ID = f.id()
	f.pathways = append(f.pathways, p)
	return p
}

func (f *fakePathwayStore) addStep(pathwayID uint, order int) *model.PathwayStep {
	s := &model.PathwayStep{PathwayID: pathwayID, Name: "Step", OrderIndex: order}
	s.ID = f.id()
	f.steps = append(f.steps, s)
	return s
}

// removeStep mirrors a soft delete: the step stops existing for every
// query while progress rows that reference it stay behind.
func (f *fakePathwayStore) removeStep(id uint) {
	for i, s := range f.steps {
		if s.ID == id {
			f.steps = append(f.steps[:i], f.steps[i+1:]...)
			return
		}
	}
}

type fakeMemberStore struct {
	users map[uint]*model.User
}

func (f *fakeMemberStore) FindByID(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService() (*PathwayService, *fakePathwayStore, *fakeMemberStore) {
	store := newFakePathwayStore()
	members := &fakeMemberStore{users: make(map[uint]*model.User)}
	return NewPathwayService(store, members), store, members
}

func TestEnrollIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)

	first, err := svc.Enroll(10, pathway.ID, 1)
	if err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if first.Status != model.EnrollmentEnrolled {
		t.Fatalf("expected status enrolled, got %q", first.Status)
	}

	second, err := svc.Enroll(10, pathway.ID, 1)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same enrollment id, got %d and %d", first.ID, second.ID)
	}
	if len(store.enrollments) != 1 {
		t.Fatalf("expected exactly one enrollment row, got %d", len(store.enrollments))
	}
}

func TestEnrollRejectsOtherChurchPathway(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(2, model.PathwayGrowth, true)

	_, err := svc.Enroll(10, pathway.ID, 1)
	if !errors.Is(err, util.ErrPathwayNotFound) {
		t.Fatalf("expected ErrPathwayNotFound, got %v", err)
	}
}

func TestEnrollRejectsInactivePathway(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, false)

	_, err := svc.Enroll(10, pathway.ID, 1)
	if !errors.Is(err, util.ErrPathwayNotFound) {
		t.Fatalf("expected ErrPathwayNotFound, got %v", err)
	}
}

func TestAutoEnrollSkipsNonNewBeliever(t *testing.T) {
	svc, store, members := newTestService()
	members.users[10] = &model.User{BaseModel: model.BaseModel{ID: 10}, ChurchID: 1, NewBeliever: false}

	enrollment, err := svc.AutoEnrollNewBeliever(10)
	if err != nil {
		t.Fatalf("auto enroll: %v", err)
	}
	if enrollment != nil {
		t.Fatalf("expected nil enrollment for non new believer")
	}
	if len(store.pathways) != 0 || len(store.enrollments) != 0 {
		t.Fatalf("expected no rows created, got %d pathways %d enrollments",
			len(store.pathways), len(store.enrollments))
	}
}

func TestAutoEnrollSkipsUserWithoutChurch(t *testing.T) {
	svc, store, members := newTestService()
	members.users[10] = &model.User{BaseModel: model.BaseModel{ID: 10}, ChurchID: 0, NewBeliever: true}

	enrollment, err := svc.AutoEnrollNewBeliever(10)
	if err != nil {
		t.Fatalf("auto enroll: %v", err)
	}
	if enrollment != nil || len(store.pathways) != 0 {
		t.Fatalf("expected complete no-op")
	}
}

func TestAutoEnrollCreatesDefaultPathwayLazily(t *testing.T) {
	svc, store, members := newTestService()
	members.users[10] = &model.User{BaseModel: model.BaseModel{ID: 10}, ChurchID: 1, NewBeliever: true}

	enrollment, err := svc.AutoEnrollNewBeliever(10)
	if err != nil {
		t.Fatalf("auto enroll: %v", err)
	}
	if enrollment == nil {
		t.Fatalf("expected an enrollment")
	}
	if len(store.pathways) != 1 {
		t.Fatalf("expected exactly one pathway, got %d", len(store.pathways))
	}
	created := store.pathways[0]
	if created.Type != model.PathwayFoundation || created.Name != DefaultFoundationName || !created.Active {
		t.Fatalf("unexpected default pathway: %+v", created)
	}

	// Repeat call reuses both rows.
	again, err := svc.AutoEnrollNewBeliever(10)
	if err != nil {
		t.Fatalf("repeat auto enroll: %v", err)
	}
	if again.ID != enrollment.ID {
		t.Fatalf("expected same enrollment id")
	}
	if len(store.pathways) != 1 || len(store.enrollments) != 1 {
		t.Fatalf("expected no additional rows, got %d pathways %d enrollments",
			len(store.pathways), len(store.enrollments))
	}
}

func TestAutoEnrollReusesExistingFoundationPathway(t *testing.T) {
	svc, store, members := newTestService()
	members.users[10] = &model.User{BaseModel: model.BaseModel{ID: 10}, ChurchID: 1, NewBeliever: true}
	pathway := store.addPathway(1, model.PathwayFoundation, true)

	enrollment, err := svc.AutoEnrollNewBeliever(10)
	if err != nil {
		t.Fatalf("auto enroll: %v", err)
	}
	if enrollment.PathwayID != pathway.ID {
		t.Fatalf("expected enrollment into pathway %d, got %d", pathway.ID, enrollment.PathwayID)
	}
	if len(store.pathways) != 1 {
		t.Fatalf("expected no new pathway")
	}
}

func TestCompleteStepUnknownStep(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CompleteStep(99, 10, 1, nil, "")
	if !errors.Is(err, util.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestCompleteStepRejectsOtherChurchStep(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(2, model.PathwayGrowth, true)
	step := store.addStep(pathway.ID, 0)

	_, err := svc.CompleteStep(step.ID, 10, 1, nil, "")
	if !errors.Is(err, util.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound for another church's step, got %v", err)
	}
	if len(store.progress) != 0 {
		t.Fatalf("expected no progress recorded, got %d rows", len(store.progress))
	}
}

func TestCompleteStepIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	step := store.addStep(pathway.ID, 0)
	store.addStep(pathway.ID, 1)

	leader := uint(77)
	first, err := svc.CompleteStep(step.ID, 10, 1, &leader, "verified")
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if first.CompletedBy == nil || *first.CompletedBy != leader {
		t.Fatalf("expected completedBy %d", leader)
	}

	second, err := svc.CompleteStep(step.ID, 10, 1, nil, "changed")
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same progress id, got %d and %d", first.ID, second.ID)
	}
	if second.Notes != "verified" {
		t.Fatalf("expected original notes preserved, got %q", second.Notes)
	}
	if len(store.progress) != 1 {
		t.Fatalf("expected exactly one progress row, got %d", len(store.progress))
	}
}

func TestCompleteStepDuplicateKeyTreatedAsSuccess(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	step := store.addStep(pathway.ID, 0)
	store.addStep(pathway.ID, 1)
	store.raceNextCreateProgress = true

	progress, err := svc.CompleteStep(step.ID, 10, 1, nil, "")
	if err != nil {
		t.Fatalf("expected duplicate key to be absorbed, got %v", err)
	}
	if progress == nil || progress.StepID != step.ID {
		t.Fatalf("expected the winning row back, got %+v", progress)
	}
	if len(store.progress) != 1 {
		t.Fatalf("expected one progress row, got %d", len(store.progress))
	}
}

func TestCompleteStepWithoutEnrollmentIsSilent(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	step := store.addStep(pathway.ID, 0)

	// Single step: recording it makes the pathway complete, but there is no
	// enrolled row to transition.
	progress, err := svc.CompleteStep(step.ID, 10, 1, nil, "")
	if err != nil {
		t.Fatalf("complete step: %v", err)
	}
	if progress == nil {
		t.Fatalf("expected progress row")
	}
	if len(store.enrollments) != 0 {
		t.Fatalf("expected no enrollment rows")
	}
}

func TestCompletingAllStepsCompletesEnrollment(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayFoundation, true)
	s1 := store.addStep(pathway.ID, 0)
	s2 := store.addStep(pathway.ID, 1)
	s3 := store.addStep(pathway.ID, 2)

	enrollment, err := svc.Enroll(10, pathway.ID, 1)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// Out of order on purpose.
	if _, err := svc.CompleteStep(s2.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete s2: %v", err)
	}
	complete, err := svc.IsPathwayComplete(pathway.ID, 10)
	if err != nil || complete {
		t.Fatalf("expected incomplete pathway, got complete=%v err=%v", complete, err)
	}
	if enrollment.Status != model.EnrollmentEnrolled {
		t.Fatalf("expected still enrolled")
	}

	if _, err := svc.CompleteStep(s1.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete s1: %v", err)
	}
	if _, err := svc.CompleteStep(s3.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete s3: %v", err)
	}

	complete, err = svc.IsPathwayComplete(pathway.ID, 10)
	if err != nil || !complete {
		t.Fatalf("expected complete pathway, got complete=%v err=%v", complete, err)
	}
	if enrollment.Status != model.EnrollmentCompleted {
		t.Fatalf("expected enrollment completed, got %q", enrollment.Status)
	}
	if enrollment.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}

	// Re-completing a step must not touch the completed enrollment.
	completedAt := *enrollment.CompletedAt
	if _, err := svc.CompleteStep(s1.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if !enrollment.CompletedAt.Equal(completedAt) {
		t.Fatalf("expected completion timestamp unchanged")
	}
}

func TestRemovedStepDoesNotBlockCompletion(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	s1 := store.addStep(pathway.ID, 0)
	s2 := store.addStep(pathway.ID, 1)

	enrollment, err := svc.Enroll(10, pathway.ID, 1)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.CompleteStep(s1.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete s1: %v", err)
	}

	// Removing a completed step leaves its progress row behind; only live
	// steps may count, or done exceeds total and the enrollment can never
	// transition.
	store.removeStep(s1.ID)

	if _, err := svc.CompleteStep(s2.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete s2: %v", err)
	}

	complete, err := svc.IsPathwayComplete(pathway.ID, 10)
	if err != nil || !complete {
		t.Fatalf("expected complete pathway, got complete=%v err=%v", complete, err)
	}
	if enrollment.Status != model.EnrollmentCompleted {
		t.Fatalf("expected enrollment completed, got %q", enrollment.Status)
	}

	summaries, err := svc.GetUserProgress(10)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	got := summaries[0]
	if got.CompletedSteps != 1 || got.TotalSteps != 1 {
		t.Fatalf("expected 1/1 live steps, got %d/%d", got.CompletedSteps, got.TotalSteps)
	}
}

func TestZeroStepPathwayIsVacuouslyComplete(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)

	complete, err := svc.IsPathwayComplete(pathway.ID, 10)
	if err != nil {
		t.Fatalf("is complete: %v", err)
	}
	if !complete {
		t.Fatalf("expected zero-step pathway to be vacuously complete")
	}
}

func TestGetUserProgressZeroStepsReportsZeroPercent(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	if _, err := svc.Enroll(10, pathway.ID, 1); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	summaries, err := svc.GetUserProgress(10)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	if summaries[0].Percent != 0 || summaries[0].TotalSteps != 0 {
		t.Fatalf("expected 0%% on zero steps, got %d%%", summaries[0].Percent)
	}
}

func TestGetUserProgressPercentage(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	s1 := store.addStep(pathway.ID, 0)
	store.addStep(pathway.ID, 1)
	store.addStep(pathway.ID, 2)

	if _, err := svc.Enroll(10, pathway.ID, 1); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.CompleteStep(s1.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	summaries, err := svc.GetUserProgress(10)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	got := summaries[0]
	if got.CompletedSteps != 1 || got.TotalSteps != 3 {
		t.Fatalf("expected 1/3 steps, got %d/%d", got.CompletedSteps, got.TotalSteps)
	}
	if got.Percent != 33 {
		t.Fatalf("expected 33%%, got %d%%", got.Percent)
	}
	if !got.Steps[0].Completed || got.Steps[1].Completed || got.Steps[2].Completed {
		t.Fatalf("unexpected per-step completion flags")
	}
}

func TestDropIsTerminal(t *testing.T) {
	svc, store, _ := newTestService()
	pathway := store.addPathway(1, model.PathwayGrowth, true)
	step := store.addStep(pathway.ID, 0)

	if _, err := svc.Enroll(10, pathway.ID, 1); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	dropped, err := svc.Drop(pathway.ID, 10)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if dropped.Status != model.EnrollmentDropped || dropped.DroppedAt == nil {
		t.Fatalf("expected dropped enrollment, got %+v", dropped)
	}

	// Completing the last step after a drop records progress but performs
	// no transition out of the terminal state.
	if _, err := svc.CompleteStep(step.ID, 10, 1, nil, ""); err != nil {
		t.Fatalf("complete after drop: %v", err)
	}
	if dropped.Status != model.EnrollmentDropped {
		t.Fatalf("expected enrollment to stay dropped, got %q", dropped.Status)
	}

	// A second drop has nothing enrolled to act on.
	if _, err := svc.Drop(pathway.ID, 10); !errors.Is(err, util.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}
