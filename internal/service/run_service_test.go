package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/queue"
)

// fakeRunRepository is an in-memory RunRepository
type fakeRunRepository struct {
	runs      map[string]*models.CampaignRun
	createErr error
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{runs: make(map[string]*models.CampaignRun)}
}

func (f *fakeRunRepository) Create(ctx context.Context, run *models.CampaignRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepository) GetByID(ctx context.Context, id string) (*models.CampaignRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("campaign run " + id + " not found")
	}
	return run, nil
}

func (f *fakeRunRepository) UpdateStatus(ctx context.Context, id, status string, errMsg *string) error {
	run, ok := f.runs[id]
	if !ok {
		return models.ErrNotFoundWithMsg("campaign run " + id + " not found")
	}
	run.Status = status
	run.Error = errMsg
	return nil
}

func (f *fakeRunRepository) SaveResponse(ctx context.Context, id, status string, response []byte) error {
	run, ok := f.runs[id]
	if !ok {
		return models.ErrNotFoundWithMsg("campaign run " + id + " not found")
	}
	run.Status = status
	run.Response = response
	return nil
}

func (f *fakeRunRepository) List(ctx context.Context, limit int) ([]*models.CampaignRun, error) {
	runs := make([]*models.CampaignRun, 0, len(f.runs))
	for _, run := range f.runs {
		runs = append(runs, run)
	}
	return runs, nil
}

// fakeQueueClient records published run jobs
type fakeQueueClient struct {
	published  []*models.RunJob
	publishErr error
}

func (f *fakeQueueClient) Publish(ctx context.Context, job *models.RunJob) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, job)
	return nil
}

func (f *fakeQueueClient) Consume(ctx context.Context, handler queue.RunHandler, concurrency int) error {
	return nil
}

func (f *fakeQueueClient) Close() error                     { return nil }
func (f *fakeQueueClient) Health(ctx context.Context) error { return nil }

func newTestRunService(repo *fakeRunRepository, q *fakeQueueClient) RunService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunService(repo, q, logger)
}

func TestRunService_Queue(t *testing.T) {
	repo := newFakeRunRepository()
	q := &fakeQueueClient{}
	svc := newTestRunService(repo, q)

	req := &models.ExecuteRequest{
		Contacts:   []models.Contact{{Phone: "123"}},
		Channels:   []string{"sms"},
		SmsMessage: "hello",
	}

	result, err := svc.Queue(context.Background(), req)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}
	if result.Status != models.RunStatusQueued {
		t.Errorf("status = %q, want queued", result.Status)
	}

	run, ok := repo.runs[result.RunID]
	if !ok {
		t.Fatal("run was not stored")
	}

	var stored models.ExecuteRequest
	if err := json.Unmarshal(run.Request, &stored); err != nil {
		t.Fatalf("stored request is not valid JSON: %v", err)
	}
	if stored.SmsMessage != "hello" {
		t.Errorf("stored request lost fields: %+v", stored)
	}

	if len(q.published) != 1 || q.published[0].RunID != result.RunID {
		t.Errorf("published jobs = %+v, want one for %s", q.published, result.RunID)
	}
}

func TestRunService_Queue_InvalidRequest(t *testing.T) {
	repo := newFakeRunRepository()
	svc := newTestRunService(repo, &fakeQueueClient{})

	_, err := svc.Queue(context.Background(), &models.ExecuteRequest{Channels: []string{"sms"}})
	if err == nil {
		t.Fatal("Queue() should reject an invalid request")
	}
	if len(repo.runs) != 0 {
		t.Errorf("invalid request was stored")
	}
}

func TestRunService_Queue_PublishFailureMarksRunFailed(t *testing.T) {
	repo := newFakeRunRepository()
	q := &fakeQueueClient{publishErr: errors.New("redis unavailable")}
	svc := newTestRunService(repo, q)

	_, err := svc.Queue(context.Background(), &models.ExecuteRequest{
		Contacts: []models.Contact{{Phone: "123"}},
		Channels: []string{"sms"},
	})
	if err == nil {
		t.Fatal("Queue() should surface the publish failure")
	}

	// The stored run is marked failed rather than stranded as queued.
	if len(repo.runs) != 1 {
		t.Fatalf("expected one stored run, got %d", len(repo.runs))
	}
	for _, run := range repo.runs {
		if run.Status != models.RunStatusFailed {
			t.Errorf("run status = %q, want failed", run.Status)
		}
	}
}
