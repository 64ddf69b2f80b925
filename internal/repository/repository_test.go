package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/marden/adrival/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCampaignCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
		WithArgs(
			sqlmock.AnyArg(), "Acme vs Globex", "Acme", "Globex",
			"94103", nil, nil, nil, nil, nil, nil,
			models.CampaignStatusDraft, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &models.Campaign{
		Name:           "Acme vs Globex",
		BrandName:      "Acme",
		CompetitorName: "Globex",
		Zipcode:        "94103",
	}
	if err := repo.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if c.Status != models.CampaignStatusDraft {
		t.Errorf("Status = %q, want draft", c.Status)
	}

	expectations(t, mock)
}

func TestCampaignGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "brand_name", "competitor_name", "zipcode", "industry",
		"audience_type", "offer_type", "goal", "scheduled_at", "timezone",
		"status", "created_at", "updated_at",
	}).AddRow("c1", "Acme vs Globex", "Acme", "Globex", "94103", nil, nil, nil, nil, nil, nil, "draft", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, brand_name, competitor_name")).
		WithArgs("c1").
		WillReturnRows(rows)

	c, err := repo.GetByID("c1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if c == nil {
		t.Fatal("GetByID() = nil, want campaign")
	}
	if c.BrandName != "Acme" || c.Zipcode != "94103" {
		t.Errorf("unexpected campaign: %+v", c)
	}

	expectations(t, mock)
}

func TestCampaignGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, brand_name, competitor_name")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	c, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if c != nil {
		t.Errorf("GetByID() = %+v, want nil", c)
	}

	expectations(t, mock)
}

func TestVariantCreateBatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVariantRepository(db)

	mock.ExpectBegin()
	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ad_variants")).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	ads := []models.Ad{
		{Headline: "A", AdText: "a", CTA: "c", Hashtags: []string{"#a"}, QualityScore: 0.8},
		{Headline: "B", AdText: "b", CTA: "c", Hashtags: []string{"#b"}},
	}
	variants, err := repo.CreateBatch("c1", ads)
	if err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("len(variants) = %d, want 2", len(variants))
	}
	if variants[0].Position != 0 || variants[1].Position != 1 {
		t.Error("positions not assigned in input order")
	}
	if !variants[0].QualityScore.Valid {
		t.Error("non-zero quality score should persist as a value")
	}
	if variants[1].QualityScore.Valid {
		t.Error("zero quality score should persist as NULL")
	}

	expectations(t, mock)
}

func TestRecipientUpsertInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecipientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO recipients")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))

	rec := &models.Recipient{
		CampaignID: "c1",
		Name:       "Alice",
		Email:      "alice@x.com",
		Channel:    models.ChannelEmail,
	}
	id, err := repo.Upsert(rec)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if id != "r1" {
		t.Errorf("id = %q, want r1", id)
	}

	expectations(t, mock)
}

func TestRecipientUpsertConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecipientRepository(db)

	// ON CONFLICT DO NOTHING returns no rows; the existing ID is fetched.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO recipients")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM recipients WHERE campaign_id = $1 AND email = $2")).
		WithArgs("c1", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing"))

	rec := &models.Recipient{
		CampaignID: "c1",
		Email:      "alice@x.com",
		Channel:    models.ChannelEmail,
	}
	id, err := repo.Upsert(rec)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if id != "existing" {
		t.Errorf("id = %q, want existing", id)
	}

	expectations(t, mock)
}

func TestRecipientUpsertUnknownChannel(t *testing.T) {
	db, _ := newMock(t)
	repo := NewRecipientRepository(db)

	_, err := repo.Upsert(&models.Recipient{CampaignID: "c1", Channel: "fax"})
	if err == nil {
		t.Error("Upsert() with unknown channel should fail")
	}
}

func TestSendCreateStampsSentAt(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSendRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sends")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := &models.Send{
		CampaignID:  "c1",
		AdVariantID: "v1",
		RecipientID: "r1",
		Channel:     models.ChannelSMS,
		Status:      models.SendStatusSent,
	}
	if err := repo.Create(s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.SentAt == nil {
		t.Error("sent status must stamp sent_at")
	}

	expectations(t, mock)
}

func TestSendUpdateStatusDelivered(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSendRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sends SET status = $1, delivered_at = $2 WHERE id = $3")).
		WithArgs(models.SendStatusDelivered, sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus("s1", models.SendStatusDelivered, ""); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	expectations(t, mock)
}

func TestSendAppendEvent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSendRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs("s1", models.EventTypeSend, []byte(`{"channel":"sms"}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.AppendEvent("s1", models.EventTypeSend, map[string]any{"channel": "sms"})
	if err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}

	expectations(t, mock)
}

func TestJobEnqueueAndClaim(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	job, err := repo.Enqueue(models.JobKindGenerate, map[string]string{"our_brand": "Acme"})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if job.Status != models.JobStatusPending {
		t.Errorf("Status = %q, want pending", job.Status)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(models.JobStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "status", "payload", "created_at"}).
			AddRow(job.ID, job.Kind, models.JobStatusPending, []byte(`{}`), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET status = $1, started_at = $2 WHERE id = $3")).
		WithArgs(models.JobStatusRunning, sqlmock.AnyArg(), job.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	claimed, err := repo.ClaimNext()
	if err != nil {
		t.Fatalf("ClaimNext() error = %v", err)
	}
	if claimed == nil {
		t.Fatal("ClaimNext() = nil, want job")
	}
	if claimed.Status != models.JobStatusRunning {
		t.Errorf("claimed Status = %q, want running", claimed.Status)
	}
	if claimed.StartedAt == nil {
		t.Error("claim must stamp started_at")
	}

	expectations(t, mock)
}

func TestJobClaimNextEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(models.JobStatusPending).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	job, err := repo.ClaimNext()
	if err != nil {
		t.Fatalf("ClaimNext() error = %v", err)
	}
	if job != nil {
		t.Errorf("ClaimNext() = %+v, want nil on empty queue", job)
	}

	expectations(t, mock)
}

func TestJobFinishAndFail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET status = $1, result = $2, finished_at = $3 WHERE id = $4")).
		WithArgs(models.JobStatusFinished, sqlmock.AnyArg(), sqlmock.AnyArg(), "j1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Finish("j1", map[string]bool{"success": true}); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET status = $1, error = $2, finished_at = $3 WHERE id = $4")).
		WithArgs(models.JobStatusFailed, "boom", sqlmock.AnyArg(), "j2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Fail("j2", "boom"); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	expectations(t, mock)
}
