package sessionstore_test

import (
	"testing"
	"time"

	"github.com/sistercircle/sistercircle/internal/app/store/sessions"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"github.com/sistercircle/sistercircle/internal/testutil"
)

func TestCreateSetsParticipantsAndDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := sessionstore.New(db)

	mentor := testutil.CreateMentor(t, db, "Ada Okafor", "ada@example.com")
	mentee := testutil.CreateMentee(t, db, "Maya Reyes", "maya@example.com")

	sess := testutil.CreateSession(t, db, mentor, mentee, "Negotiation")
	if sess.Status != models.SessionPending {
		t.Errorf("status = %q, want pending", sess.Status)
	}
	if len(sess.Participants) != 2 || sess.Participants[0] != mentor.ID || sess.Participants[1] != mentee.ID {
		t.Errorf("participants = %v", sess.Participants)
	}

	// Both sides see the session in their list.
	for _, id := range sess.Participants {
		list, err := store.ListForUser(ctx, id)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 1 || list[0].ID != sess.ID {
			t.Errorf("list for %s = %+v", id.Hex(), list)
		}
	}
}

// Reschedule takes any timestamp, including one in the past, and always
// flips the status to scheduled.
func TestRescheduleAcceptsPastTimes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := sessionstore.New(db)

	mentor := testutil.CreateMentor(t, db, "Ada Okafor", "ada@example.com")
	mentee := testutil.CreateMentee(t, db, "Maya Reyes", "maya@example.com")
	sess := testutil.CreateSession(t, db, mentor, mentee, "Review")

	past := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	if err := store.Reschedule(ctx, sess.ID, past); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	got, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.SessionScheduled {
		t.Errorf("status = %q, want scheduled", got.Status)
	}
	if got.Time == nil || !got.Time.Equal(past) {
		t.Errorf("time = %v, want %v", got.Time, past)
	}
}

func TestSetMeetLinkPatchesOnlyLinkFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := sessionstore.New(db)

	mentor := testutil.CreateMentor(t, db, "Ada Okafor", "ada@example.com")
	mentee := testutil.CreateMentee(t, db, "Maya Reyes", "maya@example.com")
	sess := testutil.CreateSession(t, db, mentor, mentee, "Topic stays")

	if err := store.SetMeetLink(ctx, sess.ID, "https://meet.google.com/x", "evt-1"); err != nil {
		t.Fatalf("set meet link: %v", err)
	}

	got, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MeetLink == nil || *got.MeetLink != "https://meet.google.com/x" {
		t.Errorf("meet link = %v", got.MeetLink)
	}
	if got.EventID == nil || *got.EventID != "evt-1" {
		t.Errorf("event id = %v", got.EventID)
	}
	if got.Topic != "Topic stays" || got.Status != models.SessionPending {
		t.Errorf("unrelated fields changed: topic=%q status=%q", got.Topic, got.Status)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := sessionstore.New(db)

	mentor := testutil.CreateMentor(t, db, "Ada Okafor", "ada@example.com")
	mentee := testutil.CreateMentee(t, db, "Maya Reyes", "maya@example.com")
	sess := testutil.CreateSession(t, db, mentor, mentee, "Chat")

	if _, err := store.AddMessage(ctx, models.Message{
		SessionID: sess.ID, Type: models.MessageText, Body: "hello",
		SenderID: mentee.ID, SenderName: mentee.FullName,
	}); err != nil {
		t.Fatalf("add text: %v", err)
	}
	if _, err := store.AddMessage(ctx, models.Message{
		SessionID: sess.ID, Type: models.MessageAudio, AudioPath: "voice/x/1-y.webm",
		SenderID: mentor.ID, SenderName: mentor.FullName,
	}); err != nil {
		t.Fatalf("add audio: %v", err)
	}

	// Invalid writes are rejected.
	if _, err := store.AddMessage(ctx, models.Message{
		SessionID: sess.ID, Type: models.MessageText, SenderID: mentee.ID,
	}); err == nil {
		t.Error("empty text message accepted")
	}
	if _, err := store.AddMessage(ctx, models.Message{
		SessionID: sess.ID, Type: "video", Body: "x", SenderID: mentee.ID,
	}); err == nil {
		t.Error("unknown message type accepted")
	}

	msgs, err := store.ListMessages(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "hello" || msgs[1].AudioPath == "" {
		t.Errorf("order or content wrong: %+v", msgs)
	}
}
