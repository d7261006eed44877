package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diogo/omnichat/internal/attachment"
	apierrors "github.com/diogo/omnichat/internal/errors"
	"github.com/diogo/omnichat/internal/models"
)

func userMsg(content string) models.Message {
	return models.NewUserMessage(content, nil, time.Now())
}

func TestNew_AutoCreatesConversation(t *testing.T) {
	s := New()

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	active := s.Active()
	if active == nil {
		t.Fatal("no active conversation after New")
	}
	if active.Title != models.DefaultTitle {
		t.Errorf("Title = %q, want %q", active.Title, models.DefaultTitle)
	}
	if len(active.Messages) != 0 {
		t.Errorf("expected empty message list, got %d", len(active.Messages))
	}
}

func TestCreateConversation(t *testing.T) {
	s := New()
	before := s.Len()

	id := s.CreateConversation()

	if s.Len() != before+1 {
		t.Errorf("Len = %d, want %d", s.Len(), before+1)
	}
	if s.ActiveID() != id {
		t.Errorf("ActiveID = %s, want %s", s.ActiveID(), id)
	}
	// New conversation goes to the front of the collection.
	if s.Conversations()[0].ID != id {
		t.Error("new conversation is not first")
	}
	if got := s.Get(id); got == nil || len(got.Messages) != 0 {
		t.Error("new conversation should exist and be empty")
	}
}

func TestDeleteConversation_Active(t *testing.T) {
	s := New()
	first := s.ActiveID()
	second := s.CreateConversation()
	third := s.CreateConversation()

	s.DeleteConversation(third)

	if s.ActiveID() != "" {
		t.Errorf("ActiveID = %q, want empty after deleting active", s.ActiveID())
	}
	// Remaining conversations keep their prior order.
	convs := s.Conversations()
	if len(convs) != 2 {
		t.Fatalf("Len = %d, want 2", len(convs))
	}
	if convs[0].ID != second || convs[1].ID != first {
		t.Error("remaining conversations reordered")
	}
}

func TestDeleteConversation_Inactive(t *testing.T) {
	s := New()
	first := s.ActiveID()
	second := s.CreateConversation()

	s.DeleteConversation(first)

	if s.ActiveID() != second {
		t.Error("active selection should survive deleting another conversation")
	}
}

func TestDeleteConversation_UnknownID(t *testing.T) {
	s := New()
	active := s.ActiveID()

	s.DeleteConversation("nope")

	if s.Len() != 1 || s.ActiveID() != active {
		t.Error("unknown-id delete changed observable state")
	}
}

func TestSelectConversation(t *testing.T) {
	s := New()
	first := s.ActiveID()
	s.CreateConversation()

	s.SelectConversation(first)
	if s.ActiveID() != first {
		t.Errorf("ActiveID = %s, want %s", s.ActiveID(), first)
	}
}

func TestSelectConversation_UnknownID(t *testing.T) {
	s := New()
	active := s.ActiveID()

	s.SelectConversation("ghost")

	if s.ActiveID() != active {
		t.Error("unknown-id select changed active selection")
	}
}

func TestAppendMessages_Order(t *testing.T) {
	s := New()
	id := s.ActiveID()

	var want []string
	for i := 0; i < 5; i++ {
		msg := userMsg(fmt.Sprintf("msg-%d", i))
		want = append(want, msg.ID)
		s.AppendMessages(id, msg)
	}

	got := s.Get(id).Messages
	if len(got) != len(want) {
		t.Fatalf("message count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("message %d out of order", i)
		}
	}
}

func TestAppendMessages_DerivesTitle(t *testing.T) {
	s := New()
	id := s.ActiveID()

	s.AppendMessages(id, userMsg("What is the airspeed of a swallow?"))

	want := models.DeriveTitle("What is the airspeed of a swallow?")
	if got := s.Get(id).Title; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
	if len(want) > models.TitleMaxLen {
		t.Errorf("derived title exceeds bound: %d", len(want))
	}
}

func TestAppendMessages_TitleDerivedOnce(t *testing.T) {
	s := New()
	id := s.ActiveID()

	s.AppendMessages(id, userMsg("first"))
	s.AppendMessages(id, userMsg("second"))

	if got := s.Get(id).Title; got != "first" {
		t.Errorf("Title = %q, want %q (derived at most once)", got, "first")
	}
}

func TestAppendMessages_ImageOnlyTitleFallback(t *testing.T) {
	s := New()
	id := s.ActiveID()

	att := &attachment.Attachment{MIMEType: "image/png", Data: []byte{1, 2, 3}}
	s.AppendMessages(id, models.NewUserMessage("", att, time.Now()))

	if got := s.Get(id).Title; got != models.FallbackTitle {
		t.Errorf("Title = %q, want %q", got, models.FallbackTitle)
	}
}

func TestAppendMessages_UnknownConversation(t *testing.T) {
	s := New()
	s.AppendMessages("ghost", userMsg("hello"))

	if len(s.Active().Messages) != 0 {
		t.Error("message leaked into another conversation")
	}
}

func TestAppendMessages_BumpsUpdatedAt(t *testing.T) {
	s := New()
	id := s.ActiveID()
	before := s.Get(id).UpdatedAt

	time.Sleep(time.Millisecond)
	s.AppendMessages(id, userMsg("hi"))

	if !s.Get(id).UpdatedAt.After(before) {
		t.Error("UpdatedAt not bumped")
	}
}

func TestUpdateMessage(t *testing.T) {
	s := New()
	id := s.ActiveID()
	placeholder := models.NewPlaceholder(time.Now())
	s.AppendMessages(id, userMsg("hi"), placeholder)

	content := "Hi there"
	status := models.StatusDone
	s.UpdateMessage(id, placeholder.ID, MessagePatch{
		Content: &content,
		Sources: []models.Source{{Title: "Ref", URI: "https://example.com"}},
		Status:  &status,
	})

	got := s.Get(id).Messages[1]
	if got.ID != placeholder.ID {
		t.Error("resolved message lost its id")
	}
	if got.Content != content || got.Status != models.StatusDone {
		t.Errorf("patch not applied: %+v", got)
	}
	if len(got.Sources) != 1 {
		t.Errorf("sources not attached: %d", len(got.Sources))
	}
}

func TestUpdateMessage_PartialPatch(t *testing.T) {
	s := New()
	id := s.ActiveID()
	placeholder := models.NewPlaceholder(time.Now())
	s.AppendMessages(id, placeholder)

	status := models.StatusError
	s.UpdateMessage(id, placeholder.ID, MessagePatch{Status: &status})

	got := s.Get(id).Messages[0]
	if got.Status != models.StatusError {
		t.Error("status not patched")
	}
	if got.Content != "" {
		t.Errorf("content changed by status-only patch: %q", got.Content)
	}
}

func TestUpdateMessage_UnknownIDs(t *testing.T) {
	s := New()
	id := s.ActiveID()
	msg := userMsg("hello")
	s.AppendMessages(id, msg)

	content := "mutated"
	s.UpdateMessage(id, "ghost", MessagePatch{Content: &content})
	s.UpdateMessage("ghost", msg.ID, MessagePatch{Content: &content})

	if s.Get(id).Messages[0].Content != "hello" {
		t.Error("unknown-id update changed message")
	}
}

func TestHistory_StrictlyBefore(t *testing.T) {
	s := New()
	id := s.ActiveID()
	first := userMsg("one")
	second := userMsg("two")
	third := userMsg("three")
	s.AppendMessages(id, first, second, third)

	turns := s.History(id, third.ID)
	if len(turns) != 2 {
		t.Fatalf("history length = %d, want 2", len(turns))
	}
	if turns[0].Content != "one" || turns[1].Content != "two" {
		t.Error("history content mismatch")
	}
}

func TestHistory_UnknownConversation(t *testing.T) {
	s := New()
	if turns := s.History("ghost", ""); turns != nil {
		t.Errorf("expected nil history, got %d turns", len(turns))
	}
}

func TestExportMarkdown(t *testing.T) {
	s := New()
	id := s.ActiveID()
	s.AppendMessages(id, userMsg("What is Go?"))
	reply := models.Message{
		ID:      models.NewID(),
		Role:    models.RoleAssistant,
		Content: "A programming language.",
		Status:  models.StatusDone,
		Sources: []models.Source{{Title: "go.dev", URI: "https://go.dev"}},
	}
	s.AppendMessages(id, reply)

	md := s.ExportMarkdown(id)

	for _, want := range []string{
		"## User",
		"## Assistant",
		"What is Go?",
		"A programming language.",
		"[go.dev](https://go.dev)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestExportMarkdown_UnknownID(t *testing.T) {
	s := New()
	if md := s.ExportMarkdown("ghost"); md != "" {
		t.Errorf("expected empty transcript, got %q", md)
	}
}

func TestImportJSON(t *testing.T) {
	payload := `[
		{
			"id": "web-1",
			"title": "Quantum physics",
			"updatedAt": 1700000000000,
			"messages": [
				{"id": "m1", "role": "user", "content": "Explain quantum physics", "timestamp": 1700000000000, "status": "done"},
				{"id": "m2", "role": "assistant", "content": "Gladly.", "timestamp": 1700000001000, "status": "done",
					"sources": [{"title": "Wikipedia", "uri": "https://en.wikipedia.org/wiki/Quantum"}]}
			]
		},
		{
			"id": "web-2",
			"messages": [
				{"id": "m3", "role": "assistant", "content": "", "status": "sending"}
			]
		}
	]`

	s := New()
	active := s.ActiveID()

	n, err := s.ImportJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported = %d, want 2", n)
	}
	if s.ActiveID() != active {
		t.Error("import changed active selection")
	}

	conv := s.Get("web-1")
	if conv == nil {
		t.Fatal("imported conversation not found")
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(conv.Messages))
	}
	if len(conv.Messages[1].Sources) != 1 || conv.Messages[1].Sources[0].Title != "Wikipedia" {
		t.Error("sources not imported")
	}

	// A stale pending message can never resolve; it imports as an error.
	orphan := s.Get("web-2")
	if orphan.Title != models.DefaultTitle {
		t.Errorf("missing title should default, got %q", orphan.Title)
	}
	if orphan.Messages[0].Status != models.StatusError {
		t.Errorf("stale sending status = %s, want error", orphan.Messages[0].Status)
	}
}

func TestImportJSON_Lenient(t *testing.T) {
	// Entries without an id are dropped, not fatal.
	payload := `[{"title": "no id"}, {"id": "ok", "messages": []}]`
	s := NewEmpty()

	n, err := s.ImportJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if n != 1 {
		t.Errorf("imported = %d, want 1", n)
	}
}

func TestImportJSON_Invalid(t *testing.T) {
	s := NewEmpty()

	_, err := s.ImportJSON([]byte("{not json"))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
	if !errors.Is(err, apierrors.ErrInvalidResponse) {
		t.Errorf("invalid JSON error = %v, want ErrInvalidResponse match", err)
	}

	if _, err := s.ImportJSON([]byte(`{"id": "object-not-array"}`)); err == nil {
		t.Error("expected error for non-array JSON")
	}
}
